package thirdparty

import (
	"context"
	"fmt"
	"log"
	"time"
)

// NodeReader reads input nodes from the host graph.
type NodeReader interface {
	GetNode(ctx context.Context, sourceKey string, nodeID string) (Node, error)
}

// GraphWriter creates imported nodes and edges in the host graph and returns
// their ids.
type GraphWriter interface {
	CreateNode(ctx context.Context, node OutputNode) (string, error)
	CreateEdge(ctx context.Context, edge OutputEdge) (string, error)
}

type SearchResponse struct {
	IntegrationID string         `json:"integrationId"`
	InputNodeID   string         `json:"inputNodeId"`
	VendorKey     string         `json:"vendorKey,omitempty"`
	Results       []VendorResult `json:"results"`
	Error         *APIError      `json:"error,omitempty"`
}

type DetailsResponse struct {
	IntegrationID  string        `json:"integrationId"`
	SearchResultID string        `json:"searchResultId"`
	VendorKey      string        `json:"vendorKey,omitempty"`
	Result         *VendorResult `json:"result,omitempty"`
	Error          *APIError     `json:"error,omitempty"`
}

type ImportResult struct {
	NodeID string `json:"nodeId"`
	EdgeID string `json:"edgeId"`
}

// Searcher runs integrations against their vendors.
type Searcher struct {
	Config   Config
	Registry *Registry
	Nodes    NodeReader
	Graph    GraphWriter
	// Now stamps imported nodes, time.Now when nil.
	Now func() time.Time
}

func (s *Searcher) integration(integrationID string) (VendorIntegration, error) {
	model, err := s.Config.IntegrationByID(integrationID)
	if err != nil {
		return VendorIntegration{}, err
	}
	integration, err := NewVendorIntegration(model, s.Registry)
	if err != nil {
		return integration, err
	}
	integration.Now = s.Now
	return integration, nil
}

// Search reads the input node, evaluates the search query and calls the
// vendor. Failures are reported in the response error envelope.
func (s *Searcher) Search(ctx context.Context, opts SearchOptions) SearchResponse {
	response := SearchResponse{
		IntegrationID: opts.IntegrationID,
		InputNodeID:   opts.NodeID,
		Results:       []VendorResult{},
	}
	integration, err := s.integration(opts.IntegrationID)
	if err == nil {
		response.VendorKey = integration.Vendor.Key
		var results []VendorResult
		results, err = s.search(ctx, integration, opts)
		if err == nil {
			response.Results = results
		}
	}
	if err != nil {
		log.Printf("Warning: search with integration %s failed: %v", opts.IntegrationID, err)
		response.Error = AsAPIError(err, "search-error")
	}
	return response
}

func (s *Searcher) search(ctx context.Context, integration VendorIntegration, opts SearchOptions) ([]VendorResult, error) {
	if err := integration.Vendor.CheckAdminSettings(integration.Model.AdminSettings); err != nil {
		return nil, fmt.Errorf("integration %s is not configured %w", integration.ID(), err)
	}
	node, err := s.Nodes.GetNode(ctx, opts.SourceKey, opts.NodeID)
	if err != nil {
		return nil, fmt.Errorf("Failed to get input node #%s: %w", opts.NodeID, err)
	}
	query, err := integration.SearchQuery(node)
	if err != nil {
		return nil, err
	}
	driver, err := s.Registry.SearchDriver(integration.Vendor.Key)
	if err != nil {
		return nil, fmt.Errorf("%w (integration %s)", err, integration.ID())
	}
	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = s.Config.MaxResults
	}
	return driver.Search(ctx, query, integration, maxResults)
}

// Details fetches one search result from a searchAndDetails vendor.
func (s *Searcher) Details(ctx context.Context, opts DetailsOptions) DetailsResponse {
	response := DetailsResponse{
		IntegrationID:  opts.IntegrationID,
		SearchResultID: opts.SearchResultID,
	}
	integration, err := s.integration(opts.IntegrationID)
	if err == nil {
		response.VendorKey = integration.Vendor.Key
		var driver DetailsDriver
		driver, err = s.Registry.DetailsDriver(integration.Vendor.Key)
		if err == nil {
			var result VendorResult
			result, err = driver.Details(ctx, integration, opts.SearchResultID)
			if err == nil {
				response.Result = &result
			}
		}
	}
	if err != nil {
		log.Printf("Warning: details with integration %s failed: %v", opts.IntegrationID, err)
		response.Error = AsAPIError(err, "get-details-error")
	}
	return response
}

// Import creates the output node for a vendor result, then the edge from it
// to the input node.
func (s *Searcher) Import(ctx context.Context, integrationID string, inputNodeID string, result VendorResult) (ImportResult, error) {
	var imported ImportResult
	integration, err := s.integration(integrationID)
	if err != nil {
		return imported, err
	}
	imported.NodeID, err = s.Graph.CreateNode(ctx, integration.OutputNode(result))
	if err != nil {
		return imported, fmt.Errorf("failed to create output node %w", err)
	}
	imported.EdgeID, err = s.Graph.CreateEdge(ctx, integration.OutputEdge(imported.NodeID, inputNodeID))
	if err != nil {
		return imported, fmt.Errorf("failed to create output edge %w", err)
	}
	return imported, nil
}
