package thirdparty

import (
	"encoding/json"
	"fmt"
	"time"
)

// VendorIntegration is an integration model bound to its vendor.
type VendorIntegration struct {
	Model  IntegrationModel
	Vendor Vendor
	// Now stamps DateToken substitutions, time.Now when nil.
	Now func() time.Time
}

// NewVendorIntegration resolves the model's vendor in registry.
func NewVendorIntegration(model IntegrationModel, registry *Registry) (VendorIntegration, error) {
	vendor, err := registry.Vendor(model.VendorKey)
	if err != nil {
		return VendorIntegration{}, fmt.Errorf("integration %s: %w", model.ID, err)
	}
	return VendorIntegration{Model: model, Vendor: vendor}, nil
}

func (i VendorIntegration) ID() string {
	return i.Model.ID
}

func (i VendorIntegration) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

// AdminSetting returns a non-empty admin setting or an error naming it.
func (i VendorIntegration) AdminSetting(key string) (string, error) {
	value := i.Model.AdminSettings[key]
	if value == "" {
		return "", fmt.Errorf("missing admin setting %q for integration %s", key, i.Model.ID)
	}
	return value, nil
}

// SearchQuery evaluates the outbound mapping against an input node.
func (i VendorIntegration) SearchQuery(node Node) (Record, error) {
	return EvaluateOutboundQuery(i.Model.SearchQueryFieldMapping, node, i.Vendor)
}

// OutputNode evaluates the inbound mapping against a vendor result.
func (i VendorIntegration) OutputNode(result VendorResult) OutputNode {
	return OutputNode{
		SourceKey:  i.Model.SourceKey,
		Categories: []string{i.Model.OutputNodeCategory},
		Properties: EvaluateInboundProperties(i.Model.OutputNodeFieldMapping, result, i.now()),
	}
}

// OutputEdge returns the edge from the created node to the input node.
func (i VendorIntegration) OutputEdge(outputNodeID, inputNodeID string) OutputEdge {
	return OutputEdge{
		SourceKey:  i.Model.SourceKey,
		Type:       i.Model.OutputEdgeType,
		Source:     outputNodeID,
		Target:     inputNodeID,
		Properties: Record{},
	}
}

// CustomAction is the host custom action opening the search page for a node.
type CustomAction struct {
	SourceKey   string `json:"sourceKey"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URLTemplate string `json:"urlTemplate"`
	Sharing     string `json:"sharing"`
}

// CustomAction builds the custom action registered for this integration.
func (i VendorIntegration) CustomAction(basePath string) CustomAction {
	category, _ := json.Marshal(i.Model.InputNodeCategory)
	return CustomAction{
		SourceKey:   i.Model.SourceKey,
		Name:        fmt.Sprintf("Fetch details from %s", i.Vendor.Name),
		Description: fmt.Sprintf("Get details from %s (action auto-generated by the third-party data plugin)", i.Vendor.Name),
		URLTemplate: fmt.Sprintf("{{baseURL}}plugins/%s/?action=search&integrationId=%s&sourceKey=%s&nodeId={{node:%s}}",
			basePath, i.Model.ID, i.Model.SourceKey, category),
		Sharing: "source",
	}
}
