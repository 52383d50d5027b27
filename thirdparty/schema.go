package thirdparty

import (
	"context"
	"encoding/json"
	"fmt"
)

// AccessRight is the current user's access to a graph item type.
type AccessRight string

const (
	AccessNone  AccessRight = "none"
	AccessRead  AccessRight = "read"
	AccessWrite AccessRight = "write"
)

// GraphPropertySchema describes one property slot of a node category or
// edge type.
type GraphPropertySchema struct {
	PropertyKey string       `json:"propertyKey"`
	Type        PropertyType `json:"type"`
	Required    bool         `json:"required"`
}

// GraphItemSchema is the schema of one node category or edge type as seen by
// the current user.
type GraphItemSchema struct {
	ItemType   string                `json:"itemType"`
	Access     AccessRight           `json:"access"`
	Properties []GraphPropertySchema `json:"properties"`
}

// Property finds a property schema by key.
func (s GraphItemSchema) Property(key string) (GraphPropertySchema, bool) {
	for _, p := range s.Properties {
		if p.PropertyKey == key {
			return p, true
		}
	}
	return GraphPropertySchema{}, false
}

// SchemaProvider is implemented by the host application's schema API.
// Access-right and visibility filtering happen on its side.
type SchemaProvider interface {
	NodeTypeSchema(ctx context.Context, sourceKey, nodeCategory string, access AccessRight) (GraphItemSchema, error)
	EdgeTypeSchema(ctx context.Context, sourceKey, edgeType string, access AccessRight) (GraphItemSchema, error)
}

// GraphSchema is a static snapshot of a data-source schema, as exported from
// the host. It serves as a SchemaProvider for offline checks.
type GraphSchema struct {
	SourceKey string            `json:"sourceKey"`
	Nodes     []GraphItemSchema `json:"nodes"`
	Edges     []GraphItemSchema `json:"edges"`
}

// ParseGraphSchema decodes a schema snapshot.
func ParseGraphSchema(data []byte) (GraphSchema, error) {
	var result GraphSchema
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to parse graph schema %w", err)
	}
	return result, nil
}

func (s GraphSchema) NodeTypeSchema(ctx context.Context, sourceKey, nodeCategory string, access AccessRight) (GraphItemSchema, error) {
	return s.find(sourceKey, s.Nodes, nodeCategory, "node category")
}

func (s GraphSchema) EdgeTypeSchema(ctx context.Context, sourceKey, edgeType string, access AccessRight) (GraphItemSchema, error) {
	return s.find(sourceKey, s.Edges, edgeType, "edge type")
}

// find returns the item as is; the checkers report insufficient access.
func (s GraphSchema) find(sourceKey string, items []GraphItemSchema, itemType string, kind string) (GraphItemSchema, error) {
	if s.SourceKey != "" && s.SourceKey != sourceKey {
		return GraphItemSchema{}, fmt.Errorf("no schema for data-source %s", sourceKey)
	}
	for _, item := range items {
		if item.ItemType == itemType {
			return item, nil
		}
	}
	return GraphItemSchema{}, fmt.Errorf("unknown %s %q", kind, itemType)
}
