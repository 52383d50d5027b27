package thirdparty

import (
	"encoding/json"
	"log"
)

// EvaluateOutboundQuery builds a vendor search query from an input node.
// Absent or degraded node values are skipped; the only failure is a required
// search field left without a value.
func EvaluateOutboundQuery(mappings FieldMappings, node Node, vendor Vendor) (Record, error) {
	query := make(Record)
	for _, mapping := range mappings {
		value, ok := nodeInputValue(mapping, node)
		if !ok {
			continue
		}
		key := mapping.OutputKey()
		field, known := vendor.SearchQueryField(key)
		if !known {
			log.Printf("Warning: search query builder: unknown vendor field %s (vendor: %s)", key, vendor.Key)
			continue
		}
		switch field.Type {
		case String:
			appendToString(query, key, value)
		case Number, Boolean:
			if value.Type() != field.Type {
				log.Printf("Warning: search query builder: invalid input value type for %s (node: #%s, vendor: %s, got %s, expected %s)",
					key, node.ID, vendor.Key, value.Type(), field.Type)
				continue
			}
			query.SetField(key, value)
		default:
			log.Printf("Warning: search query builder: vendor field %s has no type (vendor: %s)", key, vendor.Key)
		}
	}
	if err := checkSearchQuery(query, mappings, vendor); err != nil {
		return nil, err
	}
	return query, nil
}

func nodeInputValue(mapping FieldMapping, node Node) (Value, bool) {
	switch mapping := mapping.(type) {
	case ConstantMapping:
		return mapping.Value, !mapping.Value.IsZero()
	case PropertyMapping:
		return node.PropertyValue(mapping.InputPropertyKey)
	default:
		return Value{}, false
	}
}

// checkSearchQuery fails on the first required search field missing from query.
func checkSearchQuery(query Record, mappings FieldMappings, vendor Vendor) error {
	for _, field := range vendor.SearchQueryFields {
		if !field.Required {
			continue
		}
		if _, exists := query[field.Key]; exists {
			continue
		}
		attempted, _ := json.Marshal(mappings.InputKeys(field.Key))
		return mappingError(RequiredFieldMissingError, "", -1, field.Key,
			"Search with %s: required search parameter %s is missing (input node properties: %s)",
			vendor.Key, field.Key, attempted)
	}
	return nil
}
