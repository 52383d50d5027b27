package thirdparty

import (
	"context"
	"errors"
	"fmt"
	"log"
)

const (
	searchQueryScope = "Search query mapping"
	outputNodeScope  = "Output node mapping"
)

// CheckSourceNodeMappings validates the outbound mapping list (node ->
// search query) against the input node schema and the vendor's search query
// fields.
func CheckSourceNodeMappings(mappings FieldMappings, sourceNodeSchema GraphItemSchema, vendor Vendor) error {
	if len(mappings) == 0 {
		return mappingError(StructureError, "", -1, "", "At least one search query mapping must be defined")
	}
	for _, field := range vendor.SearchQueryFields {
		if field.Required && !mappings.Targets(field.Key) {
			return mappingError(RequiredFieldMissingError, searchQueryScope, -1, field.Key,
				"required field %q is missing", field.Key)
		}
	}
	for i, mapping := range mappings {
		if err := checkSourceNodeMapping(i, mapping, sourceNodeSchema, vendor); err != nil {
			return err
		}
	}
	return nil
}

func checkSourceNodeMapping(index int, mapping FieldMapping, schema GraphItemSchema, vendor Vendor) error {
	key := mapping.OutputKey()
	vendorField, known := vendor.SearchQueryField(key)
	if !known {
		return mappingError(UnknownFieldError, searchQueryScope, index, key, "vendor field %q is unknown", key)
	}
	switch mapping := mapping.(type) {
	case ConstantMapping:
		if mapping.Value.IsZero() {
			return mappingError(StructureError, searchQueryScope, index, key, "constant value for %q must be defined", key)
		}
		if mapping.ValueType != UnknownScalar && mapping.ValueType != mapping.Value.Type() {
			return mappingError(TypeIncompatibilityError, searchQueryScope, index, key,
				"constant value for %q does not match its value type (got %s, expected %s)", key, mapping.Value.Type(), mapping.ValueType)
		}
		// constants must match the vendor field exactly, no widening
		if mapping.Value.Type() != vendorField.Type {
			return mappingError(TypeIncompatibilityError, searchQueryScope, index, key,
				"constant value for %q is invalid (got %s, expected %s)", key, mapping.Value.Type(), vendorField.Type)
		}
	case PropertyMapping:
		if mapping.InputPropertyKey == "" {
			return mappingError(StructureError, searchQueryScope, index, key, "source node property must be defined")
		}
		property, exists := schema.Property(mapping.InputPropertyKey)
		if !exists {
			return mappingError(UnknownFieldError, searchQueryScope, index, mapping.InputPropertyKey,
				"unknown property %q for node category %q", mapping.InputPropertyKey, schema.ItemType)
		}
		if !IsLegalPropertyToVendorField(property.Type, vendorField.Type) {
			return mappingError(TypeIncompatibilityError, searchQueryScope, index, property.PropertyKey,
				"graph property %q is of type %q in the graph schema, but should be of type %q to match the vendor field",
				property.PropertyKey, property.Type, vendorField.Type)
		}
	default:
		return mappingError(StructureError, searchQueryScope, index, key, "unknown mapping type %q", mapping.Kind())
	}
	return nil
}

// CheckDetailsResponseToOutputNodeMapping validates the inbound mapping list
// (vendor result -> output node). Target properties missing from the schema
// are accepted: the host creates them on first write.
func CheckDetailsResponseToOutputNodeMapping(mappings FieldMappings, outputNodeSchema GraphItemSchema, vendor Vendor) error {
	if outputNodeSchema.Access != AccessWrite {
		return mappingError(SchemaAccessError, "", -1, outputNodeSchema.ItemType,
			"Output node-category %q is not writable", outputNodeSchema.ItemType)
	}
	if len(mappings) == 0 {
		return mappingError(StructureError, outputNodeScope, -1, "", "at least one node field mapping must be defined")
	}
	for i, mapping := range mappings {
		if err := checkOutputNodeMapping(i, mapping, outputNodeSchema, vendor); err != nil {
			return err
		}
	}
	return nil
}

func checkOutputNodeMapping(index int, mapping FieldMapping, schema GraphItemSchema, vendor Vendor) error {
	key := mapping.OutputKey()
	target, exists := schema.Property(key)
	if !exists {
		log.Printf("Output node mapping: will create new property %q on created %q nodes", key, schema.ItemType)
		return nil
	}
	switch mapping := mapping.(type) {
	case ConstantMapping:
		if mapping.ValueType == UnknownScalar {
			return mappingError(StructureError, outputNodeScope, index, key, "constant value type must be defined (property %s)", key)
		}
		if !mapping.Value.IsZero() && mapping.Value.Type() != mapping.ValueType {
			return mappingError(TypeIncompatibilityError, outputNodeScope, index, key,
				"constant value for %q does not match its value type (got %s, expected %s)", key, mapping.Value.Type(), mapping.ValueType)
		}
		return checkValueToGraphPropertyType(index, "constant value", mapping.ValueType, target)
	case PropertyMapping:
		if mapping.InputPropertyKey == "" {
			return mappingError(StructureError, outputNodeScope, index, key, "source field key must be defined (input property: %s)", key)
		}
		vendorField, known := vendor.OutputField(mapping.InputPropertyKey)
		if !known {
			return mappingError(UnknownFieldError, outputNodeScope, index, mapping.InputPropertyKey,
				"unknown vendor property %q", mapping.InputPropertyKey)
		}
		return checkValueToGraphPropertyType(index, "vendor field", vendorField.Type, target)
	default:
		return mappingError(StructureError, outputNodeScope, index, key, "unknown mapping type %q", mapping.Kind())
	}
}

func checkValueToGraphPropertyType(index int, sourceKind string, sourceType ScalarType, target GraphPropertySchema) error {
	if !IsLegalValueForProperty(sourceType, target.Type) {
		return mappingError(TypeIncompatibilityError, outputNodeScope, index, target.PropertyKey,
			"%s of type %q cannot be assigned to node property %q of type %q",
			sourceKind, sourceType, target.PropertyKey, target.Type)
	}
	return nil
}

// CheckSearchResponseFieldSelection verifies every displayed field is a known
// search response field.
func CheckSearchResponseFieldSelection(selection []string, vendor Vendor) error {
	for _, key := range selection {
		if _, known := vendor.SearchResponseField(key); !known {
			return mappingError(UnknownFieldError, "Search response selection", -1, key, "field %q is unknown", key)
		}
	}
	return nil
}

// CheckOutputEdgeType verifies the created edge type is writable.
func CheckOutputEdgeType(edgeSchema GraphItemSchema) error {
	if edgeSchema.Access != AccessWrite {
		return mappingError(SchemaAccessError, "", -1, edgeSchema.ItemType,
			"Created edge-type %q is not writable", edgeSchema.ItemType)
	}
	return nil
}

// CheckIntegration runs every configuration check for one integration,
// fetching the schemas it needs. All failures are reported together.
func CheckIntegration(ctx context.Context, model IntegrationModel, registry *Registry, schemas SchemaProvider) error {
	vendor, err := registry.Vendor(model.VendorKey)
	if err != nil {
		return err
	}
	var errs []error
	if err := vendor.CheckAdminSettings(model.AdminSettings); err != nil {
		errs = append(errs, err)
	}

	inputSchema, err := schemas.NodeTypeSchema(ctx, model.SourceKey, model.InputNodeCategory, AccessRead)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to get schema of input node category %q %w", model.InputNodeCategory, err))
	} else if err := CheckSourceNodeMappings(model.SearchQueryFieldMapping, inputSchema, vendor); err != nil {
		errs = append(errs, err)
	}

	if err := CheckSearchResponseFieldSelection(model.SearchResponseFieldSelection, vendor); err != nil {
		errs = append(errs, err)
	}

	edgeSchema, err := schemas.EdgeTypeSchema(ctx, model.SourceKey, model.OutputEdgeType, AccessWrite)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to get schema of output edge type %q %w", model.OutputEdgeType, err))
	} else if err := CheckOutputEdgeType(edgeSchema); err != nil {
		errs = append(errs, err)
	}

	outputSchema, err := schemas.NodeTypeSchema(ctx, model.SourceKey, model.OutputNodeCategory, AccessWrite)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to get schema of output node category %q %w", model.OutputNodeCategory, err))
	} else if err := CheckDetailsResponseToOutputNodeMapping(model.OutputNodeFieldMapping, outputSchema, vendor); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
