package thirdparty

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MappingKind is the persisted discriminant of a field mapping.
type MappingKind string

const (
	ConstantKind MappingKind = "constant"
	PropertyKind MappingKind = "property"
)

// FieldMapping describes how one target field gets its value. It is either a
// ConstantMapping or a PropertyMapping.
type FieldMapping interface {
	OutputKey() string
	Kind() MappingKind
	isFieldMapping()
}

// ConstantMapping injects a literal value into OutputPropertyKey.
// ValueType may be unset in persisted configuration; validators decide
// whether that is acceptable for their direction.
type ConstantMapping struct {
	OutputPropertyKey string
	ValueType         ScalarType
	Value             Value
}

func (m ConstantMapping) OutputKey() string { return m.OutputPropertyKey }
func (m ConstantMapping) Kind() MappingKind { return ConstantKind }
func (ConstantMapping) isFieldMapping()     {}

// PropertyMapping copies InputPropertyKey from the source side into
// OutputPropertyKey on the target side.
type PropertyMapping struct {
	OutputPropertyKey string
	InputPropertyKey  string
}

func (m PropertyMapping) OutputKey() string { return m.OutputPropertyKey }
func (m PropertyMapping) Kind() MappingKind { return PropertyKind }
func (PropertyMapping) isFieldMapping()     {}

// FieldMappings is an ordered mapping list. Order matters when several
// entries write the same target key.
type FieldMappings []FieldMapping

// Targets reports whether any entry writes key.
func (m FieldMappings) Targets(key string) bool {
	for _, mapping := range m {
		if mapping.OutputKey() == key {
			return true
		}
	}
	return false
}

// InputKeys returns the source property keys referenced by entries writing key.
func (m FieldMappings) InputKeys(key string) []string {
	result := []string{}
	for _, mapping := range m {
		if p, ok := mapping.(PropertyMapping); ok && p.OutputPropertyKey == key {
			result = append(result, p.InputPropertyKey)
		}
	}
	return result
}

func (m FieldMappings) MarshalJSON() ([]byte, error) {
	json := "[]"
	var err error
	for i, mapping := range m {
		path := fmt.Sprintf("%d", i)
		switch mapping := mapping.(type) {
		case ConstantMapping:
			entry := map[string]interface{}{
				"outputPropertyKey": mapping.OutputPropertyKey,
				"type":              ConstantKind,
				"value":             mapping.Value.Interface(),
			}
			if mapping.ValueType != UnknownScalar {
				entry["valueType"] = mapping.ValueType.String()
			}
			json, err = sjson.Set(json, path, entry)
		case PropertyMapping:
			json, err = sjson.Set(json, path, map[string]interface{}{
				"outputPropertyKey": mapping.OutputPropertyKey,
				"type":              PropertyKind,
				"inputPropertyKey":  mapping.InputPropertyKey,
			})
		default:
			err = fmt.Errorf("unknown mapping type %T", mapping)
		}
		if err != nil {
			return nil, err
		}
	}
	return []byte(json), nil
}

func (m *FieldMappings) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid field mapping json: %s", data)
	}
	list := gjson.ParseBytes(data)
	if list.Type == gjson.Null {
		*m = nil
		return nil
	}
	if !list.IsArray() {
		return fmt.Errorf("field mappings must be a list but have: %s", list.Raw)
	}
	var result FieldMappings
	var err error
	list.ForEach(func(_, entry gjson.Result) bool {
		doc := fieldMappingDoc{
			OutputPropertyKey: entry.Get("outputPropertyKey").String(),
			Type:              entry.Get("type").String(),
			ValueType:         entry.Get("valueType").String(),
			InputPropertyKey:  entry.Get("inputPropertyKey").String(),
		}
		if v := entry.Get("value"); v.Exists() {
			doc.Value = v.Value()
		}
		var mapping FieldMapping
		mapping, err = doc.mapping(len(result))
		if err != nil {
			return false
		}
		result = append(result, mapping)
		return true
	})
	if err != nil {
		return err
	}
	*m = result
	return nil
}

// UnmarshalYAML supports mapping lists declared in YAML configuration.
func (m *FieldMappings) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var docs []fieldMappingDoc
	if err := unmarshal(&docs); err != nil {
		return err
	}
	result := make(FieldMappings, 0, len(docs))
	for i, doc := range docs {
		mapping, err := doc.mapping(i)
		if err != nil {
			return err
		}
		result = append(result, mapping)
	}
	*m = result
	return nil
}

// fieldMappingDoc is the persisted shape of a mapping entry.
type fieldMappingDoc struct {
	OutputPropertyKey string      `yaml:"outputPropertyKey"`
	Type              string      `yaml:"type"`
	ValueType         string      `yaml:"valueType"`
	Value             interface{} `yaml:"value"`
	InputPropertyKey  string      `yaml:"inputPropertyKey"`
}

func (d fieldMappingDoc) mapping(index int) (FieldMapping, error) {
	switch MappingKind(d.Type) {
	case ConstantKind:
		var valueType ScalarType
		if d.ValueType != "" {
			var ok bool
			if valueType, ok = ParseScalarType(d.ValueType); !ok {
				return nil, mappingError(StructureError, "", index, d.OutputPropertyKey,
					"unknown constant value type %q (property %s)", d.ValueType, d.OutputPropertyKey)
			}
		}
		value, err := ValueOf(d.Value)
		if err != nil {
			return nil, mappingError(StructureError, "", index, d.OutputPropertyKey,
				"invalid constant value for %q: %v", d.OutputPropertyKey, err)
		}
		return ConstantMapping{OutputPropertyKey: d.OutputPropertyKey, ValueType: valueType, Value: value}, nil
	case PropertyKind:
		return PropertyMapping{OutputPropertyKey: d.OutputPropertyKey, InputPropertyKey: d.InputPropertyKey}, nil
	default:
		return nil, mappingError(StructureError, "", index, d.OutputPropertyKey, "unknown mapping type %q", d.Type)
	}
}

// IntegrationModel binds one vendor to a graph data-source through two
// mapping lists.
type IntegrationModel struct {
	ID                           string            `json:"id" yaml:"id"`
	VendorKey                    string            `json:"vendorKey" yaml:"vendorKey"`
	SourceKey                    string            `json:"sourceKey" yaml:"sourceKey"`
	InputNodeCategory            string            `json:"inputNodeCategory" yaml:"inputNodeCategory"`
	SearchQueryFieldMapping      FieldMappings     `json:"searchQueryFieldMapping" yaml:"searchQueryFieldMapping"`
	SearchResponseFieldSelection []string          `json:"searchResponseFieldSelection,omitempty" yaml:"searchResponseFieldSelection"`
	OutputNodeCategory           string            `json:"outputNodeCategory" yaml:"outputNodeCategory"`
	OutputEdgeType               string            `json:"outputEdgeType" yaml:"outputEdgeType"`
	OutputNodeFieldMapping       FieldMappings     `json:"outputNodeFieldMapping" yaml:"outputNodeFieldMapping"`
	AdminSettings                map[string]string `json:"adminSettings,omitempty" yaml:"adminSettings"`
}

// Public returns a copy without admin settings, safe to hand to the UI.
func (m IntegrationModel) Public() IntegrationModel {
	m.AdminSettings = nil
	return m
}

// ParseIntegrationModel decodes one integration from its JSON document.
func ParseIntegrationModel(data []byte) (IntegrationModel, error) {
	var result IntegrationModel
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to parse integration %w", err)
	}
	return result, nil
}
