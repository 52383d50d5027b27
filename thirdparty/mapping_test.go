package thirdparty

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMappings_UnmarshalJSON(t *testing.T) {
	var mappings FieldMappings
	err := json.Unmarshal([]byte(`[
		{"type": "property", "outputPropertyKey": "q", "inputPropertyKey": "name"},
		{"type": "constant", "outputPropertyKey": "active", "valueType": "boolean", "value": true},
		{"type": "constant", "outputPropertyKey": "note", "value": null}
	]`), &mappings)
	require.NoError(t, err)
	assert.Equal(t, FieldMappings{
		property("q", "name"),
		constant("active", Boolean, BoolValue(true)),
		constant("note", UnknownScalar, Value{}),
	}, mappings)
}

func TestFieldMappings_UnmarshalJSON_Invalid(t *testing.T) {
	cases := []struct {
		name     string
		json     string
		expected string
	}{
		{"not a list", `{"type": "property"}`, `field mappings must be a list but have: {"type": "property"}`},
		{"unknown type", `[{"type": "magic", "outputPropertyKey": "q"}]`, `unknown mapping type "magic"`},
		{"unknown value type", `[{"type": "constant", "outputPropertyKey": "q", "valueType": "date"}]`, `unknown constant value type "date" (property q)`},
		{"object value", `[{"type": "constant", "outputPropertyKey": "q", "value": {"a": 1}}]`, `invalid constant value for "q": unsupported value map[a:1] (map[string]interface {})`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var mappings FieldMappings
			err := json.Unmarshal([]byte(c.json), &mappings)
			assert.EqualError(t, err, c.expected)
		})
	}

	var mappings FieldMappings
	err := json.Unmarshal([]byte(`[{"type": "property"}, {"type": "other"}]`), &mappings)
	var mappingErr *MappingError
	require.True(t, errors.As(err, &mappingErr))
	assert.Equal(t, 1, mappingErr.Index)
	assert.ErrorIs(t, err, ErrMappingStructure)
}

func TestFieldMappings_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(FieldMappings{
		property("q", "name"),
		constant("size", Number, NumberValue(12.5)),
		constant("label", UnknownScalar, StringValue("x")),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type": "property", "outputPropertyKey": "q", "inputPropertyKey": "name"},
		{"type": "constant", "outputPropertyKey": "size", "valueType": "number", "value": 12.5},
		{"type": "constant", "outputPropertyKey": "label", "value": "x"}
	]`, string(b))

	b, err = json.Marshal(FieldMappings(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestFieldMappings_Lookup(t *testing.T) {
	mappings := FieldMappings{
		property("q", "first"),
		constant("q", String, StringValue("x")),
		property("q", "last"),
		property("city", "town"),
	}
	assert.True(t, mappings.Targets("q"))
	assert.False(t, mappings.Targets("zip"))
	assert.Equal(t, []string{"first", "last"}, mappings.InputKeys("q"))
	assert.Equal(t, []string{}, mappings.InputKeys("zip"))
}

func TestParseIntegrationModel(t *testing.T) {
	model, err := ParseIntegrationModel([]byte(`{
		"id": "i1",
		"vendorKey": "test-vendor",
		"sourceKey": "abcd1234",
		"inputNodeCategory": "Company",
		"searchQueryFieldMapping": [{"type": "property", "outputPropertyKey": "q", "inputPropertyKey": "name"}],
		"searchResponseFieldSelection": ["name"],
		"outputNodeCategory": "CompanyRecord",
		"outputEdgeType": "HAS_RECORD",
		"outputNodeFieldMapping": [],
		"adminSettings": {"apiKey": "k"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "i1", model.ID)
	assert.Equal(t, FieldMappings{property("q", "name")}, model.SearchQueryFieldMapping)
	assert.Equal(t, "k", model.AdminSettings["apiKey"])

	public, err := json.Marshal(model.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(public), "adminSettings")
}
