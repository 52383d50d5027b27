package thirdparty

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigJSON = `{
  "basePath": "lkdata",
  "customField": {"ignored": true},
  "integrations": [
    {
      "id": "ch-1",
      "vendorKey": "company-house-uk",
      "sourceKey": "abcd1234",
      "inputNodeCategory": "Company",
      "searchQueryFieldMapping": [
        {"type": "property", "outputPropertyKey": "q", "inputPropertyKey": "name"}
      ],
      "outputNodeCategory": "CompanyRecord",
      "outputEdgeType": "HAS_RECORD",
      "outputNodeFieldMapping": [
        {"type": "property", "outputPropertyKey": "title", "inputPropertyKey": "company_name"},
        {"type": "constant", "outputPropertyKey": "importedAt", "valueType": "string", "value": "$date"},
        {"type": "constant", "outputPropertyKey": "score", "valueType": "number", "value": 3}
      ],
      "adminSettings": {"apiKey": "${COMPANY_HOUSE_API_KEY}"}
    }
  ]
}`

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig([]byte(testConfigJSON))
	require.NoError(t, err)
	assert.Equal(t, "lkdata", c.BasePath)
	assert.Equal(t, DefaultMaxResults, c.MaxResults)
	require.Len(t, c.Integrations, 1)

	integration := c.Integrations[0]
	assert.Equal(t, "ch-1", integration.ID)
	assert.Equal(t, FieldMappings{property("q", "name")}, integration.SearchQueryFieldMapping)
	assert.Equal(t, FieldMappings{
		property("title", "company_name"),
		constant("importedAt", String, StringValue(DateToken)),
		constant("score", Number, NumberValue(3)),
	}, integration.OutputNodeFieldMapping)
	assert.Equal(t, map[string]string{"apiKey": "${COMPANY_HOUSE_API_KEY}"}, integration.AdminSettings)
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := []struct {
		name     string
		document string
		expected string
	}{
		{"no base path", `{"integrations": []}`, "basePath must be a non-empty string"},
		{"max results", `{"basePath": "x", "maxResults": 500}`, "maxResults must be between 1 and 100"},
		{"missing id", `{"basePath": "x", "integrations": [{"vendorKey": "v"}]}`, "integration id must be defined"},
		{"duplicate id", `{"basePath": "x", "integrations": [{"id": "a"}, {"id": "a"}]}`, "duplicate integration id a"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(c.document))
			assert.EqualError(t, err, c.expected)
		})
	}

	_, err := ParseConfig([]byte(`{"basePath": "x", "integrations": [{"id": "a", "searchQueryFieldMapping": [{"type": "magic"}]}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown mapping type "magic"`)
}

func TestYAMLConfigUnmarshaler_Merge(t *testing.T) {
	base := NewYAMLFile("base.yaml", []byte("basePath: lkdata\nmaxResults: 20\n"))
	override := NewYAMLFile("override.yaml", []byte("maxResults: 50\n"))
	empty := NewYAMLFile("empty.yaml", nil)

	c, err := YAMLConfigUnmarshaler{}.Unmarshal(nil, base, empty, override)
	require.NoError(t, err)
	assert.Equal(t, "lkdata", c.BasePath)
	assert.Equal(t, 50, c.MaxResults)
	assert.Equal(t, []IntegrationModel{}, c.Integrations)
}

type mapEnv map[string]string

func (m mapEnv) LookupEnv(child string) (string, bool) {
	v, ok := m[child]
	return v, ok
}

func TestConfig_ExpandAdminSettings(t *testing.T) {
	c, err := YAMLConfigUnmarshaler{}.Unmarshal(mapEnv{"COMPANY_HOUSE_API_KEY": "secret"}, NewYAMLFile("config.json", []byte(testConfigJSON)))
	require.NoError(t, err)
	assert.Equal(t, "secret", c.Integrations[0].AdminSettings["apiKey"])
	// only admin settings are expanded
	assert.Equal(t, constant("importedAt", String, StringValue(DateToken)), c.Integrations[0].OutputNodeFieldMapping[1])

	_, err = YAMLConfigUnmarshaler{}.Unmarshal(mapEnv{}, NewYAMLFile("config.json", []byte(testConfigJSON)))
	assert.EqualError(t, err, `admin setting "apiKey" of integration ch-1 references undefined variable COMPANY_HOUSE_API_KEY`)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("LKDATA_SECRETS", `{"PLUGIN_BASE_PATH":"lkdata","COMPANY_HOUSE_API_KEY":"from-env"}`)

	c, err := LoadConfigFromEnvironment(NewYAMLFile("config.json", []byte(testConfigJSON)))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Integrations[0].AdminSettings["apiKey"])
}

func TestFindPluginEnvVar(t *testing.T) {
	t.Setenv("LKDATA_ONE", `{"PLUGIN_BASE_PATH":"one"}`)
	t.Setenv("LKDATA_TWO", `{"PLUGIN_BASE_PATH":"two"}`)
	t.Setenv("LKDATA_TWO_AGAIN", `{"PLUGIN_BASE_PATH":"two"}`)

	name, err := FindPluginEnvVar("one")
	require.NoError(t, err)
	assert.Equal(t, "LKDATA_ONE", name)

	name, err = FindPluginEnvVar("none")
	require.NoError(t, err)
	assert.Equal(t, "", name)

	_, err = FindPluginEnvVar("two")
	assert.Error(t, err)
}

func TestConfig_IntegrationByID(t *testing.T) {
	c, err := ParseConfig([]byte(testConfigJSON))
	require.NoError(t, err)

	_, err = c.IntegrationByID("ch-1")
	assert.NoError(t, err)

	_, err = c.IntegrationByID("nope")
	assert.EqualError(t, err, "Integration not found: nope")
	assert.True(t, errors.Is(err, ErrIntegrationNotFound))
	assert.Equal(t, &APIError{Code: "not_found", Message: "Integration not found: nope"}, AsAPIError(err, "search-error"))

	assert.Nil(t, c.Public().Integrations[0].AdminSettings)
	assert.NotNil(t, c.Integrations[0].AdminSettings)
}

func TestValidateConfigDocument(t *testing.T) {
	assert.NoError(t, ValidateConfigDocument([]byte(testConfigJSON)))
	assert.Error(t, ValidateConfigDocument([]byte(`{"integrations": []}`)))
	assert.Error(t, ValidateConfigDocument([]byte(`{"basePath": "x", "integrations": [{"id": "a"}]}`)))
	assert.Error(t, ValidateConfigDocument([]byte(`not json`)))
}
