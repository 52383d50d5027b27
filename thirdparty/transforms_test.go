package thirdparty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyResultTransforms(t *testing.T) {
	raw := `{
		"siren": "552100554",
		"country": "France",
		"links": {"self": "/company/00000006", "officers": "https://example.com/officers"},
		"contacts": [{"title": "CEO"}]
	}`
	source := NewSource(raw)
	destination := FlattenResult(source.data)

	err := ApplyResultTransforms(map[string]string{
		"links_*":      "@relativeURL:https://find-and-update.company-information.service.gov.uk",
		"url":          "siren|@prepend:https://annuaire-entreprises.data.gouv.fr/entreprise/",
		"country_code": "country|@countryCode",
		"country_name": "country|@countryName",
		"job_title":    "contacts.0.title",
		"nothing":      "missing|@countryCode",
	}, source, destination)
	require.NoError(t, err)

	assert.Equal(t, StringValue("https://find-and-update.company-information.service.gov.uk/company/00000006"), destination["links_self"])
	assert.Equal(t, StringValue("https://example.com/officers"), destination["links_officers"])
	assert.Equal(t, StringValue("https://annuaire-entreprises.data.gouv.fr/entreprise/552100554"), destination["url"])
	assert.Equal(t, StringValue("FR"), destination["country_code"])
	assert.Equal(t, StringValue("France"), destination["country_name"])
	assert.Equal(t, StringValue("CEO"), destination["job_title"])
	assert.NotContains(t, destination, "nothing")
}

func TestApplyResultTransforms_InvalidPattern(t *testing.T) {
	destination := Record{"links_self": StringValue("/x")}
	err := ApplyResultTransforms(map[string]string{"links_*": "links.self"}, NewSource(`{}`), destination)
	assert.EqualError(t, err, "invalid transform links.self for links_*, pattern transforms must be modifiers")
}

func TestApplyResultTransforms_None(t *testing.T) {
	destination := Record{"a": StringValue("b")}
	assert.NoError(t, ApplyResultTransforms(nil, NewSource(`{}`), destination))
	assert.Equal(t, Record{"a": StringValue("b")}, destination)
}
