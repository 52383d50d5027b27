package thirdparty

import (
	"context"
	"testing"

	"github.com/carlmjohnson/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replayContext(response string) *DriverContext {
	return &DriverContext{Transport: requests.ReplayString(response)}
}

func catalogVendor(t *testing.T, key string) Vendor {
	t.Helper()
	registry, err := LoadRegistry(DefaultCatalog())
	require.NoError(t, err)
	v, err := registry.Vendor(key)
	require.NoError(t, err)
	return v
}

func TestAnnuaireEntreprisesDriver_Search(t *testing.T) {
	driver := &AnnuaireEntreprisesDriver{
		DriverContext: replayContext("HTTP/1.1 200 OK\nContent-Type: application/json\n\n" +
			`{"results":[{"siren":"552100554","nom_complet":"ACME","siege":{"code_postal":"69001"},"dirigeants":[],"est_ess":false}],"total_results":1}`),
		Vendor: catalogVendor(t, AnnuaireEntreprisesVendorKey),
	}
	results, err := driver.Search(context.Background(), Record{"q": StringValue("acme")}, VendorIntegration{}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "siren:552100554", results[0].ID)
	assert.Equal(t, Record{
		"siren":             StringValue("552100554"),
		"nom_complet":       StringValue("ACME"),
		"siege_code_postal": StringValue("69001"),
		"est_ess":           BoolValue(false),
		"url":               StringValue("https://annuaire-entreprises.data.gouv.fr/entreprise/552100554"),
	}, results[0].Properties)
}

func TestAnnuaireEntreprisesDriver_SearchError(t *testing.T) {
	driver := &AnnuaireEntreprisesDriver{
		DriverContext: replayContext("HTTP/1.1 400 Bad Request\nContent-Type: application/json\n\n" +
			`{"erreur":"Veuillez indiquer au moins un paramètre de recherche."}`),
		Vendor: catalogVendor(t, AnnuaireEntreprisesVendorKey),
	}
	_, err := driver.Search(context.Background(), Record{}, VendorIntegration{}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get search results: Veuillez indiquer au moins un paramètre de recherche.")
}

func companyHouseIntegration(t *testing.T) VendorIntegration {
	return VendorIntegration{
		Model:  IntegrationModel{ID: "ch", AdminSettings: map[string]string{"apiKey": "key"}},
		Vendor: catalogVendor(t, CompanyHouseUKVendorKey),
	}
}

func TestCompanyHouseUKDriver_Search(t *testing.T) {
	integration := companyHouseIntegration(t)
	driver := &CompanyHouseUKDriver{
		DriverContext: replayContext("HTTP/1.1 200 OK\nContent-Type: application/json\n\n" +
			`{"items":[{"title":"ACME LIMITED","company_number":"00000006","kind":"searchresults#company","snippet":"ACME","address_snippet":"1 Road","matches":{"title":[1,4]},"links":{"self":"/company/00000006"}}]}`),
		Vendor: integration.Vendor,
	}
	results, err := driver.Search(context.Background(), Record{"q": StringValue("acme")}, integration, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "00000006", results[0].ID)
	assert.Equal(t, Record{
		"title":          StringValue("ACME LIMITED"),
		"company_number": StringValue("00000006"),
		"links_self":     StringValue("https://find-and-update.company-information.service.gov.uk/company/00000006"),
	}, results[0].Properties)
}

func TestCompanyHouseUKDriver_InvalidAPIKey(t *testing.T) {
	integration := companyHouseIntegration(t)
	driver := &CompanyHouseUKDriver{
		DriverContext: replayContext("HTTP/1.1 401 Unauthorized\nContent-Type: application/json\n\n" + `{"error":"Invalid Authorization"}`),
		Vendor:        integration.Vendor,
	}
	_, err := driver.Search(context.Background(), Record{"q": StringValue("acme")}, integration, 10)
	assert.ErrorIs(t, err, errInvalidAPIKey)

	_, err = driver.Details(context.Background(), integration, "00000006")
	assert.ErrorIs(t, err, errInvalidAPIKey)
}

func TestCompanyHouseUKDriver_MissingAPIKey(t *testing.T) {
	integration := companyHouseIntegration(t)
	integration.Model.AdminSettings = nil
	driver := &CompanyHouseUKDriver{DriverContext: replayContext("HTTP/1.1 500 Internal Server Error\n\n"), Vendor: integration.Vendor}
	_, err := driver.Search(context.Background(), Record{}, integration, 10)
	assert.EqualError(t, err, `missing admin setting "apiKey" for integration ch`)
}

func TestCompanyHouseUKDriver_Details(t *testing.T) {
	integration := companyHouseIntegration(t)
	driver := &CompanyHouseUKDriver{
		DriverContext: replayContext("HTTP/1.1 200 OK\nContent-Type: application/json\n\n" +
			`{"company_name":"ACME LIMITED","company_number":"00000006","registered_office_address":{"country":"United Kingdom","locality":"Cardiff"},"sic_codes":["62020","62090"],"links":{"self":"/company/00000006","filing_history":"/company/00000006/filing-history"}}`),
		Vendor: integration.Vendor,
	}
	result, err := driver.Details(context.Background(), integration, "00000006")
	require.NoError(t, err)
	assert.Equal(t, "00000006", result.ID)
	assert.Equal(t, Record{
		"company_name":                           StringValue("ACME LIMITED"),
		"company_number":                         StringValue("00000006"),
		"registered_office_address_country":      StringValue("United Kingdom"),
		"registered_office_address_locality":     StringValue("Cardiff"),
		"registered_office_address_country_code": StringValue("GB"),
		"sic_codes":                              StringValue("62020, 62090"),
		"links_self":                             StringValue("https://find-and-update.company-information.service.gov.uk/company/00000006"),
		"links_filing_history":                   StringValue("https://find-and-update.company-information.service.gov.uk/company/00000006/filing-history"),
	}, result.Properties)
}

func TestDnbPeopleLookupDriver_Search(t *testing.T) {
	integration := VendorIntegration{
		Model:  IntegrationModel{ID: "dnb", AdminSettings: map[string]string{"apiToken": "token"}},
		Vendor: catalogVendor(t, DnbPeopleLookupVendorKey),
	}
	driver := &DnbPeopleLookupDriver{
		DriverContext: replayContext("HTTP/1.1 200 OK\nContent-Type: application/json\n\n" + `{
			"FindContactResponse": {"FindContactResponseDetail": {"FindCandidate": [{
				"DUNSNumber": "804735132",
				"ContactID": {"$": "c-1"},
				"ContactName": {"FirstName": "Ada", "LastName": "Lovelace"},
				"JobTitle": [{"JobTitleText": {"$": "Chief Analyst"}}],
				"ManagementResponsibilityCodeText": [{"$": "Finance"}, {"$": "Research"}]
			}]}}
		}`),
		Vendor: integration.Vendor,
	}
	results, err := driver.Search(context.Background(), Record{"KeywordText": StringValue("Lovelace")}, integration, 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "duns:804735132", results[0].ID)
	properties := results[0].Properties
	assert.Equal(t, StringValue("c-1"), properties["ContactID_$"])
	assert.Equal(t, StringValue("Ada"), properties["ContactName_FirstName"])
	assert.Equal(t, StringValue("Chief Analyst"), properties["JobTitle_JobTitleText_$"])
	assert.Equal(t, StringValue("Finance"), properties["ManagementResponsibilityCodeText_$"])
}

func TestNewDefaultRegistry(t *testing.T) {
	registry, err := NewDefaultRegistry(&DriverContext{})
	require.NoError(t, err)
	for _, key := range []string{AnnuaireEntreprisesVendorKey, CompanyHouseUKVendorKey, DnbPeopleLookupVendorKey} {
		_, err := registry.SearchDriver(key)
		assert.NoError(t, err, key)
	}
	_, err = registry.DetailsDriver(CompanyHouseUKVendorKey)
	assert.NoError(t, err)
	_, err = registry.DetailsDriver(AnnuaireEntreprisesVendorKey)
	assert.Error(t, err)
}
