package thirdparty

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	CompanyHouseUKVendorKey = "company-house-uk"
	CompanyHouseUKBaseURL   = "https://api.company-information.service.gov.uk"
)

// companyHouseSearchNoise are search item fields that only make sense in the
// Company House UI.
var companyHouseSearchNoise = []string{"kind", "snippet", "address_snippet", "matches"}

var errInvalidAPIKey = errors.New("invalid API key")

// CompanyHouseUKDriver searches the UK companies register and fetches company
// profiles. It authenticates with the "apiKey" admin setting.
type CompanyHouseUKDriver struct {
	*DriverContext
	Vendor Vendor
}

func (d *CompanyHouseUKDriver) VendorKey() string {
	return CompanyHouseUKVendorKey
}

// Search calls GET /search/companies, see
// https://developer-specs.company-information.service.gov.uk/companies-house-public-data-api/reference/search/search-companies
func (d *CompanyHouseUKDriver) Search(ctx context.Context, query Record, integration VendorIntegration, maxResults int) ([]VendorResult, error) {
	apiKey, err := integration.AdminSetting("apiKey")
	if err != nil {
		return nil, err
	}
	vendorError := VendorError{}
	var json string
	var status int
	builder := d.APIBuilder(CompanyHouseUKVendorKey, CompanyHouseUKBaseURL).
		Path("/search/companies")
	for _, key := range query.Keys() {
		builder = builder.Param(key, query[key].String())
	}
	err = builder.
		Param("start_index", "1").
		Param("items_per_page", strconv.Itoa(maxResults)).
		BasicAuth(apiKey, "").
		Accept("application/json").
		ToString(&json).
		AddValidator(recordStatus(&status)).
		ErrorJSON(&vendorError).
		Fetch(ctx)
	if err != nil {
		return nil, d.fetchError("search", status, err, vendorError)
	}
	if !gjson.Valid(json) {
		log.Printf("Invalid Company House Response:\n%s", json)
		return nil, errors.New("invalid json response")
	}

	// drop UI-only fields before flattening
	count := gjson.Get(json, "items.#").Int()
	for i := int64(0); i < count; i++ {
		for _, field := range companyHouseSearchNoise {
			json, err = sjson.Delete(json, fmt.Sprintf("items.%d.%s", i, field))
			if err != nil {
				return nil, fmt.Errorf("failed to prune search results %w", err)
			}
		}
	}

	items := NewSource(json)
	items.data = items.data.Get("items")
	return resultsFromArray(items, func(item Source) string {
		number, _ := item.StringForPath("company_number")
		return number
	}, d.Vendor.SearchTransforms)
}

// Details calls GET /company/{companyNumber}, see
// https://developer-specs.company-information.service.gov.uk/companies-house-public-data-api/reference/company-profile/company-profile
func (d *CompanyHouseUKDriver) Details(ctx context.Context, integration VendorIntegration, resultID string) (VendorResult, error) {
	var result VendorResult
	apiKey, err := integration.AdminSetting("apiKey")
	if err != nil {
		return result, err
	}
	vendorError := VendorError{}
	var json string
	var status int
	err = d.APIBuilder(CompanyHouseUKVendorKey, CompanyHouseUKBaseURL).
		Pathf("/company/%s", url.PathEscape(resultID)).
		BasicAuth(apiKey, "").
		Accept("application/json").
		ToString(&json).
		AddValidator(recordStatus(&status)).
		ErrorJSON(&vendorError).
		Fetch(ctx)
	if err != nil {
		return result, d.fetchError("details", status, err, vendorError)
	}
	if !gjson.Valid(json) || !gjson.Parse(json).IsObject() {
		log.Printf("Invalid Company House Response:\n%s", json)
		return result, errors.New("invalid json response")
	}
	source := NewSource(json)
	properties := FlattenResult(source.data)
	if err := ApplyResultTransforms(d.Vendor.DetailsTransforms, source, properties); err != nil {
		return result, err
	}
	result.ID = resultID
	result.Properties = properties
	return result, nil
}

func (d *CompanyHouseUKDriver) fetchError(operation string, status int, err error, vendorError VendorError) error {
	if status == http.StatusUnauthorized {
		return errInvalidAPIKey
	}
	log.Printf("Company House Error: %+v", vendorError)
	return fmt.Errorf("failed to get %s results %w", operation, err)
}
