package thirdparty

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/tidwall/gjson"
)

const (
	DnbPeopleLookupVendorKey = "dnb-people-lookup"
	DnbDirectBaseURL         = "https://direct.dnb.com"
)

// DnbPeopleLookupDriver uses the D&B Direct "find contact" API. It
// authenticates with the "apiToken" admin setting.
type DnbPeopleLookupDriver struct {
	*DriverContext
	Vendor Vendor
}

func (d *DnbPeopleLookupDriver) VendorKey() string {
	return DnbPeopleLookupVendorKey
}

// Search calls GET /V6.4/organizations?findcontact=true, see
// https://docs.dnb.com/direct/2.0/en-US/entitylist/latest/findcontact/rest-API
func (d *DnbPeopleLookupDriver) Search(ctx context.Context, query Record, integration VendorIntegration, maxResults int) ([]VendorResult, error) {
	token, err := integration.AdminSetting("apiToken")
	if err != nil {
		return nil, err
	}
	vendorError := VendorError{}
	var json string
	builder := d.APIBuilder(DnbPeopleLookupVendorKey, DnbDirectBaseURL).
		Path("/V6.4/organizations").
		Param("CandidateMaximumQuantity", strconv.Itoa(maxResults)).
		Param("findcontact", "true").
		Param("InclusionDataDescription", "IncludeNonMarketable")
	for _, key := range query.Keys() {
		builder = builder.Param(key, query[key].String())
	}
	err = builder.
		Bearer(token).
		Accept("application/json").
		ToString(&json).
		ErrorJSON(&vendorError).
		Fetch(ctx)
	if err != nil {
		log.Printf("DnB Error: %+v", vendorError)
		return nil, fmt.Errorf("failed to get search results %w", err)
	}
	if !gjson.Valid(json) {
		log.Printf("Invalid DnB Response:\n%s", json)
		return nil, errors.New("invalid json response")
	}
	items := NewSource(json)
	items.data = items.data.Get("FindContactResponse.FindContactResponseDetail.FindCandidate")
	return resultsFromArray(items, func(item Source) string {
		duns, _ := item.StringForPath("DUNSNumber")
		return "duns:" + duns
	}, d.Vendor.SearchTransforms)
}
