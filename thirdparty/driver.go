package thirdparty

import (
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/carlmjohnson/requests"
	"github.com/tidwall/gjson"
)

// SearchDriver runs a vendor search.
type SearchDriver interface {
	VendorKey() string
	Search(ctx context.Context, query Record, integration VendorIntegration, maxResults int) ([]VendorResult, error)
}

// DetailsDriver also fetches the details of one search result.
type DetailsDriver interface {
	SearchDriver
	Details(ctx context.Context, integration VendorIntegration, resultID string) (VendorResult, error)
}

// VendorError is the error body returned by a vendor API.
type VendorError map[string]interface{}

func (e VendorError) message(key string) string {
	if s, ok := e[key].(string); ok {
		return s
	}
	return ""
}

// DriverContext holds settings shared by every vendor driver.
type DriverContext struct {
	// RecordRequests stores request/response fixtures under RecordDir.
	RecordRequests bool
	RecordDir      string
	// Transport replaces the HTTP transport, e.g. requests.ReplayString in tests.
	Transport http.RoundTripper
	// BaseURLs overrides the API base URL per vendor key.
	BaseURLs map[string]string
}

// APIBuilder returns a new requests.Builder configured for a vendor API.
func (c *DriverContext) APIBuilder(vendorKey string, defaultBaseURL string) *requests.Builder {
	baseURL := defaultBaseURL
	if c != nil && c.BaseURLs[vendorKey] != "" {
		baseURL = c.BaseURLs[vendorKey]
	}
	result := requests.
		URL(baseURL).
		Client(&http.Client{Timeout: HTTPRequestTimeout})
	if c == nil {
		return result
	}
	if c.Transport != nil {
		result = result.Transport(c.Transport)
	} else if c.RecordRequests {
		dir := c.RecordDir
		if dir == "" {
			dir = "testdata/.requests"
		}
		result = result.Transport(requests.Record(nil, path.Join(dir, vendorKey)))
	}
	return result
}

// NewSearchDriver creates the driver for a catalog vendor.
func NewSearchDriver(vendor Vendor, dctx *DriverContext) (SearchDriver, error) {
	switch vendor.Key {
	case AnnuaireEntreprisesVendorKey:
		return &AnnuaireEntreprisesDriver{DriverContext: dctx, Vendor: vendor}, nil
	case CompanyHouseUKVendorKey:
		return &CompanyHouseUKDriver{DriverContext: dctx, Vendor: vendor}, nil
	case DnbPeopleLookupVendorKey:
		return &DnbPeopleLookupDriver{DriverContext: dctx, Vendor: vendor}, nil
	default:
		return nil, fmt.Errorf("no driver implementation for vendor %q", vendor.Key)
	}
}

// NewDefaultRegistry loads the embedded catalog and registers a driver for
// every vendor.
func NewDefaultRegistry(dctx *DriverContext) (*Registry, error) {
	registry, err := LoadRegistry(DefaultCatalog())
	if err != nil {
		return nil, err
	}
	var drivers []SearchDriver
	for _, v := range registry.Vendors() {
		d, err := NewSearchDriver(v, dctx)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return registry.WithDrivers(drivers...)
}

// resultsFromArray flattens every object of a vendor result list.
func resultsFromArray(items Source, idFn func(item Source) string, transforms map[string]string) ([]VendorResult, error) {
	results := []VendorResult{}
	var err error
	items.data.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		source := Source{data: item}
		properties := FlattenResult(item)
		if err = ApplyResultTransforms(transforms, source, properties); err != nil {
			return false
		}
		results = append(results, VendorResult{ID: idFn(source), Properties: properties})
		return true
	})
	return results, err
}
