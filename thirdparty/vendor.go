package thirdparty

import (
	"errors"
	"fmt"
	"slices"

	"github.com/biter777/countries"
)

type VendorStrategy string

const (
	SearchStrategy           VendorStrategy = "search"
	SearchAndDetailsStrategy VendorStrategy = "searchAndDetails"
)

// VendorField is one named slot of a vendor query or response.
type VendorField struct {
	Key      string     `yaml:"key" json:"key"`
	Type     ScalarType `yaml:"type" json:"type"`
	Required bool       `yaml:"required" json:"required"`
}

// VendorAdminField is a per-integration setting entered by an administrator
// (API keys and the like).
type VendorAdminField struct {
	Key      string   `yaml:"key" json:"key"`
	Name     string   `yaml:"name" json:"name"`
	Required bool     `yaml:"required" json:"required"`
	Enum     []string `yaml:"enum" json:"enum,omitempty"`
}

// Vendor is a third-party data provider and its declared field catalog.
// Vendors are loaded once into a Registry and never modified.
type Vendor struct {
	Key                   string             `yaml:"key" json:"key"`
	Name                  string             `yaml:"name" json:"name"`
	Description           string             `yaml:"description" json:"description"`
	Country               string             `yaml:"country" json:"country"`
	Strategy              VendorStrategy     `yaml:"strategy" json:"strategy"`
	SearchQueryFields     []VendorField      `yaml:"searchQueryFields" json:"searchQueryFields"`
	SearchResponseFields  []VendorField      `yaml:"searchResponseFields" json:"searchResponseFields"`
	DetailsResponseFields []VendorField      `yaml:"detailsResponseFields" json:"detailsResponseFields,omitempty"`
	AdminFields           []VendorAdminField `yaml:"adminFields" json:"adminFields"`
	// Transforms are gjson expressions applied to flattened results, keyed by
	// result field. A key ending in '*' applies a modifier to every matching field.
	SearchTransforms  map[string]string `yaml:"searchTransforms" json:"-"`
	DetailsTransforms map[string]string `yaml:"detailsTransforms" json:"-"`
}

// OutputFields are the fields available to the inbound mapping: the search
// response for "search" vendors, the details response otherwise.
func (v Vendor) OutputFields() []VendorField {
	if v.Strategy == SearchStrategy {
		return v.SearchResponseFields
	}
	return v.DetailsResponseFields
}

func (v Vendor) SearchQueryField(key string) (VendorField, bool) {
	return findVendorField(v.SearchQueryFields, key)
}

func (v Vendor) SearchResponseField(key string) (VendorField, bool) {
	return findVendorField(v.SearchResponseFields, key)
}

func (v Vendor) OutputField(key string) (VendorField, bool) {
	return findVendorField(v.OutputFields(), key)
}

func findVendorField(fields []VendorField, key string) (VendorField, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return VendorField{}, false
}

// CountryCode resolves the vendor's country (alpha-2, alpha-3 or name).
func (v Vendor) CountryCode() countries.CountryCode {
	return countries.ByName(v.Country)
}

// Validate checks a catalog entry once, at load time.
func (v Vendor) Validate() error {
	if v.Key == "" {
		return errors.New("vendor key must be defined")
	}
	switch v.Strategy {
	case SearchStrategy:
		if len(v.DetailsResponseFields) > 0 {
			return fmt.Errorf("vendor %s: details response fields require the %q strategy", v.Key, SearchAndDetailsStrategy)
		}
	case SearchAndDetailsStrategy:
		if len(v.DetailsResponseFields) == 0 {
			return fmt.Errorf("vendor %s: details response fields must be defined", v.Key)
		}
	default:
		return fmt.Errorf("vendor %s: unknown strategy %q", v.Key, v.Strategy)
	}
	if v.Country != "" && v.CountryCode() == countries.Unknown {
		return fmt.Errorf("vendor %s: unknown country %q", v.Key, v.Country)
	}
	for _, group := range [][]VendorField{v.SearchQueryFields, v.SearchResponseFields, v.DetailsResponseFields} {
		seen := make(map[string]bool)
		for _, f := range group {
			if f.Type == UnknownScalar {
				return fmt.Errorf("vendor %s: field %q has no type", v.Key, f.Key)
			}
			if seen[f.Key] {
				return fmt.Errorf("vendor %s: duplicate field %q", v.Key, f.Key)
			}
			seen[f.Key] = true
		}
	}
	return nil
}

// CheckAdminSettings verifies required admin fields are set and enum fields
// hold one of their allowed values.
func (v Vendor) CheckAdminSettings(settings map[string]string) error {
	var errs []error
	for _, field := range v.AdminFields {
		value, exists := settings[field.Key]
		if !exists || value == "" {
			if field.Required {
				errs = append(errs, fmt.Errorf("admin setting %q (%s) is required", field.Key, field.Name))
			}
			continue
		}
		if len(field.Enum) > 0 && !slices.Contains(field.Enum, value) {
			errs = append(errs, fmt.Errorf("admin setting %q must be one of %v but have: %s", field.Key, field.Enum, value))
		}
	}
	return errors.Join(errs...)
}
