package thirdparty

import (
	"fmt"
	"sort"
)

// Registry holds the vendor catalog and the driver for each vendor. It is
// built once at start-up and only read afterwards.
type Registry struct {
	vendors        map[string]Vendor
	searchDrivers  map[string]SearchDriver
	detailsDrivers map[string]DetailsDriver
}

// NewRegistry validates and indexes vendors.
func NewRegistry(vendors ...Vendor) (*Registry, error) {
	registerModifiers()
	r := &Registry{
		vendors:        make(map[string]Vendor, len(vendors)),
		searchDrivers:  make(map[string]SearchDriver),
		detailsDrivers: make(map[string]DetailsDriver),
	}
	for _, v := range vendors {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.vendors[v.Key]; exists {
			return nil, fmt.Errorf("duplicate vendor key %s", v.Key)
		}
		r.vendors[v.Key] = v
	}
	return r, nil
}

// WithDrivers registers drivers. A driver also implementing DetailsDriver is
// registered for details when its vendor uses the searchAndDetails strategy.
func (r *Registry) WithDrivers(drivers ...SearchDriver) (*Registry, error) {
	for _, d := range drivers {
		vendor, err := r.Vendor(d.VendorKey())
		if err != nil {
			return nil, err
		}
		if _, exists := r.searchDrivers[vendor.Key]; exists {
			return nil, fmt.Errorf("duplicate search driver for vendor %s", vendor.Key)
		}
		r.searchDrivers[vendor.Key] = d
		if details, ok := d.(DetailsDriver); ok && vendor.Strategy == SearchAndDetailsStrategy {
			r.detailsDrivers[vendor.Key] = details
		}
	}
	return r, nil
}

func (r *Registry) Vendor(key string) (Vendor, error) {
	v, exists := r.vendors[key]
	if !exists {
		return Vendor{}, fmt.Errorf("vendor with key %s not found", key)
	}
	return v, nil
}

// Vendors returns the catalog sorted by key.
func (r *Registry) Vendors() []Vendor {
	result := make([]Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

func (r *Registry) SearchDriver(vendorKey string) (SearchDriver, error) {
	d, exists := r.searchDrivers[vendorKey]
	if !exists {
		return nil, fmt.Errorf("no search driver for vendor %q", vendorKey)
	}
	return d, nil
}

func (r *Registry) DetailsDriver(vendorKey string) (DetailsDriver, error) {
	d, exists := r.detailsDrivers[vendorKey]
	if !exists {
		return nil, fmt.Errorf("no details driver for vendor %q", vendorKey)
	}
	return d, nil
}
