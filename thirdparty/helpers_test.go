package thirdparty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 9, 14, 30, 5, 123000000, time.UTC)

func testVendor() Vendor {
	return Vendor{
		Key:      "test-vendor",
		Name:     "Test Vendor",
		Strategy: SearchAndDetailsStrategy,
		SearchQueryFields: []VendorField{
			{Key: "q", Type: String, Required: true},
			{Key: "city", Type: String},
			{Key: "minEmployees", Type: Number},
			{Key: "active", Type: Boolean},
		},
		SearchResponseFields: []VendorField{
			{Key: "name", Type: String, Required: true},
			{Key: "employees", Type: Number},
		},
		DetailsResponseFields: []VendorField{
			{Key: "name", Type: String, Required: true},
			{Key: "legalName", Type: String},
			{Key: "employees", Type: Number},
			{Key: "listed", Type: Boolean},
		},
		AdminFields: []VendorAdminField{
			{Key: "apiKey", Name: "API Key", Required: true},
			{Key: "region", Name: "Region", Enum: []string{"eu", "us"}},
		},
	}
}

func testInputSchema() GraphItemSchema {
	return GraphItemSchema{
		ItemType: "Company",
		Access:   AccessRead,
		Properties: []GraphPropertySchema{
			{PropertyKey: "name", Type: PropertyString},
			{PropertyKey: "first", Type: PropertyString},
			{PropertyKey: "last", Type: PropertyString},
			{PropertyKey: "size", Type: PropertyNumber},
			{PropertyKey: "public", Type: PropertyBoolean},
			{PropertyKey: "notes", Type: PropertyAuto},
			{PropertyKey: "founded", Type: PropertyDate},
		},
	}
}

func testOutputSchema() GraphItemSchema {
	return GraphItemSchema{
		ItemType: "CompanyRecord",
		Access:   AccessWrite,
		Properties: []GraphPropertySchema{
			{PropertyKey: "title", Type: PropertyString},
			{PropertyKey: "headcount", Type: PropertyNumber},
			{PropertyKey: "isListed", Type: PropertyBoolean},
			{PropertyKey: "anything", Type: PropertyAuto},
		},
	}
}

func testRegistry(t *testing.T, drivers ...SearchDriver) *Registry {
	t.Helper()
	registry, err := NewRegistry(testVendor())
	require.NoError(t, err)
	registry, err = registry.WithDrivers(drivers...)
	require.NoError(t, err)
	return registry
}

func testNode(t *testing.T, json string) Node {
	t.Helper()
	node, err := ParseNode([]byte(json))
	require.NoError(t, err)
	return node
}

func property(output, input string) PropertyMapping {
	return PropertyMapping{OutputPropertyKey: output, InputPropertyKey: input}
}

func constant(output string, valueType ScalarType, value Value) ConstantMapping {
	return ConstantMapping{OutputPropertyKey: output, ValueType: valueType, Value: value}
}
