// go test github.com/homemade/lkdata/thirdparty -v
package thirdparty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLegalPropertyToVendorField(t *testing.T) {
	tests := []struct {
		source PropertyType
		target ScalarType
		legal  bool
	}{
		{PropertyNumber, String, true},
		{PropertyString, Number, false},
		{PropertyBoolean, Boolean, true},
		{PropertyNumber, Boolean, false},
		{PropertyString, String, true},
		{PropertyBoolean, String, true},
		{PropertyAuto, String, true},
		{PropertyAuto, Number, false},
		{PropertyNumber, Number, true},
		{PropertyBoolean, Number, false},
		{PropertyString, Boolean, false},
		{PropertyDate, String, false},
		{PropertyString, UnknownScalar, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.legal, IsLegalPropertyToVendorField(tt.source, tt.target), "%s -> %s", tt.source, tt.target)
	}
}

func TestLegalValueTypesForProperty(t *testing.T) {
	assert.Equal(t, []ScalarType{String, Number, Boolean}, LegalValueTypesForProperty(PropertyString))
	assert.Equal(t, []ScalarType{String, Number, Boolean}, LegalValueTypesForProperty(PropertyAuto))
	assert.Equal(t, []ScalarType{Number}, LegalValueTypesForProperty(PropertyNumber))
	assert.Equal(t, []ScalarType{Boolean}, LegalValueTypesForProperty(PropertyBoolean))
	assert.Empty(t, LegalValueTypesForProperty(PropertyDatetime))
	assert.Empty(t, LegalValueTypesForProperty("geo"))

	assert.True(t, IsLegalValueForProperty(Number, PropertyString))
	assert.False(t, IsLegalValueForProperty(String, PropertyNumber))
}
