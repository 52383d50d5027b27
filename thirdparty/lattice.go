package thirdparty

import "slices"

// legalSourcePropertyTypes lists, per vendor field type, the graph property
// types that may populate it. A string slot is permissive, number and boolean
// slots only take their own type.
var legalSourcePropertyTypes = map[ScalarType][]PropertyType{
	String:  {PropertyString, PropertyNumber, PropertyBoolean, PropertyAuto},
	Number:  {PropertyNumber},
	Boolean: {PropertyBoolean},
}

// IsLegalPropertyToVendorField reports whether a graph property of sourceType
// may be copied into a vendor field of targetType.
func IsLegalPropertyToVendorField(sourceType PropertyType, targetType ScalarType) bool {
	return slices.Contains(legalSourcePropertyTypes[targetType], sourceType)
}

// LegalValueTypesForProperty returns the scalar types that can be written into
// a graph property of the given type. Unknown or non-scalar property types
// accept nothing.
func LegalValueTypesForProperty(propertyType PropertyType) []ScalarType {
	switch propertyType {
	case PropertyAuto, PropertyString:
		return []ScalarType{String, Number, Boolean}
	case PropertyNumber:
		return []ScalarType{Number}
	case PropertyBoolean:
		return []ScalarType{Boolean}
	default:
		return nil
	}
}

// IsLegalValueForProperty reports whether a value of valueType can be written
// into a graph property of propertyType.
func IsLegalValueForProperty(valueType ScalarType, propertyType PropertyType) bool {
	return slices.Contains(LegalValueTypesForProperty(propertyType), valueType)
}
