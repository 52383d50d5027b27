package thirdparty

import (
	"strings"
	"time"
)

// DateToken in a constant string is replaced with the import time.
const DateToken = "$date"

// ISOTimestampFormat is the UTC millisecond timestamp written for DateToken.
const ISOTimestampFormat = "2006-01-02T15:04:05.000Z"

// VendorResult is one flattened record returned by a vendor driver.
type VendorResult struct {
	ID         string `json:"id"`
	Properties Record `json:"properties"`
}

// OutputNode is the node created in the graph when a result is imported.
type OutputNode struct {
	SourceKey  string   `json:"sourceKey"`
	Categories []string `json:"categories"`
	Properties Record   `json:"properties"`
}

// OutputEdge links the created node back to the input node.
type OutputEdge struct {
	SourceKey  string `json:"sourceKey"`
	Type       string `json:"type"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	Properties Record `json:"properties"`
}

// SubstituteTokens replaces every DateToken in s.
func SubstituteTokens(s string, now time.Time) string {
	if !strings.Contains(s, DateToken) {
		return s
	}
	return strings.ReplaceAll(s, DateToken, now.UTC().Format(ISOTimestampFormat))
}

// EvaluateInboundProperties builds output node properties from a vendor
// result. There is no required field check on this side.
func EvaluateInboundProperties(mappings FieldMappings, result VendorResult, now time.Time) Record {
	properties := make(Record)
	for _, mapping := range mappings {
		value, ok := vendorInputValue(mapping, result, now)
		if !ok {
			continue
		}
		mergeField(properties, mapping.OutputKey(), value)
	}
	return properties
}

func vendorInputValue(mapping FieldMapping, result VendorResult, now time.Time) (Value, bool) {
	switch mapping := mapping.(type) {
	case ConstantMapping:
		if s, isString := mapping.Value.Str(); isString {
			return StringValue(SubstituteTokens(s, now)), true
		}
		return mapping.Value, !mapping.Value.IsZero()
	case PropertyMapping:
		value, exists := result.Properties[mapping.InputPropertyKey]
		return value, exists && !value.IsZero()
	default:
		return Value{}, false
	}
}
