package thirdparty

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
)

// ScalarType is the closed set of value types shared by vendor fields and
// constant mappings.
type ScalarType int64

const (
	UnknownScalar ScalarType = iota
	String
	Number
	Boolean
)

var scalarTypeNames = map[ScalarType]string{
	String:  "string",
	Number:  "number",
	Boolean: "boolean",
}

func (t ScalarType) String() string {
	return scalarTypeNames[t]
}

// ParseScalarType matches "string", "number" or "boolean".
func ParseScalarType(s string) (ScalarType, bool) {
	for t, name := range scalarTypeNames {
		if name == s {
			return t, true
		}
	}
	return UnknownScalar, false
}

func (t ScalarType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ScalarType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = UnknownScalar
		return nil
	}
	parsed, ok := ParseScalarType(string(text))
	if !ok {
		return fmt.Errorf("unknown scalar type %q", text)
	}
	*t = parsed
	return nil
}

// UnmarshalYAML lets the vendor catalog declare field types by name.
func (t *ScalarType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

// PropertyType is the host graph's property type name. Besides the scalar
// types it knows "auto" (accepts any scalar on write) and date types.
type PropertyType string

const (
	PropertyAuto     PropertyType = "auto"
	PropertyString   PropertyType = "string"
	PropertyNumber   PropertyType = "number"
	PropertyBoolean  PropertyType = "boolean"
	PropertyDate     PropertyType = "date"
	PropertyDatetime PropertyType = "datetime"
)

// Value is a single scalar: a string, a number or a boolean.
// The zero Value holds nothing and reports UnknownScalar.
type Value struct {
	kind ScalarType
	s    string
	n    float64
	b    bool
}

func StringValue(s string) Value {
	return Value{kind: String, s: s}
}

func NumberValue(n float64) Value {
	return Value{kind: Number, n: n}
}

func BoolValue(b bool) Value {
	return Value{kind: Boolean, b: b}
}

// ValueOf converts a decoded JSON/YAML scalar into a Value.
func ValueOf(v interface{}) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case float64:
		return NumberValue(x), nil
	case float32:
		return NumberValue(float64(x)), nil
	case int:
		return NumberValue(float64(x)), nil
	case int64:
		return NumberValue(float64(x)), nil
	case uint64:
		return NumberValue(float64(x)), nil
	default:
		return Value{}, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

// valueFromResult returns the scalar held by a gjson result, if it is one.
func valueFromResult(r gjson.Result) (Value, bool) {
	switch r.Type {
	case gjson.String:
		return StringValue(r.Str), true
	case gjson.Number:
		return NumberValue(r.Num), true
	case gjson.True:
		return BoolValue(true), true
	case gjson.False:
		return BoolValue(false), true
	default:
		return Value{}, false
	}
}

func (v Value) Type() ScalarType {
	return v.kind
}

func (v Value) IsZero() bool {
	return v.kind == UnknownScalar
}

func (v Value) Str() (string, bool) {
	return v.s, v.kind == String
}

func (v Value) Num() (float64, bool) {
	return v.n, v.kind == Number
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == Boolean
}

// String renders the value the way it is written into a free-text field.
func (v Value) String() string {
	switch v.kind {
	case String:
		return v.s
	case Number:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case Boolean:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Interface returns the plain Go value (string, float64, bool or nil).
func (v Value) Interface() interface{} {
	switch v.kind {
	case String:
		return v.s
	case Number:
		return v.n
	case Boolean:
		return v.b
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case String:
		return json.Marshal(v.s)
	case Number, Boolean:
		return []byte(v.String()), nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	if r.Type == gjson.Null {
		*v = Value{}
		return nil
	}
	parsed, ok := valueFromResult(r)
	if !ok {
		return fmt.Errorf("expected a scalar value but have: %s", data)
	}
	*v = parsed
	return nil
}

// Record is a flat key -> scalar map. Search queries, vendor results and
// output node properties are all records.
type Record map[string]Value

func (r Record) GetFields() Record {
	return r
}

func (r Record) SetField(key string, value Value) {
	r[key] = value
}

func (r Record) DeleteField(key string) {
	delete(r, key)
}

// Keys returns the record keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
