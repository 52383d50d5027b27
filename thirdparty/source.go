package thirdparty

import (
	"errors"
	"fmt"
	"log"

	"github.com/tidwall/gjson"
)

// Source wraps raw JSON read from the host or a vendor API.
type Source struct {
	data gjson.Result
}

func NewSource(json string) Source {
	return Source{data: gjson.Parse(json)}
}

func (s Source) StringForPath(path string) (string, bool) {
	result := s.data.Get(path)
	return result.String(), result.Exists() && (result.Value() != nil)
}

func (s Source) IntForPath(path string) (int64, bool) {
	result := s.data.Get(path)
	return result.Int(), result.Exists() && (result.Value() != nil)
}

func (s Source) BoolForPath(path string) (bool, bool) {
	result := s.data.Get(path)
	return result.Bool(), result.Exists() && (result.Value() != nil)
}

// Lookup finds a top-level key without interpreting it as a gjson path, so
// keys holding path syntax ('.', '*', '$', ...) are matched literally.
func (s Source) Lookup(key string) (gjson.Result, bool) {
	var result gjson.Result
	found := false
	s.data.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			result = v
			found = true
			return false
		}
		return true
	})
	return result, found
}

func (s Source) Raw() string {
	return s.data.Raw
}

// Node is a graph node as returned by the host application.
type Node struct {
	ID         string
	Categories []string
	Properties Source
}

// ParseNode reads a host node. Both the flat shape
// {id, categories, properties} and the nested {id, data:{categories, properties}}
// shape are accepted.
func ParseNode(json []byte) (Node, error) {
	var result Node
	if !gjson.ValidBytes(json) {
		return result, errors.New("invalid node json")
	}
	root := gjson.ParseBytes(json)
	id := root.Get("id")
	if !id.Exists() {
		return result, errors.New("node is missing an id")
	}
	result.ID = id.String()
	data := root
	if root.Get("data").IsObject() {
		data = root.Get("data")
	}
	for _, c := range data.Get("categories").Array() {
		result.Categories = append(result.Categories, c.String())
	}
	properties := data.Get("properties")
	if properties.Exists() && !properties.IsObject() {
		return result, fmt.Errorf("node #%s properties must be an object", result.ID)
	}
	result.Properties = Source{data: properties}
	return result, nil
}

var degradedPropertyStatuses = map[string]bool{
	"missing":  true,
	"invalid":  true,
	"conflict": true,
}

// PropertyValue reads a node property as a scalar. Missing, null and empty
// values are absent. Values the host flags as missing, invalid or in conflict
// are absent too, and date/datetime wrappers yield their stored value.
func (n Node) PropertyValue(key string) (Value, bool) {
	raw, exists := n.Properties.Lookup(key)
	if !exists {
		return Value{}, false
	}
	switch raw.Type {
	case gjson.Null:
		return Value{}, false
	case gjson.String:
		if raw.Str == "" {
			return Value{}, false
		}
		return StringValue(raw.Str), true
	case gjson.Number, gjson.True, gjson.False:
		return valueFromResult(raw)
	case gjson.JSON:
		if !raw.IsObject() {
			return Value{}, false
		}
		if status := raw.Get("status").String(); degradedPropertyStatuses[status] {
			log.Printf("Warning: reading node property: skipping node #%s property %s (status: %s)", n.ID, key, status)
			return Value{}, false
		}
		switch raw.Get("type").String() {
		case string(PropertyDate), string(PropertyDatetime):
			return valueFromResult(raw.Get("value"))
		}
		return Value{}, false
	default:
		return Value{}, false
	}
}
