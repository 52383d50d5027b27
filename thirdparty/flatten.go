package thirdparty

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// blockOptions renders array entries the way a one-space indented
// JSON.stringify would, never collapsing arrays onto one line.
var blockOptions = &pretty.Options{Width: 0, Prefix: "", Indent: " ", SortKeys: false}

// Flatten turns a nested JSON object into a flat record: nested keys join
// with '_', nulls and empty arrays are dropped, scalar arrays join with ", "
// and arrays of objects become one readable block per entry.
func Flatten(json []byte) (Record, error) {
	if !gjson.ValidBytes(json) {
		return nil, errors.New("invalid json")
	}
	root := gjson.ParseBytes(json)
	if !root.IsObject() {
		return nil, errors.New("only json objects can be flattened")
	}
	return FlattenResult(root), nil
}

// FlattenResult flattens an already parsed object.
func FlattenResult(object gjson.Result) Record {
	result := make(Record)
	object.ForEach(func(key, value gjson.Result) bool {
		flattenValue(result, key.String(), value)
		return true
	})
	return result
}

func flattenValue(result Record, key string, value gjson.Result) {
	switch value.Type {
	case gjson.Null:
		return
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		result[key], _ = valueFromResult(value)
	case gjson.JSON:
		if value.IsArray() {
			flattenArray(result, key, value)
			return
		}
		prefix := key + "_"
		value.ForEach(func(subKey, subValue gjson.Result) bool {
			flattenValue(result, prefix+subKey.String(), subValue)
			return true
		})
	}
}

func flattenArray(result Record, key string, array gjson.Result) {
	entries := array.Array()
	if len(entries) == 0 {
		return
	}
	if entries[0].IsObject() {
		blocks := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsObject() {
				blocks = append(blocks, objectBlock(entry))
			}
		}
		result[key] = StringValue(strings.Join(blocks, "\n\n"))
		return
	}
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch entry.Type {
		case gjson.Null:
			parts = append(parts, "")
		case gjson.JSON:
			parts = append(parts, entry.Raw)
		default:
			v, _ := valueFromResult(entry)
			parts = append(parts, v.String())
		}
	}
	result[key] = StringValue(strings.Join(parts, ", "))
}

// objectBlock renders one object without its braces, top-level keys flush
// left and nested content keeping its indentation.
func objectBlock(entry gjson.Result) string {
	block := string(pretty.PrettyOptions([]byte(entry.Raw), blockOptions))
	block = strings.TrimSuffix(block, "\n")
	if len(block) < 4 {
		return ""
	}
	block = block[3 : len(block)-1]
	return strings.ReplaceAll(block, "\n \"", "\n\"")
}
