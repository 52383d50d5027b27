package thirdparty

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// ApplyResultTransforms rewrites fields of a flattened vendor result.
//
// A plain key takes the value of a gjson path evaluated against the raw vendor
// payload, e.g. "registered_office_address.country|@countryCode". A key ending
// in '*' applies a modifier-only path (starting with '@') to the value of every
// flattened field with that prefix. Paths that resolve to nothing leave the
// field as is.
func ApplyResultTransforms(transforms map[string]string, source Source, destination Mappable) error {
	if len(transforms) == 0 {
		return nil
	}
	registerModifiers()

	keys := make([]string, 0, len(transforms))
	for k := range transforms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := transforms[key]
		if prefix, isPattern := strings.CutSuffix(key, "*"); isPattern {
			if !strings.HasPrefix(path, "@") {
				return fmt.Errorf("invalid transform %s for %s, pattern transforms must be modifiers", path, key)
			}
			for _, field := range destination.GetFields().Keys() {
				if strings.HasPrefix(field, prefix) {
					applyModifier(destination, field, path)
				}
			}
			continue
		}
		if v, ok := valueFromResult(source.data.Get(path)); ok {
			destination.SetField(key, v)
		}
	}
	return nil
}

func applyModifier(destination Mappable, field string, path string) {
	raw, err := json.Marshal(destination.GetFields()[field])
	if err != nil {
		log.Printf("Warning: failed to encode %s for transform %s: %v", field, path, err)
		return
	}
	if v, ok := valueFromResult(gjson.GetBytes(raw, path)); ok {
		destination.SetField(field, v)
	}
}
