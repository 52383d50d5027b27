package thirdparty

import (
	"fmt"
	"net/url"
	"strings"
	gosync "sync"

	"github.com/biter777/countries"
	"github.com/tidwall/gjson"
)

var modifiersOnce gosync.Once

// registerModifiers adds the gjson modifiers used by vendor result transforms.
func registerModifiers() {
	modifiersOnce.Do(func() {

		// relativeURL joins site-relative links ("/company/1") onto arg and
		// leaves anything else untouched
		gjson.AddModifier("relativeURL", func(json, arg string) string {
			res := gjson.Parse(json)
			if !res.Exists() {
				return ""
			}
			s := res.String()
			if res.Type != gjson.String || !strings.HasPrefix(s, "/") {
				return json
			}
			joined, err := url.JoinPath(arg, s)
			if err != nil {
				return json
			}
			return fmt.Sprintf("%q", joined)
		})

		// prepend prefixes a non-empty string with arg
		gjson.AddModifier("prepend", func(json, arg string) string {
			res := gjson.Parse(json)
			if res.Type != gjson.String || res.String() == "" {
				return ""
			}
			return fmt.Sprintf("%q", arg+res.String())
		})

		gjson.AddModifier("countryCode", func(json, arg string) string {
			s := gjson.Parse(json).String()
			c := countries.ByName(s) // will match on Alpha-2 / Alpha-3 / Name
			if countries.Unknown == c {
				return ""
			}
			return fmt.Sprintf(`"%s"`, c.Alpha2())
		})

		gjson.AddModifier("countryName", func(json, arg string) string {
			s := gjson.Parse(json).String()
			c := countries.ByName(s)
			if countries.Unknown == c {
				return ""
			}
			return fmt.Sprintf(`"%s"`, c.String())
		})

	})
}
