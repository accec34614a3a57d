package tools

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Unknown is the default placeholder for absent or null record fields.
const Unknown = "Unknown"

// ExtractList extracts the uniform "list of records" shape from a decoded
// upstream response. SiteBay list endpoints answer either with a bare array
// or with an object wrapping the array under "results"; any other shape
// yields an empty list.
func ExtractList(v gjson.Result) []gjson.Result {
	if v.IsArray() {
		return v.Array()
	}
	if v.IsObject() {
		if results := v.Get("results"); results.IsArray() {
			return results.Array()
		}
	}
	return nil
}

// Field returns the string form of a record field, or [Unknown] when the
// field is absent or null.
func Field(rec gjson.Result, key string) string {
	return FieldOr(rec, key, Unknown)
}

// FieldOr is [Field] with an explicit fallback, used for optional display
// fields that render as a dash rather than "Unknown".
func FieldOr(rec gjson.Result, key, fallback string) string {
	v := rec.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return fallback
	}
	return v.String()
}

// prettyJSON renders a decoded response for display inside a code block.
// Non-JSON responses (kept as raw text by the client) pass through verbatim.
func prettyJSON(v gjson.Result) string {
	if v.Raw == "" {
		return v.Str
	}
	return strings.TrimSpace(string(pretty.Pretty([]byte(v.Raw))))
}
