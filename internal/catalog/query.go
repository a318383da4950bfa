// Package catalog turns generic catalog products into flight, destination
// and airport records. Every function here is pure: no I/O, no shared state.
//
// Upstream data is never trusted to be well formed. Unparseable attributes
// fall back to documented defaults instead of failing the record.
package catalog

import (
	"regexp"
	"strings"
)

// bracketCode matches the airport code in "City Name (CODE)".
var bracketCode = regexp.MustCompile(`\(([^)]+)\)`)

// ExtractCode returns the bracketed code of an airport display string, or ""
// when the string has no brackets.
func ExtractCode(display string) string {
	m := bracketCode.FindStringSubmatch(display)
	if m == nil {
		return ""
	}
	return m[1]
}

// routeCode is ExtractCode with the search-form fallback: the first three
// characters, upper-cased.
func routeCode(display string) string {
	if code := ExtractCode(display); code != "" {
		return code
	}
	r := []rune(display)
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}

// BuildRouteQuery returns the catalog filter expression for flights tagged
// with the departure and arrival codes of from and to.
func BuildRouteQuery(from, to string) string {
	return "tag:from-" + routeCode(from) +
		" AND tag:to-" + routeCode(to) +
		" AND product_type:Flight"
}
