// Package country expands EU member state codes into the textual variants
// that appear in free-text jurisdiction columns of older reports.
package country

import "strings"

// names maps the EU member states, plus EL for Greece, to display names.
var names = map[string]string{
	"AT": "Austria",
	"BE": "Belgium",
	"BG": "Bulgaria",
	"HR": "Croatia",
	"CY": "Cyprus",
	"CZ": "Czech Republic",
	"DK": "Denmark",
	"EE": "Estonia",
	"FI": "Finland",
	"FR": "France",
	"DE": "Germany",
	"GR": "Greece",
	"EL": "Greece",
	"HU": "Hungary",
	"IE": "Ireland",
	"IT": "Italy",
	"LV": "Latvia",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"MT": "Malta",
	"NL": "Netherlands",
	"PL": "Poland",
	"PT": "Portugal",
	"RO": "Romania",
	"SK": "Slovakia",
	"SI": "Slovenia",
	"ES": "Spain",
	"SE": "Sweden",
}

// Normalize trims and upper-cases a country code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsCode reports whether code is shaped like an ISO 3166 alpha-2 code.
func IsCode(code string) bool {
	c := Normalize(code)
	if len(c) != 2 {
		return false
	}
	for i := 0; i < len(c); i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}

// IsKnown reports whether code is an EU member state code.
func IsKnown(code string) bool {
	_, ok := names[Normalize(code)]
	return ok
}

// Name returns the display name for code, or the normalized code itself when
// it is not an EU member state.
func Name(code string) string {
	c := Normalize(code)
	if n, ok := names[c]; ok {
		return n
	}
	return c
}

// Variants returns the distinct strings that may denote code in stored rows:
// the code, its lower case, and for known codes the display name as written,
// upper-cased and lower-cased. The order is stable.
func Variants(code string) []string {
	c := Normalize(code)
	if c == "" {
		return nil
	}
	candidates := []string{c, strings.ToLower(c)}
	if n, ok := names[c]; ok {
		candidates = append(candidates, n, strings.ToUpper(n), strings.ToLower(n))
	}

	out := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, v := range candidates {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
