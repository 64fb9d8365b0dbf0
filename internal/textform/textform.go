// Package textform parses the tiny text fragments that ride along with
// bridge commands: bracketed list literals and the T=/R=/S= transform
// markers. It knows nothing about scenes or hosts; it turns substrings into
// values and reports what it could not find.
package textform

import (
	"strconv"
	"strings"
)

// Triple is a parsed three-component marker payload.
type Triple [3]float64

// ParseList splits the bracketed list literal used for object-list
// arguments. Empty segments are kept, so "[a,b,,d]" yields four elements.
// Brackets are tolerated rather than required; an empty body yields nothing.
func ParseList(s string) []string {
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// FindMarker scans text for marker (e.g. "T=") immediately followed by a
// parenthesized, space-separated three-component payload, and returns the
// parsed values. Markers may sit anywhere in the text and in any order
// relative to each other; the first occurrence wins. A marker whose payload
// does not parse counts as absent.
func FindMarker(text, marker string) (Triple, bool) {
	var out Triple
	i := strings.Index(text, marker)
	if i < 0 {
		return out, false
	}
	rest := text[i+len(marker):]
	if !strings.HasPrefix(rest, "(") {
		return out, false
	}
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return out, false
	}
	fields := strings.Fields(rest[1:end])
	if len(fields) != len(out) {
		return out, false
	}
	for k, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Triple{}, false
		}
		out[k] = v
	}
	return out, true
}
