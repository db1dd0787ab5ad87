package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// listDelimiters in priority order: the first one present in the raw value
// wins. Pipe before comma matters for sources like "Action|Sci-Fi, Thriller".
var listDelimiters = []string{"|", ",", ";"}

// listDetector tries one encoding of a genre/cast list. ok is false when the
// value is not in this encoding, letting the next detector have a go.
type listDetector func(s string) (vals []string, ok bool)

// ParseList parses a genre or cast field from bulk source data. Supported
// encodings, tried in order: a bracketed literal list ("['A', 'B']"), then
// delimiter-separated text using | , or ;. A value matching neither encoding
// becomes a single-element list. Empty input yields nil.
func ParseList(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, detect := range []listDetector{detectBracketList, detectDelimited} {
		if vals, ok := detect(s); ok {
			return vals
		}
	}

	if v := StripQuotes(s); v != "" {
		return []string{v}
	}
	return nil
}

// detectBracketList parses "['Action', 'Adventure']" style values. Elements
// must be quoted strings or bare numbers; anything else rejects the value so
// the delimiter detector can try it instead.
func detectBracketList(s string) ([]string, bool) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, false
	}
	inner := s[1 : len(s)-1]

	var vals []string
	i := 0
	for i < len(inner) {
		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t') {
			i++
		}
		if i >= len(inner) {
			break
		}

		var elem string
		switch c := inner[i]; c {
		case '\'', '"':
			end := strings.IndexByte(inner[i+1:], c)
			if end < 0 {
				return nil, false
			}
			elem = inner[i+1 : i+1+end]
			i += end + 2
		default:
			// Bare element: only numeric literals are accepted.
			stop := strings.IndexByte(inner[i:], ',')
			if stop < 0 {
				stop = len(inner) - i
			}
			elem = strings.TrimSpace(inner[i : i+stop])
			if _, err := strconv.ParseFloat(elem, 64); err != nil {
				return nil, false
			}
			i += stop
		}

		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t') {
			i++
		}
		if i < len(inner) {
			if inner[i] != ',' {
				return nil, false
			}
			i++
		}

		if e := strings.TrimSpace(elem); e != "" {
			vals = append(vals, e)
		}
	}
	return vals, true
}

// detectDelimited splits on the first delimiter found, in priority order.
func detectDelimited(s string) ([]string, bool) {
	for _, sep := range listDelimiters {
		if !strings.Contains(s, sep) {
			continue
		}
		parts := strings.Split(s, sep)
		vals := make([]string, 0, len(parts))
		for _, p := range parts {
			if v := StripQuotes(p); v != "" {
				vals = append(vals, v)
			}
		}
		return vals, true
	}
	return nil, false
}

// StripQuotes trims whitespace and any surrounding single or double quotes.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "'\"")
	return strings.TrimSpace(s)
}

// ParseYear parses a release year tolerantly. Sources encode years as
// integers, floats ("2009.0") or junk; anything unparsable becomes nil
// rather than an error, a bad year must never sink a whole row.
func ParseYear(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if y, err := strconv.Atoi(s); err == nil {
		return &y
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		// ParseFloat accepts "NaN" and "Inf"; truncating those to int is
		// garbage, and no release year needs more than four digits anyway.
		if math.IsNaN(f) || math.IsInf(f, 0) || f < -10000 || f > 10000 {
			return nil
		}
		y := int(f)
		return &y
	}
	return nil
}

// ParseMeta parses an optional JSON metadata blob. Malformed JSON is
// discarded silently, the row is kept.
func ParseMeta(raw string) map[string]any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}
