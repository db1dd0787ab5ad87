package utils

import (
	"reflect"
	"testing"
)

func TestParseList(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"bracketed single quotes", "['Action', 'Adventure']", []string{"Action", "Adventure"}},
		{"bracketed double quotes", `["Action","Sci-Fi"]`, []string{"Action", "Sci-Fi"}},
		{"pipe separated", "Action|Adventure|Sci-Fi", []string{"Action", "Adventure", "Sci-Fi"}},
		{"comma separated", "Action, Drama", []string{"Action", "Drama"}},
		{"semicolon separated", "Action; Drama", []string{"Action", "Drama"}},
		{"pipe wins over comma", "Action|Sci-Fi, Thriller", []string{"Action", "Sci-Fi, Thriller"}},
		{"comma wins over semicolon", "Action, Drama; Thriller", []string{"Action", "Drama; Thriller"}},
		{"single value", "Action", []string{"Action"}},
		{"quoted values get stripped", "'Action', 'Drama'", []string{"Action", "Drama"}},
		{"blank elements dropped", "Action,,Drama,", []string{"Action", "Drama"}},
		{"malformed bracket falls through to delimiters", "[Action, Drama]", []string{"[Action", "Drama]"}},
		{"empty bracket list", "[]", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseList(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseList(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *int
	}{
		{"integer", "2009", intPtr(2009)},
		{"float string", "2009.0", intPtr(2009)},
		{"spaces", "  1999 ", intPtr(1999)},
		{"empty", "", nil},
		{"junk", "unknown", nil},
		{"nan", "NaN", nil},
		{"positive infinity", "Inf", nil},
		{"negative infinity", "-Inf", nil},
		{"absurd magnitude", "1e300", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseYear(tc.in)
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("ParseYear(%q) = %v, want %v", tc.in, got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Errorf("ParseYear(%q) = %d, want %d", tc.in, *got, *tc.want)
			}
		})
	}
}

func TestParseMeta(t *testing.T) {
	t.Run("valid json", func(t *testing.T) {
		m := ParseMeta(`{"poster_url": "http://example.com/p.jpg"}`)
		if m == nil || m["poster_url"] != "http://example.com/p.jpg" {
			t.Errorf("unexpected meta: %#v", m)
		}
	})

	t.Run("malformed json is discarded", func(t *testing.T) {
		if m := ParseMeta(`{"poster_url": broken`); m != nil {
			t.Errorf("expected nil, got %#v", m)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if m := ParseMeta(""); m != nil {
			t.Errorf("expected nil, got %#v", m)
		}
	})

	t.Run("non-object json is discarded", func(t *testing.T) {
		if m := ParseMeta(`[1,2,3]`); m != nil {
			t.Errorf("expected nil, got %#v", m)
		}
	})
}

func intPtr(v int) *int { return &v }
