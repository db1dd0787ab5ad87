package model

import (
	"testing"
)

func TestJSONMapScanValue(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := JSONMap{"poster_url": "http://example.com/p.jpg"}
		v, err := in.Value()
		if err != nil {
			t.Fatal(err)
		}

		var out JSONMap
		if err := out.Scan(v); err != nil {
			t.Fatal(err)
		}
		if out["poster_url"] != "http://example.com/p.jpg" {
			t.Errorf("got %#v", out)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		var m JSONMap
		v, err := m.Value()
		if err != nil || v != nil {
			t.Errorf("Value() = %v, %v", v, err)
		}

		var out JSONMap
		if err := out.Scan(nil); err != nil {
			t.Fatal(err)
		}
		if out != nil {
			t.Errorf("got %#v, want nil", out)
		}
	})

	t.Run("scan string source", func(t *testing.T) {
		var out JSONMap
		if err := out.Scan(`{"k":"v"}`); err != nil {
			t.Fatal(err)
		}
		if out["k"] != "v" {
			t.Errorf("got %#v", out)
		}
	})
}
