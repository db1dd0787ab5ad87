package service

import (
	"testing"
)

func TestBuildFilmText(t *testing.T) {
	genres := []string{"Action", "Drama"}
	cast := []string{"A", "B"}

	t.Run("fixed order with all parts", func(t *testing.T) {
		got := BuildFilmText("Alpha", "syn1", genres, cast, DefaultTextOptions())
		want := "Alpha ; syn1 ; Genres: Action, Drama ; Cast: A, B"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := BuildFilmText("Alpha", "syn1", genres, cast, DefaultTextOptions())
		b := BuildFilmText("Alpha", "syn1", genres, cast, DefaultTextOptions())
		if a != b {
			t.Errorf("two runs differ: %q vs %q", a, b)
		}
	})

	t.Run("empty fields are omitted", func(t *testing.T) {
		got := BuildFilmText("Alpha", "", nil, nil, DefaultTextOptions())
		if got != "Alpha" {
			t.Errorf("got %q, want %q", got, "Alpha")
		}
	})

	t.Run("disabled fields are omitted", func(t *testing.T) {
		opts := TextOptions{Title: true, Genres: true}
		got := BuildFilmText("Alpha", "syn1", genres, cast, opts)
		want := "Alpha ; Genres: Action, Drama"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("all empty yields empty string", func(t *testing.T) {
		if got := BuildFilmText("", "", nil, nil, DefaultTextOptions()); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}
