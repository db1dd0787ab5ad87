package service

import (
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	t.Run("maps columns by header name", func(t *testing.T) {
		in := strings.Join([]string{
			"title,year,genres,cast,synopsis,meta",
			`Alpha,2000,"Action,Drama","A,B",syn1,`,
			`Beta,2009.0,Action|Sci-Fi,,syn2,"{""poster_url"":""x""}"`,
		}, "\n")

		rows, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		if rows[0].Title != "Alpha" || rows[0].Genres != "Action,Drama" {
			t.Errorf("row 0 = %#v", rows[0])
		}
		if rows[1].Year != "2009.0" || rows[1].Meta == "" {
			t.Errorf("row 1 = %#v", rows[1])
		}
	})

	t.Run("column order does not matter", func(t *testing.T) {
		in := "synopsis,title\nsyn1,Alpha\n"
		rows, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatal(err)
		}
		if rows[0].Title != "Alpha" || rows[0].Synopsis != "syn1" {
			t.Errorf("row = %#v", rows[0])
		}
	})

	t.Run("missing title column is rejected", func(t *testing.T) {
		in := "year,genres\n2000,Action\n"
		if _, err := ReadCSV(strings.NewReader(in)); err == nil {
			t.Error("expected an error for a missing title column")
		}
	})

	t.Run("short records leave missing fields empty", func(t *testing.T) {
		in := "title,year,genres\nAlpha\n"
		rows, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatal(err)
		}
		if rows[0].Title != "Alpha" || rows[0].Year != "" {
			t.Errorf("row = %#v", rows[0])
		}
	})
}
