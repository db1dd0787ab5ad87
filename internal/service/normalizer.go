package service

import (
	"strings"
)

// TextOptions selects which film attributes go into the embedding text.
// The zero value includes nothing; DefaultTextOptions includes everything.
type TextOptions struct {
	Title    bool
	Synopsis bool
	Genres   bool
	Cast     bool
}

// DefaultTextOptions includes every attribute.
func DefaultTextOptions() TextOptions {
	return TextOptions{Title: true, Synopsis: true, Genres: true, Cast: true}
}

const textDelimiter = " ; "

// BuildFilmText assembles the canonical text blob a film is embedded from.
// Parts appear in a fixed order (title, synopsis, genres, cast); empty or
// disabled parts are omitted. The same input always yields the same string,
// which is what makes re-embedding reproducible.
func BuildFilmText(title, synopsis string, genres, cast []string, opts TextOptions) string {
	var parts []string

	if opts.Title && title != "" {
		parts = append(parts, title)
	}
	if opts.Synopsis && synopsis != "" {
		parts = append(parts, synopsis)
	}
	if opts.Genres && len(genres) > 0 {
		parts = append(parts, "Genres: "+strings.Join(genres, ", "))
	}
	if opts.Cast && len(cast) > 0 {
		parts = append(parts, "Cast: "+strings.Join(cast, ", "))
	}

	return strings.Join(parts, textDelimiter)
}
