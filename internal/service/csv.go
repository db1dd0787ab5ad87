package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses a bulk source file into raw rows. The first record is the
// header; columns are matched by name (title, year, genres, cast, synopsis,
// meta) and unknown columns are ignored. Only the title column is required
// to exist.
func ReadCSV(r io.Reader) ([]SourceRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["title"]; !ok {
		return nil, fmt.Errorf("csv is missing the required title column")
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []SourceRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		rows = append(rows, SourceRow{
			Title:    field(record, "title"),
			Year:     field(record, "year"),
			Genres:   field(record, "genres"),
			Cast:     field(record, "cast"),
			Synopsis: field(record, "synopsis"),
			Meta:     field(record, "meta"),
		})
	}
	return rows, nil
}
