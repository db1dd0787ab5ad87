package service

import (
	"context"
	"log"
	"strings"

	"github.com/user/filmrec/internal/model"
	"github.com/user/filmrec/internal/utils"
)

// SourceRow is one raw bulk-source record, all fields still in their source
// encoding. Everything except the title is optional and parsed tolerantly.
type SourceRow struct {
	Title    string
	Year     string
	Genres   string
	Cast     string
	Synopsis string
	Meta     string
}

// IngestResult reports what one ingestion run did.
type IngestResult struct {
	Inserted int64 `json:"inserted"`
	Total    int64 `json:"total"`
}

// filmInserter is the slice of the film repository ingestion needs.
type filmInserter interface {
	InsertIgnore(films []model.Film) (int64, error)
	Count() (int64, error)
}

// IngestService turns messy bulk records into catalog rows. Rows without a
// title are skipped; every other malformed field degrades to null/empty.
// Duplicate rows by natural key are dropped, never merged.
type IngestService struct {
	films     filmInserter
	batchSize int
}

// NewIngestService creates the pipeline with the given insert batch size.
func NewIngestService(films filmInserter, batchSize int) *IngestService {
	if batchSize < 1 {
		batchSize = 1000
	}
	return &IngestService{films: films, batchSize: batchSize}
}

// Ingest parses and batch-inserts the given rows. A failing batch is rolled
// back (one INSERT per batch, so the storage engine does this for us), logged
// and skipped; later batches still run. Returns the inserted count and the
// catalog total after the run.
func (s *IngestService) Ingest(ctx context.Context, rows []SourceRow) (*IngestResult, error) {
	films := s.prepare(rows)
	log.Printf("[Ingest] %d of %d rows usable", len(films), len(rows))

	var inserted int64
	for i := 0; i < len(films); i += s.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := i + s.batchSize
		if end > len(films) {
			end = len(films)
		}
		n, err := s.films.InsertIgnore(films[i:end])
		if err != nil {
			log.Printf("[Ingest] batch %d failed, skipping: %v", i/s.batchSize+1, err)
			continue
		}
		inserted += n
	}

	total, err := s.films.Count()
	if err != nil {
		return nil, err
	}

	log.Printf("[Ingest] inserted %d new films, catalog total %d", inserted, total)
	return &IngestResult{Inserted: inserted, Total: total}, nil
}

// prepare maps raw rows to films, dropping rows with no title. Field-level
// parse failures degrade instead of failing the row.
func (s *IngestService) prepare(rows []SourceRow) []model.Film {
	films := make([]model.Film, 0, len(rows))
	for _, row := range rows {
		title := strings.TrimSpace(row.Title)
		if title == "" {
			continue
		}
		films = append(films, model.Film{
			Title:    title,
			Year:     utils.ParseYear(row.Year),
			Genres:   utils.ParseList(row.Genres),
			Cast:     utils.ParseList(row.Cast),
			Synopsis: strings.TrimSpace(row.Synopsis),
			Meta:     utils.ParseMeta(row.Meta),
		})
	}
	return films
}
