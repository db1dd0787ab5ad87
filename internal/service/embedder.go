package service

import (
	"context"
	"fmt"
	"log"

	"github.com/pgvector/pgvector-go"
	"github.com/user/filmrec/internal/model"
)

// filmScanner pages through the catalog in id order.
type filmScanner interface {
	ListAfter(afterID, limit int) ([]model.Film, error)
}

// vectorWriter is the slice of the embedding repository the job needs.
type vectorWriter interface {
	UpsertBatch(items []model.FilmEmbedding) error
}

// EmbedJob regenerates the embedding for every film in the catalog. It runs
// batch by batch and overwrites existing vectors per film id, so re-running
// it is always safe. It never touches the ANN index; rebuilding that is the
// index manager's job and a separate, explicit call.
type EmbedJob struct {
	films     filmScanner
	vectors   vectorWriter
	encoder   Encoder
	opts      TextOptions
	batchSize int

	// Progress, when set, is called after each batch with the running total.
	Progress func(done int)
}

// NewEmbedJob wires the batch embedding job.
func NewEmbedJob(films filmScanner, vectors vectorWriter, encoder Encoder, batchSize int) *EmbedJob {
	if batchSize < 1 {
		batchSize = 32
	}
	return &EmbedJob{
		films:     films,
		vectors:   vectors,
		encoder:   encoder,
		opts:      DefaultTextOptions(),
		batchSize: batchSize,
	}
}

// GenerateAll embeds the whole catalog and returns the number of vectors
// written. Batches are sequential; film ids within a run are disjoint, so a
// partially completed run leaves the store consistent and resumable.
func (j *EmbedJob) GenerateAll(ctx context.Context) (int, error) {
	var generated int
	afterID := 0

	for {
		if err := ctx.Err(); err != nil {
			return generated, err
		}

		films, err := j.films.ListAfter(afterID, j.batchSize)
		if err != nil {
			return generated, fmt.Errorf("scan films after id %d: %w", afterID, err)
		}
		if len(films) == 0 {
			break
		}

		texts := make([]string, len(films))
		for i, f := range films {
			texts[i] = BuildFilmText(f.Title, f.Synopsis, f.Genres, f.Cast, j.opts)
		}

		vecs, err := j.encoder.Encode(ctx, texts)
		if err != nil {
			return generated, fmt.Errorf("encode batch after id %d: %w", afterID, err)
		}

		items := make([]model.FilmEmbedding, len(films))
		for i, f := range films {
			items[i] = model.FilmEmbedding{
				FilmID:    f.ID,
				Model:     j.encoder.Model(),
				Embedding: pgvector.NewVector(vecs[i]),
			}
		}
		if err := j.vectors.UpsertBatch(items); err != nil {
			return generated, fmt.Errorf("upsert batch after id %d: %w", afterID, err)
		}

		generated += len(films)
		afterID = films[len(films)-1].ID
		if j.Progress != nil {
			j.Progress(generated)
		}
	}

	log.Printf("[Embed] generated %d embeddings with model %s", generated, j.encoder.Model())
	return generated, nil
}
