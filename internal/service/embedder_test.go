package service

import (
	"context"
	"testing"

	"github.com/user/filmrec/internal/model"
)

type fakeScanner struct {
	films []model.Film
}

func (f *fakeScanner) ListAfter(afterID, limit int) ([]model.Film, error) {
	var out []model.Film
	for _, film := range f.films {
		if film.ID > afterID {
			out = append(out, film)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeWriter struct {
	items []model.FilmEmbedding
}

func (f *fakeWriter) UpsertBatch(items []model.FilmEmbedding) error {
	f.items = append(f.items, items...)
	return nil
}

func TestEmbedJobGenerateAll(t *testing.T) {
	films := []model.Film{
		{ID: 1, Title: "Alpha", Synopsis: "syn1"},
		{ID: 2, Title: "Beta", Genres: []string{"SciFi"}},
		{ID: 3, Title: "Gamma"},
		{ID: 7, Title: "Delta"},
		{ID: 9, Title: "Epsilon"},
	}

	t.Run("embeds the whole catalog in batches", func(t *testing.T) {
		writer := &fakeWriter{}
		job := NewEmbedJob(&fakeScanner{films: films}, writer, &stubEncoder{dim: 4, model: "stub"}, 2)

		var progress []int
		job.Progress = func(done int) { progress = append(progress, done) }

		generated, err := job.GenerateAll(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if generated != 5 {
			t.Errorf("generated = %d, want 5", generated)
		}
		if len(writer.items) != 5 {
			t.Fatalf("wrote %d embeddings, want 5", len(writer.items))
		}
		for _, item := range writer.items {
			if item.Model != "stub" {
				t.Errorf("embedding for film %d tagged %q, want stub", item.FilmID, item.Model)
			}
			if item.Embedding.Slice() == nil {
				t.Errorf("film %d has no vector", item.FilmID)
			}
		}
		// Paging follows ids, not positions: 1,2 | 3,7 | 9.
		if len(progress) != 3 || progress[2] != 5 {
			t.Errorf("progress = %v", progress)
		}
	})

	t.Run("empty catalog is a no-op", func(t *testing.T) {
		writer := &fakeWriter{}
		job := NewEmbedJob(&fakeScanner{}, writer, &stubEncoder{dim: 4, model: "stub"}, 2)

		generated, err := job.GenerateAll(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if generated != 0 || len(writer.items) != 0 {
			t.Errorf("generated = %d, wrote %d", generated, len(writer.items))
		}
	})

	t.Run("cancelled context stops at a batch boundary", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		job := NewEmbedJob(&fakeScanner{films: films}, &fakeWriter{}, &stubEncoder{dim: 4, model: "stub"}, 2)
		if _, err := job.GenerateAll(ctx); err == nil {
			t.Error("expected a context error")
		}
	})
}
