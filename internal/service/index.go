package service

import (
	"context"
	"log"
)

// indexStore is the slice of the embedding repository index maintenance
// needs.
type indexStore interface {
	CountAll() (int64, error)
	CreateIndex() error
	VacuumAnalyze() error
}

// RebuildResult reports what a rebuild covered.
type RebuildResult struct {
	EmbeddingCount int64 `json:"embedding_count"`
}

// IndexManager owns the ANN index lifecycle. Nothing rebuilds the index
// automatically: bulk ingestion and re-embedding are expected to finish
// first, then an operator (or the CLI) calls Rebuild once. This matches the
// batch-oriented workload; the store keeps serving exact scans meanwhile.
type IndexManager struct {
	store indexStore
}

func NewIndexManager(store indexStore) *IndexManager {
	return &IndexManager{store: store}
}

// Rebuild creates (or refreshes) the HNSW cosine index over the full
// embedding set and then vacuums the table. Idempotent: an existing index is
// left in place, and zero embeddings make the call a no-op reporting zero.
func (m *IndexManager) Rebuild(ctx context.Context) (*RebuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	count, err := m.store.CountAll()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		log.Printf("[Index] no embeddings, nothing to index")
		return &RebuildResult{EmbeddingCount: 0}, nil
	}

	log.Printf("[Index] building HNSW index over %d embeddings", count)
	if err := m.store.CreateIndex(); err != nil {
		return nil, err
	}
	if err := m.store.VacuumAnalyze(); err != nil {
		return nil, err
	}

	log.Printf("[Index] rebuild finished")
	return &RebuildResult{EmbeddingCount: count}, nil
}
