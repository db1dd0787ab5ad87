package repository

import (
	"errors"
	"time"

	"github.com/user/filmrec/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmbeddingRepository owns the film_embeddings table and the HNSW index over
// its vector column. Nearest-neighbor queries use the pgvector cosine
// operator; until the index is built Postgres answers them with an exact
// sequential scan, so queries never fail closed, they just run slower.
type EmbeddingRepository struct {
	db *gorm.DB
}

func NewEmbeddingRepository(db *gorm.DB) *EmbeddingRepository {
	return &EmbeddingRepository{db: db}
}

// indexName is the one ANN index the core maintains.
const indexName = "film_embeddings_hnsw_cosine"

// UpsertBatch writes a batch of embeddings, replacing any existing row per
// film id. Vectors are never partially updated.
func (r *EmbeddingRepository) UpsertBatch(items []model.FilmEmbedding) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now()
	for i := range items {
		items[i].UpdatedAt = now
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "film_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"model", "embedding", "updated_at"}),
	}).Create(&items).Error
}

// Get returns the stored vector for a film under the given model, or nil
// when no embedding exists.
func (r *EmbeddingRepository) Get(filmID int, modelName string) ([]float32, error) {
	var row model.FilmEmbedding
	err := r.db.First(&row, "film_id = ? AND model = ?", filmID, modelName).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.Embedding.Slice(), nil
}

// Count returns the number of embeddings stored under the given model.
func (r *EmbeddingRepository) Count(modelName string) (int64, error) {
	var n int64
	err := r.db.Model(&model.FilmEmbedding{}).Where("model = ?", modelName).Count(&n).Error
	return n, err
}

// CountAll returns the total number of stored embeddings across models.
func (r *EmbeddingRepository) CountAll() (int64, error) {
	var n int64
	err := r.db.Model(&model.FilmEmbedding{}).Count(&n).Error
	return n, err
}

// NearestFiltered runs the ranked similarity query: cosine distance to the
// query vector, relational predicates pushed into the same query so filtering
// can never shrink the result set below k while eligible rows remain beyond
// a naive top-k window. Results come back ascending by distance; ties follow
// index traversal order and are not stable across rebuilds.
func (r *EmbeddingRepository) NearestFiltered(vec string, k int, modelName string, pred *Predicate) ([]model.Recommendation, error) {
	filterSQL, filterArgs := pred.SQL()

	query := `
		SELECT f.id, f.title, f.year, f.genres, f.cast_members, f.synopsis, f.meta,
		       (fe.embedding <=> ?::vector) AS distance
		FROM film_embeddings fe
		JOIN films f ON f.id = fe.film_id
		WHERE fe.model = ?` + filterSQL + `
		ORDER BY fe.embedding <=> ?::vector
		LIMIT ?`

	args := make([]any, 0, len(filterArgs)+4)
	args = append(args, vec, modelName)
	args = append(args, filterArgs...)
	args = append(args, vec, k)

	rows, err := r.db.Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		var synopsis *string
		if err := rows.Scan(
			&rec.Film.ID, &rec.Film.Title, &rec.Film.Year,
			&rec.Film.Genres, &rec.Film.Cast, &synopsis, &rec.Film.Meta,
			&rec.Distance,
		); err != nil {
			return nil, err
		}
		if synopsis != nil {
			rec.Film.Synopsis = *synopsis
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// CreateIndex builds the HNSW cosine index if it does not exist yet.
// Safe to call repeatedly.
func (r *EmbeddingRepository) CreateIndex() error {
	return r.db.Exec(`
		CREATE INDEX IF NOT EXISTS ` + indexName + `
		ON film_embeddings USING hnsw (embedding vector_cosine_ops)`).Error
}

// VacuumAnalyze compacts and re-plans the embedding table after bulk
// changes. Expected after a rebuild, not after every write.
func (r *EmbeddingRepository) VacuumAnalyze() error {
	return r.db.Exec(`VACUUM ANALYZE film_embeddings`).Error
}

// IndexSize returns a human-readable size of the ANN index, or "N/A" when
// the index has not been built.
func (r *EmbeddingRepository) IndexSize() (string, error) {
	var size *string
	err := r.db.Raw(`
		SELECT pg_size_pretty(pg_relation_size(c.oid))
		FROM pg_class c
		WHERE c.relname = ?`, indexName).Scan(&size).Error
	if err != nil {
		return "", err
	}
	if size == nil {
		return "N/A", nil
	}
	return *size, nil
}

// DeleteByModel drops every embedding generated under a model. Used when a
// deployment switches encoder models and must re-embed from scratch.
func (r *EmbeddingRepository) DeleteByModel(modelName string) (int64, error) {
	res := r.db.Where("model = ?", modelName).Delete(&model.FilmEmbedding{})
	return res.RowsAffected, res.Error
}
