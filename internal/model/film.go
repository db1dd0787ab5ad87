package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// JSONMap is an open-ended key/value blob stored in a jsonb column.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// Film is one catalog entry. Rows are created by ingestion and never deleted;
// metadata edits and embedding refreshes happen independently of each other.
type Film struct {
	ID       int            `json:"id" gorm:"primaryKey"`
	Title    string         `json:"title" gorm:"not null;uniqueIndex:films_title_year_key"`
	Year     *int           `json:"year" gorm:"uniqueIndex:films_title_year_key"`
	Genres   pq.StringArray `json:"genres" gorm:"type:text[]"`
	Cast     pq.StringArray `json:"cast" gorm:"column:cast_members;type:text[]"`
	Synopsis string         `json:"synopsis"`
	Meta     JSONMap        `json:"meta,omitempty" gorm:"type:jsonb"`
}

// TableName keeps the table name singular-free like the rest of the schema.
func (Film) TableName() string { return "films" }

// FilmEmbedding is the stored vector for one film. One row per film id,
// tagged with the encoder model so vectors from different models never mix.
type FilmEmbedding struct {
	FilmID    int             `json:"film_id" gorm:"primaryKey"`
	Model     string          `json:"model" gorm:"not null"`
	Embedding pgvector.Vector `json:"embedding" gorm:"type:vector(768)"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"index"`
}

// TableName matches the index DDL in the embedding repository.
func (FilmEmbedding) TableName() string { return "film_embeddings" }

// Recommendation pairs a film with its cosine distance to the query vector.
// Smaller distance means more similar.
type Recommendation struct {
	Film     Film    `json:"film"`
	Distance float64 `json:"distance"`
}
