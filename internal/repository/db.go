package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the database connection and applies the schema.
func InitDB(databaseURL string, embeddingDim int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := ensureSchema(db, embeddingDim); err != nil {
		return nil, err
	}

	return db, nil
}

// ensureSchema creates the pgvector extension and the two tables the core
// owns. All statements are idempotent; the vector dimension is fixed per
// deployment by the configured encoder model.
func ensureSchema(db *gorm.DB, embeddingDim int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS films (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			year INTEGER,
			genres TEXT[],
			cast_members TEXT[],
			synopsis TEXT,
			meta JSONB,
			CONSTRAINT films_title_year_key UNIQUE (title, year)
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS film_embeddings (
			film_id INTEGER PRIMARY KEY REFERENCES films(id),
			model TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, embeddingDim),
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Repositories bundles every repository behind one constructor.
type Repositories struct {
	DB        *gorm.DB
	Film      *FilmRepository
	Embedding *EmbeddingRepository
}

// NewRepositories wires the repository set.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:        db,
		Film:      NewFilmRepository(db),
		Embedding: NewEmbeddingRepository(db),
	}
}
