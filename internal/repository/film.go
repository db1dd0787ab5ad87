package repository

import (
	"errors"

	"github.com/user/filmrec/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FilmRepository struct {
	db *gorm.DB
}

func NewFilmRepository(db *gorm.DB) *FilmRepository {
	return &FilmRepository{db: db}
}

// FindByID returns the film or nil when it does not exist.
func (r *FilmRepository) FindByID(id int) (*model.Film, error) {
	var film model.Film
	err := r.db.First(&film, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &film, nil
}

// InsertIgnore inserts a batch of films, silently dropping rows that collide
// with the title+year natural key. Ingestion must never overwrite curated
// metadata edits, so this is insert-or-ignore, not upsert. Returns the number
// of rows actually inserted.
func (r *FilmRepository) InsertIgnore(films []model.Film) (int64, error) {
	if len(films) == 0 {
		return 0, nil
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&films)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Count returns the catalog size.
func (r *FilmRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.Film{}).Count(&n).Error
	return n, err
}

// ListAfter returns up to limit films with id > afterID, ordered by id.
// The embedding job pages through the catalog with it.
func (r *FilmRepository) ListAfter(afterID, limit int) ([]model.Film, error) {
	var films []model.Film
	err := r.db.Where("id > ?", afterID).Order("id").Limit(limit).Find(&films).Error
	return films, err
}

// YearRange returns the min and max known release years, nil when the
// catalog has no dated films.
func (r *FilmRepository) YearRange() (*int, *int, error) {
	var row struct {
		MinYear *int
		MaxYear *int
	}
	err := r.db.Model(&model.Film{}).
		Select("MIN(year) AS min_year, MAX(year) AS max_year").
		Where("year IS NOT NULL").
		Scan(&row).Error
	if err != nil {
		return nil, nil, err
	}
	return row.MinYear, row.MaxYear, nil
}

// DistinctGenreCount counts unique genre labels across the catalog.
func (r *FilmRepository) DistinctGenreCount() (int64, error) {
	var n int64
	err := r.db.Raw(
		`SELECT COUNT(DISTINCT g) FROM films, unnest(genres) AS g WHERE genres IS NOT NULL`,
	).Scan(&n).Error
	return n, err
}
