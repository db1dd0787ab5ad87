package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/filmrec/internal/model"
	"github.com/user/filmrec/internal/utils"
)

// RecommendationResponse is the payload both retrieval endpoints return.
type RecommendationResponse struct {
	QueryFilmID     *int                   `json:"query_film_id,omitempty"`
	QueryText       string                 `json:"query_text,omitempty"`
	Recommendations []model.Recommendation `json:"recommendations"`
	Count           int                    `json:"count"`
}

type rankQuery struct {
	K       int    `form:"k,default=10" validate:"gte=1,lte=100"`
	Genres  string `form:"genres"`
	Exclude string `form:"exclude_genres"`
	MinYear *int   `form:"min_year" validate:"omitempty,gte=1870,lte=2100"`
	MaxYear *int   `form:"max_year" validate:"omitempty,gte=1870,lte=2100"`
}

// RecommendByFilm handles GET /recommend/by-film/:id.
func (h *Handler) RecommendByFilm(c *gin.Context) {
	filmID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "film id must be an integer")
		return
	}

	var q rankQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if err := validate.Struct(q); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	results, err := h.Recommend.RecommendByExample(c.Request.Context(),
		filmID, q.K, splitCSVParam(q.Exclude), q.MinYear, q.MaxYear)
	if err != nil {
		renderError(c, err)
		return
	}
	if results == nil {
		results = []model.Recommendation{}
	}

	utils.Success(c, RecommendationResponse{
		QueryFilmID:     &filmID,
		Recommendations: results,
		Count:           len(results),
	})
}

type searchQuery struct {
	Q string `form:"q" validate:"required"`
	rankQuery
}

// Search handles GET /search.
func (h *Handler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if err := validate.Struct(q); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	results, err := h.Recommend.SearchByText(c.Request.Context(),
		q.Q, q.K, splitCSVParam(q.Genres), q.MinYear, q.MaxYear)
	if err != nil {
		renderError(c, err)
		return
	}
	if results == nil {
		results = []model.Recommendation{}
	}

	utils.Success(c, RecommendationResponse{
		QueryText:       q.Q,
		Recommendations: results,
		Count:           len(results),
	})
}

// GetFilm handles GET /films/:id.
func (h *Handler) GetFilm(c *gin.Context) {
	filmID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "film id must be an integer")
		return
	}

	film, err := h.Repos.Film.FindByID(filmID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if film == nil {
		utils.NotFound(c, "film not found")
		return
	}
	utils.Success(c, film)
}

// Stats is the payload of GET /stats.
type Stats struct {
	TotalFilms      int64  `json:"total_films"`
	TotalEmbeddings int64  `json:"total_embeddings"`
	MinYear         *int   `json:"min_year"`
	MaxYear         *int   `json:"max_year"`
	UniqueGenres    int64  `json:"unique_genres"`
	IndexSize       string `json:"index_size"`
	EmbeddingModel  string `json:"embedding_model"`
}

const statsCacheKey = "stats"

// GetStats handles GET /stats. The aggregate is cheap but hit often, so it
// is cached for a minute and concurrent misses share one computation.
func (h *Handler) GetStats(c *gin.Context) {
	if cached, ok := utils.CacheGet(statsCacheKey); ok {
		utils.Success(c, cached)
		return
	}

	val, err, _ := h.sf.Do(statsCacheKey, func() (interface{}, error) {
		stats, err := h.collectStats()
		if err != nil {
			return nil, err
		}
		utils.CacheSet(statsCacheKey, stats, time.Minute)
		return stats, nil
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, val)
}

func (h *Handler) collectStats() (*Stats, error) {
	totalFilms, err := h.Repos.Film.Count()
	if err != nil {
		return nil, err
	}
	totalEmbeddings, err := h.Repos.Embedding.CountAll()
	if err != nil {
		return nil, err
	}
	minYear, maxYear, err := h.Repos.Film.YearRange()
	if err != nil {
		return nil, err
	}
	uniqueGenres, err := h.Repos.Film.DistinctGenreCount()
	if err != nil {
		return nil, err
	}
	indexSize, err := h.Repos.Embedding.IndexSize()
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalFilms:      totalFilms,
		TotalEmbeddings: totalEmbeddings,
		MinYear:         minYear,
		MaxYear:         maxYear,
		UniqueGenres:    uniqueGenres,
		IndexSize:       indexSize,
		EmbeddingModel:  h.Encoder.Model(),
	}, nil
}

// APIInfo handles GET /api/info.
func (h *Handler) APIInfo(c *gin.Context) {
	utils.Success(c, gin.H{
		"message": "film recommendation API",
		"endpoints": gin.H{
			"recommend_by_film": "/recommend/by-film/:id?k=10",
			"search":            "/search?q=sci-fi+space&k=10",
			"film_details":      "/films/:id",
			"stats":             "/stats",
		},
	})
}
