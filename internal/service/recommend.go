package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/user/filmrec/internal/model"
	"github.com/user/filmrec/internal/repository"
	"github.com/user/filmrec/internal/utils"
	"golang.org/x/sync/singleflight"
)

// filmCatalog is the slice of the film repository the retrieval engine needs.
type filmCatalog interface {
	FindByID(id int) (*model.Film, error)
}

// vectorIndex is the slice of the embedding repository the retrieval engine
// needs: vector lookup plus filtered nearest-neighbor ranking.
type vectorIndex interface {
	Get(filmID int, modelName string) ([]float32, error)
	NearestFiltered(vec string, k int, modelName string, pred *repository.Predicate) ([]model.Recommendation, error)
}

const (
	defaultK = 10
	maxK     = 100
)

// RecommendService ranks films by cosine proximity in embedding space,
// combined with relational filters on genre and year.
type RecommendService struct {
	films   filmCatalog
	vectors vectorIndex
	encoder Encoder

	searchCache *utils.ResultCache[[]model.Recommendation]
	sf          singleflight.Group
}

// NewRecommendService wires the retrieval engine. The encoder is the shared
// lazy singleton; the service never loads models itself.
func NewRecommendService(films filmCatalog, vectors vectorIndex, encoder Encoder) *RecommendService {
	return &RecommendService{
		films:       films,
		vectors:     vectors,
		encoder:     encoder,
		searchCache: utils.NewResultCache[[]model.Recommendation](1000, 10*time.Minute),
	}
}

// clampK bounds the requested result count to [1, maxK].
func clampK(k int) int {
	if k < 1 {
		return defaultK
	}
	if k > maxK {
		return maxK
	}
	return k
}

// RecommendByExample returns up to k films ranked by similarity to the given
// film, fewer when the filtered population is smaller. The source film is
// always excluded from its own results; films whose genres intersect
// excludeGenres are dropped; nil year bounds leave that side open.
func (s *RecommendService) RecommendByExample(ctx context.Context, filmID, k int, excludeGenres []string, minYear, maxYear *int) ([]model.Recommendation, error) {
	k = clampK(k)

	film, err := s.films.FindByID(filmID)
	if err != nil {
		return nil, fmt.Errorf("look up film %d: %w", filmID, err)
	}
	if film == nil {
		return nil, fmt.Errorf("film %d: %w", filmID, ErrNotFound)
	}

	vec, err := s.vectors.Get(filmID, s.encoder.Model())
	if err != nil {
		return nil, fmt.Errorf("load embedding for film %d: %w", filmID, err)
	}
	if vec == nil {
		return nil, fmt.Errorf("film %d has no embedding: %w", filmID, ErrNotFound)
	}

	pred := repository.NewPredicate().NotEquals("f.id", filmID)
	if len(excludeGenres) > 0 {
		pred.NotOverlaps("f.genres", excludeGenres)
	}
	applyYearRange(pred, minYear, maxYear)

	return s.vectors.NearestFiltered(utils.EncodeVector(vec), k, s.encoder.Model(), pred)
}

// SearchByText embeds the raw query and returns up to k films ranked by
// similarity to it. The genre filter means "any of": a film qualifies when
// its genre set intersects the requested genres. Repeated queries are served
// from a bounded TTL cache; identical in-flight queries share one execution.
func (s *RecommendService) SearchByText(ctx context.Context, query string, k int, genres []string, minYear, maxYear *int) ([]model.Recommendation, error) {
	k = clampK(k)

	key := searchCacheKey(query, k, genres, minYear, maxYear)
	if cached, ok := s.searchCache.Get(key); ok {
		return cached, nil
	}

	val, err, _ := s.sf.Do(key, func() (interface{}, error) {
		vecs, err := s.encoder.Encode(ctx, []string{query})
		if err != nil {
			return nil, err
		}

		pred := repository.NewPredicate()
		if len(genres) > 0 {
			pred.Overlaps("f.genres", genres)
		}
		applyYearRange(pred, minYear, maxYear)

		results, err := s.vectors.NearestFiltered(utils.EncodeVector(vecs[0]), k, s.encoder.Model(), pred)
		if err != nil {
			return nil, err
		}
		s.searchCache.Set(key, results)
		return results, nil
	})
	if err != nil {
		return nil, err
	}
	return val.([]model.Recommendation), nil
}

// InvalidateSearchCache drops every cached text-search result. Bulk
// embedding regeneration changes the vector space under the cache, so the
// admin embedding endpoint calls this after a successful run.
func (s *RecommendService) InvalidateSearchCache() {
	n := s.searchCache.Len()
	s.searchCache.Clear()
	log.Printf("[Recommend] dropped %d cached searches", n)
}

func applyYearRange(pred *repository.Predicate, minYear, maxYear *int) {
	if minYear != nil {
		pred.GTE("f.year", *minYear)
	}
	if maxYear != nil {
		pred.LTE("f.year", *maxYear)
	}
}

func searchCacheKey(query string, k int, genres []string, minYear, maxYear *int) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(query)))
	fmt.Fprintf(&b, "|k=%d", k)
	if len(genres) > 0 {
		b.WriteString("|g=" + strings.Join(genres, ","))
	}
	if minYear != nil {
		fmt.Fprintf(&b, "|y0=%d", *minYear)
	}
	if maxYear != nil {
		fmt.Fprintf(&b, "|y1=%d", *maxYear)
	}
	return b.String()
}
