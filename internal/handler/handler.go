package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/filmrec/internal/config"
	"github.com/user/filmrec/internal/repository"
	"github.com/user/filmrec/internal/service"
	"github.com/user/filmrec/internal/utils"
	"golang.org/x/sync/singleflight"
)

// Handler carries the wired services behind the HTTP surface.
type Handler struct {
	Repos     *repository.Repositories
	Config    *config.Config
	Encoder   service.Encoder
	Recommend *service.RecommendService
	Ingest    *service.IngestService
	Embed     *service.EmbedJob
	Index     *service.IndexManager

	sf singleflight.Group
}

var validate = validator.New()

// NewHandler wires the core services. The encoder is created here once and
// shared: its lazy load (and any load failure) is process-wide state.
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	encoder := service.NewLazyOllamaEncoder(cfg.OllamaHost, cfg.EmbeddingModel, cfg.Normalize)

	return &Handler{
		Repos:     repos,
		Config:    cfg,
		Encoder:   encoder,
		Recommend: service.NewRecommendService(repos.Film, repos.Embedding, encoder),
		Ingest:    service.NewIngestService(repos.Film, cfg.IngestBatchSize),
		Embed:     service.NewEmbedJob(repos.Film, repos.Embedding, encoder, cfg.EmbedBatchSize),
		Index:     service.NewIndexManager(repos.Embedding),
	}
}

// renderError maps the service error taxonomy to HTTP statuses: client
// mistakes get 404, a dead encoder gets 503 (retry later), everything else
// is a generic 500.
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrEncoderUnavailable):
		utils.ServiceUnavailable(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}

// splitCSVParam splits a comma-separated query parameter into trimmed,
// non-empty values.
func splitCSVParam(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	vals := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			vals = append(vals, v)
		}
	}
	return vals
}
