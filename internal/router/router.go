package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/filmrec/internal/handler"
	"github.com/user/filmrec/internal/middleware"
)

// RegisterRoutes wires every endpoint.
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/api/info", h.APIInfo)

	// Retrieval
	r.GET("/recommend/by-film/:id", h.RecommendByFilm)
	r.GET("/search", h.Search)

	// Catalog
	r.GET("/films/:id", h.GetFilm)
	r.GET("/stats", h.GetStats)

	// Maintenance (admin token required)
	r.POST("/admin/login", h.AdminLogin)
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin(h.Config.AppSecret))
	{
		admin.POST("/ingest", h.AdminIngest)
		admin.POST("/embeddings/generate", h.AdminGenerateEmbeddings)
		admin.POST("/index/rebuild", h.AdminRebuildIndex)
	}
}
