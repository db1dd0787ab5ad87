package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/filmrec/internal/middleware"
	"github.com/user/filmrec/internal/service"
	"github.com/user/filmrec/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /admin/login. The admin password is configured as
// a bcrypt hash in the environment; a successful check issues a bearer JWT
// for the maintenance endpoints.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "password is required")
		return
	}

	if h.Config.AdminPasswordHash == "" {
		utils.ServiceUnavailable(c, "admin access is not configured")
		return
	}
	if err := bcrypt.CompareHashAndPassword(
		[]byte(h.Config.AdminPasswordHash), []byte(req.Password)); err != nil {
		utils.Unauthorized(c, "invalid password")
		return
	}

	token, err := middleware.GenerateToken("admin", h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, gin.H{"token": token})
}

// AdminIngest handles POST /admin/ingest: a multipart CSV upload pushed
// through the ingestion pipeline.
func (h *Handler) AdminIngest(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "a csv file upload named 'file' is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	defer f.Close()

	rows, err := service.ReadCSV(f)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	result, err := h.Ingest.Ingest(c.Request.Context(), rows)
	if err != nil {
		renderError(c, err)
		return
	}
	utils.CacheDelete(statsCacheKey)
	utils.Success(c, result)
}

// AdminGenerateEmbeddings handles POST /admin/embeddings/generate. Runs the
// full batch embedding job synchronously; callers are expected to follow up
// with an index rebuild.
func (h *Handler) AdminGenerateEmbeddings(c *gin.Context) {
	generated, err := h.Embed.GenerateAll(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	h.Recommend.InvalidateSearchCache()
	utils.CacheDelete(statsCacheKey)
	utils.Success(c, gin.H{"generated": generated})
}

// AdminRebuildIndex handles POST /admin/index/rebuild.
func (h *Handler) AdminRebuildIndex(c *gin.Context) {
	result, err := h.Index.Rebuild(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	utils.CacheDelete(statsCacheKey)
	utils.Success(c, result)
}
