package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the unified API envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
}

// Success returns a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    200,
		Message: "success",
		Data:    data,
		Success: true,
	})
}

// Error returns an error envelope with the given status code.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
		Success: false,
	})
}

// BadRequest returns a 400 error.
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// Unauthorized returns a 401 error.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "not authenticated"
	}
	Error(c, 401, message)
}

// NotFound returns a 404 error.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}
	Error(c, 404, message)
}

// InternalServerError returns a 500 error.
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	Error(c, 500, message)
}

// ServiceUnavailable returns a 503 error, used when the embedding encoder
// cannot be loaded. Distinct from 500 so operators can tell "model
// unloadable" apart from "database unreachable".
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "service temporarily unavailable"
	}
	Error(c, 503, message)
}
