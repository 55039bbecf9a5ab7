package middleware

import (
	"net/http"

	"fourwheeler-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const DefaultMaxRequestSize = 10 << 20

// RequestSizeLimitMiddleware caps request bodies at maxSize bytes. Declared
// oversized bodies are refused before they are read.
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		maxSize = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxSize {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
