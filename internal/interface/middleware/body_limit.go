package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/technurture/backend/pkg/response"
)

// BodyLimit caps request body size. Oversized declared bodies get a 413 up
// front with guidance to use the upload endpoint for big media; chunked
// bodies that grow past the cap fail at read time via MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Fail(c, http.StatusRequestEntityTooLarge,
				"request body too large; upload media through /api/upload instead of inlining it", nil)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
