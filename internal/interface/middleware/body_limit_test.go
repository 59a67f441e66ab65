package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitEngine(max int64) *gin.Engine {
	r := gin.New()
	r.POST("/echo", BodyLimit(max), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestBodyLimitRejectsOversizedBody(t *testing.T) {
	r := bodyLimitEngine(16)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "/api/upload", "413 should point callers at the upload endpoint")
}

func TestBodyLimitPassesBodyWithinLimit(t *testing.T) {
	r := bodyLimitEngine(16)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("tiny"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
