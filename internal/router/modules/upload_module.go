package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/technurture/backend/internal/interface/http"
	"github.com/technurture/backend/internal/interface/middleware"
)

// UploadModule wires the admin media upload endpoint.

type UploadModule struct {
	Handler *handlers.UploadHandler
	Auth    gin.HandlerFunc
}

func NewUploadModule(h *handlers.UploadHandler, auth gin.HandlerFunc) *UploadModule {
	return &UploadModule{Handler: h, Auth: auth}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/")
	admin.Use(m.Auth, middleware.RequireAdmin())
	{
		admin.POST("/upload", m.Handler.Upload)
	}
}
