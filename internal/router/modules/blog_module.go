package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/technurture/backend/internal/interface/http"
	"github.com/technurture/backend/internal/interface/middleware"
)

// BlogModule wires the blog CMS.
// Public: GET /api/blog, GET /api/blog/search, GET /api/blog/:id
// Admin: POST/PUT/DELETE /api/blog[...]

type BlogModule struct {
	Handler *handlers.BlogHandler
	Auth    gin.HandlerFunc
}

func NewBlogModule(h *handlers.BlogHandler, auth gin.HandlerFunc) *BlogModule {
	return &BlogModule{Handler: h, Auth: auth}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	rg.GET("/blog", m.Handler.List)
	rg.GET("/blog/search", m.Handler.Search)
	rg.GET("/blog/:id", m.Handler.Get)

	admin := rg.Group("/")
	admin.Use(m.Auth, middleware.RequireAdmin())
	{
		admin.POST("/blog", m.Handler.Create)
		admin.PUT("/blog/:id", m.Handler.Update)
		admin.DELETE("/blog/:id", m.Handler.Delete)
	}
}
