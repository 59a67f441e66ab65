package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/technurture/backend/internal/interface/http"
	"github.com/technurture/backend/internal/interface/middleware"
)

// FormModule wires the dynamic-form engine.
// Public: GET /api/forms, GET /api/forms/:id, POST /api/forms/:id/submit
// Admin: POST/PUT/DELETE /api/forms[...], GET /api/submissions

type FormModule struct {
	Handler *handlers.FormHandler
	Auth    gin.HandlerFunc
}

func NewFormModule(h *handlers.FormHandler, auth gin.HandlerFunc) *FormModule {
	return &FormModule{Handler: h, Auth: auth}
}

func (m *FormModule) Register(rg *gin.RouterGroup) {
	rg.GET("/forms", m.Handler.List)
	rg.GET("/forms/:id", m.Handler.Get)
	rg.POST("/forms/:id/submit", m.Handler.Submit)

	admin := rg.Group("/")
	admin.Use(m.Auth, middleware.RequireAdmin())
	{
		admin.POST("/forms", m.Handler.Create)
		admin.PUT("/forms/:id", m.Handler.Update)
		admin.DELETE("/forms/:id", m.Handler.Delete)
		admin.GET("/submissions", m.Handler.Submissions)
	}
}
