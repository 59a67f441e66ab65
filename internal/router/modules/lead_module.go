package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/technurture/backend/internal/interface/http"
	"github.com/technurture/backend/internal/interface/middleware"
)

// LeadModule wires the public lead-capture endpoints and their admin
// listings.
// Public: POST /api/contact, POST /api/enrollment
// Admin: GET /api/contacts, GET /api/enrollments

type LeadModule struct {
	Contacts    *handlers.ContactHandler
	Enrollments *handlers.EnrollmentHandler
	Auth        gin.HandlerFunc
}

func NewLeadModule(contacts *handlers.ContactHandler, enrollments *handlers.EnrollmentHandler, auth gin.HandlerFunc) *LeadModule {
	return &LeadModule{Contacts: contacts, Enrollments: enrollments, Auth: auth}
}

func (m *LeadModule) Register(rg *gin.RouterGroup) {
	rg.POST("/contact", m.Contacts.Create)
	rg.POST("/enrollment", m.Enrollments.Create)

	admin := rg.Group("/")
	admin.Use(m.Auth, middleware.RequireAdmin())
	{
		admin.GET("/contacts", m.Contacts.List)
		admin.GET("/enrollments", m.Enrollments.List)
	}
}
