package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/technurture/backend/internal/domain/entity"
	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/pkg/helpers"
	"github.com/technurture/backend/pkg/mailer"
	"github.com/technurture/backend/pkg/response"
	"github.com/technurture/backend/pkg/validation"
)

type ContactHandler struct {
	Store  repository.Storage
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewContactHandler(store repository.Storage, pub *helpers.RabbitPublisher, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Store: store, Pub: pub, Logger: logger}
}

type contactRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"omitempty,max=50"`
	Service    string `json:"service" binding:"omitempty,max=100"`
	Message    string `json:"message" binding:"required"`
	Newsletter bool   `json:"newsletter"`
}

// Create takes a public contact-form submission.
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	contact := &entity.Contact{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Service:    req.Service,
		Message:    req.Message,
		Newsletter: boolToFlag(req.Newsletter),
	}
	if err := h.Store.CreateContact(c.Request.Context(), contact); err != nil {
		h.Logger.WithError(err).Error("create contact failed")
		response.Fail(c, http.StatusInternalServerError, "could not save contact", nil)
		return
	}

	publishLead(h.Pub, h.Logger, mailer.NotifyJob{
		Kind:    mailer.KindContact,
		Subject: "New contact from " + contact.Name,
		Fields: map[string]any{
			"name": contact.Name, "email": contact.Email, "phone": contact.Phone,
			"service": contact.Service, "message": contact.Message,
			"newsletter": contact.Newsletter == 1,
		},
		ReceivedAt: contact.CreatedAt,
	})
	response.Created(c, contact, "contact received")
}

// List returns every contact, newest first. Admin only.
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.Store.GetContacts(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list contacts failed")
		response.Fail(c, http.StatusInternalServerError, "could not load contacts", nil)
		return
	}
	if contacts == nil {
		contacts = []entity.Contact{}
	}
	response.OK(c, contacts, "contacts")
}

func boolToFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// publishLead enqueues a notification without blocking or failing the
// request; the lead is already persisted.
func publishLead(pub *helpers.RabbitPublisher, logger *logrus.Logger, job mailer.NotifyJob) {
	if pub == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pub.PublishJSON(ctx, job); err != nil && logger != nil {
			logger.WithError(err).WithField("kind", job.Kind).Warn("lead notification publish failed")
		}
	}()
}
