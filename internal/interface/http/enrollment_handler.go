package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/technurture/backend/internal/domain/entity"
	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/pkg/helpers"
	"github.com/technurture/backend/pkg/mailer"
	"github.com/technurture/backend/pkg/response"
	"github.com/technurture/backend/pkg/validation"
)

type EnrollmentHandler struct {
	Store  repository.Storage
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewEnrollmentHandler(store repository.Storage, pub *helpers.RabbitPublisher, logger *logrus.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{Store: store, Pub: pub, Logger: logger}
}

type enrollmentRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"omitempty,max=50"`
	Course     string `json:"course" binding:"required,max=100"`
	Experience string `json:"experience" binding:"omitempty,max=50"`
	Motivation string `json:"motivation"`
}

// Create takes a public course-enrollment request.
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req enrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	enr := &entity.Enrollment{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Course:     req.Course,
		Experience: req.Experience,
		Motivation: req.Motivation,
	}
	if err := h.Store.CreateEnrollment(c.Request.Context(), enr); err != nil {
		h.Logger.WithError(err).Error("create enrollment failed")
		response.Fail(c, http.StatusInternalServerError, "could not save enrollment", nil)
		return
	}

	publishLead(h.Pub, h.Logger, mailer.NotifyJob{
		Kind:    mailer.KindEnrollment,
		Subject: "New enrollment for " + enr.Course,
		Fields: map[string]any{
			"name": enr.Name, "email": enr.Email, "phone": enr.Phone,
			"course": enr.Course, "experience": enr.Experience, "motivation": enr.Motivation,
		},
		ReceivedAt: enr.CreatedAt,
	})
	response.Created(c, enr, "enrollment received")
}

// List returns every enrollment, newest first. Admin only.
func (h *EnrollmentHandler) List(c *gin.Context) {
	enrollments, err := h.Store.GetEnrollments(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list enrollments failed")
		response.Fail(c, http.StatusInternalServerError, "could not load enrollments", nil)
		return
	}
	if enrollments == nil {
		enrollments = []entity.Enrollment{}
	}
	response.OK(c, enrollments, "enrollments")
}
