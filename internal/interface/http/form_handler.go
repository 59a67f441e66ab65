package handlers

import (
	"errors"
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

type FormHandler struct {
	Store  repository.Storage
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewFormHandler(store repository.Storage, pub *helpers.RabbitPublisher, logger *logrus.Logger) *FormHandler {
	return &FormHandler{Store: store, Pub: pub, Logger: logger}
}

type formFieldRequest struct {
	ID          string   `json:"id" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Label       string   `json:"label" binding:"required"`
	Placeholder string   `json:"placeholder"`
	Required    bool     `json:"required"`
	Options     []string `json:"options"`
}

type formRequest struct {
	Title       string             `json:"title" binding:"required,max=255"`
	Description string             `json:"description"`
	Type        string             `json:"type" binding:"required,max=50"`
	Fields      []formFieldRequest `json:"fields" binding:"omitempty,dive"`
	Active      *bool              `json:"active"`
}

type formUpdateRequest struct {
	Title       *string             `json:"title" binding:"omitempty,max=255"`
	Description *string             `json:"description"`
	Type        *string             `json:"type" binding:"omitempty,max=50"`
	Fields      *[]formFieldRequest `json:"fields" binding:"omitempty,dive"`
	Active      *bool               `json:"active"`
}

type submitRequest struct {
	SubmissionData map[string]any `json:"submissionData" binding:"required"`
}

func toFields(in []formFieldRequest) []entity.FormField {
	out := make([]entity.FormField, 0, len(in))
	for _, f := range in {
		out = append(out, entity.FormField{
			ID:          f.ID,
			Type:        f.Type,
			Label:       f.Label,
			Placeholder: f.Placeholder,
			Required:    f.Required,
			Options:     f.Options,
		})
	}
	return out
}

func (h *FormHandler) Create(c *gin.Context) {
	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	active := 1
	if req.Active != nil {
		active = boolToFlag(*req.Active)
	}
	form := &entity.DynamicForm{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Fields:      toFields(req.Fields),
		Active:      active,
	}
	if err := h.Store.CreateDynamicForm(c.Request.Context(), form); err != nil {
		h.Logger.WithError(err).Error("create form failed")
		response.Fail(c, http.StatusInternalServerError, "could not save form", nil)
		return
	}
	response.Created(c, form, "form created")
}

// List returns forms newest first, optionally filtered by ?active=.
func (h *FormHandler) List(c *gin.Context) {
	active, ok := flagParam(c, "active")
	if !ok {
		return
	}
	forms, err := h.Store.GetDynamicForms(c.Request.Context(), active)
	if err != nil {
		h.Logger.WithError(err).Error("list forms failed")
		response.Fail(c, http.StatusInternalServerError, "could not load forms", nil)
		return
	}
	if forms == nil {
		forms = []entity.DynamicForm{}
	}
	response.OK(c, forms, "forms")
}

func (h *FormHandler) Get(c *gin.Context) {
	form, err := h.Store.GetDynamicForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "form not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get form failed")
		response.Fail(c, http.StatusInternalServerError, "could not load form", nil)
		return
	}
	response.OK(c, form, "form")
}

func (h *FormHandler) Update(c *gin.Context) {
	var req formUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	upd := entity.DynamicFormUpdate{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	}
	if req.Fields != nil {
		fields := toFields(*req.Fields)
		upd.Fields = &fields
	}
	if req.Active != nil {
		v := boolToFlag(*req.Active)
		upd.Active = &v
	}
	form, err := h.Store.UpdateDynamicForm(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "form not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update form failed")
		response.Fail(c, http.StatusInternalServerError, "could not update form", nil)
		return
	}
	response.OK(c, form, "form updated")
}

// Delete removes a form. Existing submissions keep their formId and stay
// readable through the submissions listing.
func (h *FormHandler) Delete(c *gin.Context) {
	if err := h.Store.DeleteDynamicForm(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "form not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete form failed")
		response.Fail(c, http.StatusInternalServerError, "could not delete form", nil)
		return
	}
	response.OK(c, gin.H{"deleted": true}, "form deleted")
}

// Submit records a public submission against an active form.
func (h *FormHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	form, err := h.Store.GetDynamicForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "form not found", nil)
			return
		}
		h.Logger.WithError(err).Error("load form for submit failed")
		response.Fail(c, http.StatusInternalServerError, "could not load form", nil)
		return
	}
	if form.Active != 1 {
		response.Fail(c, http.StatusBadRequest, "form is not accepting submissions", nil)
		return
	}

	sub := &entity.FormSubmission{
		FormID:         form.ID,
		SubmissionData: req.SubmissionData,
	}
	if err := h.Store.CreateFormSubmission(c.Request.Context(), sub); err != nil {
		h.Logger.WithError(err).Error("create submission failed")
		response.Fail(c, http.StatusInternalServerError, "could not save submission", nil)
		return
	}

	publishLead(h.Pub, h.Logger, mailer.NotifyJob{
		Kind:    mailer.KindFormSubmission,
		Subject: "New submission for " + form.Title,
		Fields: map[string]any{
			"form":   form.Title,
			"formId": form.ID,
			"data":   sub.SubmissionData,
		},
		ReceivedAt: sub.CreatedAt,
	})
	response.Created(c, sub, "submission received")
}

// Submissions lists submissions, optionally scoped by ?formId=. Admin only.
func (h *FormHandler) Submissions(c *gin.Context) {
	subs, err := h.Store.GetFormSubmissions(c.Request.Context(), c.Query("formId"))
	if err != nil {
		h.Logger.WithError(err).Error("list submissions failed")
		response.Fail(c, http.StatusInternalServerError, "could not load submissions", nil)
		return
	}
	if subs == nil {
		subs = []entity.FormSubmission{}
	}
	response.OK(c, subs, "submissions")
}
