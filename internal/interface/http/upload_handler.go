package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/technurture/backend/pkg/media"
	"github.com/technurture/backend/pkg/response"
)

type UploadHandler struct {
	Uploader media.Uploader
	MaxBytes int64
	Logger   *logrus.Logger
}

func NewUploadHandler(uploader media.Uploader, maxBytes int64, logger *logrus.Logger) *UploadHandler {
	if uploader == nil {
		uploader = media.DataURLUploader{}
	}
	return &UploadHandler{Uploader: uploader, MaxBytes: maxBytes, Logger: logger}
}

// Upload accepts a multipart "file" field holding an image or video and
// returns the hosted URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "missing file", gin.H{"file": "is required"})
		return
	}
	if fh.Size > h.MaxBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		response.Fail(c, http.StatusUnsupportedMediaType, "only image and video uploads are allowed", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.Logger.WithError(err).Error("open upload failed")
		response.Fail(c, http.StatusInternalServerError, "could not read upload", nil)
		return
	}
	defer func() { _ = f.Close() }()

	res, err := h.Uploader.Upload(c.Request.Context(), media.Upload{
		Data:        f,
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("uploader", h.Uploader.Name()).Error("upload failed")
		response.Fail(c, http.StatusBadGateway, "upload failed", nil)
		return
	}
	response.Created(c, res, "upload complete")
}
