// Package response defines the JSON envelope every handler writes.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform envelope. Data and Error are mutually
// exclusive in practice; RequestID echoes the per-request id set by
// middleware so clients can quote it in bug reports.
type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Error     any       `json:"error,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
	}
}

func Error[T any](ctx *gin.Context, status int, message string, err any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// OK writes a 200 envelope.
func OK[T any](ctx *gin.Context, data T, message string) {
	ctx.JSON(http.StatusOK, Success(ctx, http.StatusOK, data, message))
}

// Created writes a 201 envelope.
func Created[T any](ctx *gin.Context, data T, message string) {
	ctx.JSON(http.StatusCreated, Success(ctx, http.StatusCreated, data, message))
}

// Fail writes an error envelope and stops further handlers.
func Fail(ctx *gin.Context, status int, message string, err any) {
	ctx.AbortWithStatusJSON(status, Error[any](ctx, status, message, err))
}
