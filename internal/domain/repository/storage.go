package repository

import (
	"context"
	"errors"

	"github.com/technurture/backend/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the referenced id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned by CreateUser when the username is taken.
	ErrDuplicateUsername = errors.New("username already exists")
)

// Storage is the single persistence contract the rest of the server is
// written against. Three interchangeable implementations exist (in-memory,
// PostgreSQL, MongoDB); exactly one is selected at process start.
//
// Common guarantees:
//   - list operations return newest-first by creation time
//   - the optional *bool filters narrow by the published/active flag
//   - updates refresh UpdatedAt and return ErrNotFound for missing ids
//   - ids are opaque strings; callers must not assume a numeric format
type Storage interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	CreateUser(ctx context.Context, u *entity.User) error

	CreateContact(ctx context.Context, c *entity.Contact) error
	GetContacts(ctx context.Context) ([]entity.Contact, error)

	CreateEnrollment(ctx context.Context, e *entity.Enrollment) error
	GetEnrollments(ctx context.Context) ([]entity.Enrollment, error)

	CreateBlogPost(ctx context.Context, p *entity.BlogPost) error
	GetBlogPosts(ctx context.Context, published *bool) ([]entity.BlogPost, error)
	GetBlogPost(ctx context.Context, id string) (*entity.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id string, upd entity.BlogPostUpdate) (*entity.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error

	CreateDynamicForm(ctx context.Context, f *entity.DynamicForm) error
	GetDynamicForms(ctx context.Context, active *bool) ([]entity.DynamicForm, error)
	GetDynamicForm(ctx context.Context, id string) (*entity.DynamicForm, error)
	UpdateDynamicForm(ctx context.Context, id string, upd entity.DynamicFormUpdate) (*entity.DynamicForm, error)
	DeleteDynamicForm(ctx context.Context, id string) error

	CreateFormSubmission(ctx context.Context, s *entity.FormSubmission) error
	// GetFormSubmissions lists all submissions, or only those for formID when
	// it is non-empty.
	GetFormSubmissions(ctx context.Context, formID string) ([]entity.FormSubmission, error)

	// Close releases backend resources. Safe to call once at shutdown.
	Close(ctx context.Context) error
}
