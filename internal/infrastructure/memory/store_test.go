package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technurture/backend/internal/domain/entity"
	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/pkg/helpers"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore("", "")
	require.NoError(t, err)
	return s
}

func TestNewStoreSeedsAdmin(t *testing.T) {
	s, err := NewStore("admin", "admin123")
	require.NoError(t, err)

	u, err := s.GetUserByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "admin123"))
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &entity.User{Username: "alice", Password: "x"}))
	err := s.CreateUser(ctx, &entity.User{Username: "alice", Password: "y"})
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestCreateUserDefaultsRole(t *testing.T) {
	s := newTestStore(t)
	u := &entity.User{Username: "bob", Password: "x"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)
}

func TestGetUserUnknownID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetUser(context.Background(), "999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.GetUser(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestContactsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, s.CreateContact(ctx, &entity.Contact{Name: name, Email: name + "@example.com", Message: "hi"}))
	}

	got, err := s.GetContacts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "third", got[0].Name)
	assert.Equal(t, "first", got[2].Name)
}

func TestBlogPostPublishedFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBlogPost(ctx, &entity.BlogPost{Title: "draft", Content: "c", Author: "a"}))
	require.NoError(t, s.CreateBlogPost(ctx, &entity.BlogPost{Title: "live", Content: "c", Author: "a", Published: 1}))

	published := true
	got, err := s.GetBlogPosts(ctx, &published)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "live", got[0].Title)

	published = false
	got, err = s.GetBlogPosts(ctx, &published)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "draft", got[0].Title)

	got, err = s.GetBlogPosts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUpdateBlogPostPartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &entity.BlogPost{Title: "before", Content: "body", Author: "a"}
	require.NoError(t, s.CreateBlogPost(ctx, p))

	title := "after"
	pub := 1
	got, err := s.UpdateBlogPost(ctx, p.ID, entity.BlogPostUpdate{Title: &title, Published: &pub})
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, 1, got.Published)
	assert.Equal(t, "body", got.Content, "untouched fields keep their value")
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	_, err = s.UpdateBlogPost(ctx, "999", entity.BlogPostUpdate{Title: &title})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteBlogPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &entity.BlogPost{Title: "t", Content: "c", Author: "a"}
	require.NoError(t, s.CreateBlogPost(ctx, p))
	require.NoError(t, s.DeleteBlogPost(ctx, p.ID))

	_, err := s.GetBlogPost(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBlogPost(ctx, p.ID), repository.ErrNotFound)
}

func TestDynamicFormActiveFilterAndUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	on := &entity.DynamicForm{Title: "on", Type: "survey", Active: 1}
	off := &entity.DynamicForm{Title: "off", Type: "survey", Active: 0}
	require.NoError(t, s.CreateDynamicForm(ctx, on))
	require.NoError(t, s.CreateDynamicForm(ctx, off))

	active := true
	got, err := s.GetDynamicForms(ctx, &active)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "on", got[0].Title)

	fields := []entity.FormField{{ID: "email", Type: "email", Label: "Email", Required: true}}
	updated, err := s.UpdateDynamicForm(ctx, off.ID, entity.DynamicFormUpdate{Fields: &fields})
	require.NoError(t, err)
	require.Len(t, updated.Fields, 1)
	assert.Equal(t, "email", updated.Fields[0].ID)
	assert.Equal(t, "off", updated.Title)
}

func TestSubmissionsSurviveFormDeletion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	form := &entity.DynamicForm{Title: "f", Type: "survey", Active: 1}
	require.NoError(t, s.CreateDynamicForm(ctx, form))

	sub := &entity.FormSubmission{FormID: form.ID, SubmissionData: map[string]any{"answer": "42"}}
	require.NoError(t, s.CreateFormSubmission(ctx, sub))
	require.NoError(t, s.DeleteDynamicForm(ctx, form.ID))

	got, err := s.GetFormSubmissions(ctx, form.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "42", got[0].SubmissionData["answer"])
}

func TestSubmissionsFilterByFormID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateFormSubmission(ctx, &entity.FormSubmission{FormID: "1", SubmissionData: map[string]any{"n": 1}}))
	require.NoError(t, s.CreateFormSubmission(ctx, &entity.FormSubmission{FormID: "2", SubmissionData: map[string]any{"n": 2}}))
	require.NoError(t, s.CreateFormSubmission(ctx, &entity.FormSubmission{FormID: "1", SubmissionData: map[string]any{"n": 3}}))

	got, err := s.GetFormSubmissions(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := s.GetFormSubmissions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
