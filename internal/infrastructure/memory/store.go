// Package memory implements the storage contract with process-local maps.
// It exists for development and tests: state is lost at exit and is not
// shared across instances.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/technurture/backend/internal/domain/entity"
	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/pkg/helpers"
)

type Store struct {
	mu sync.RWMutex

	users       map[int]entity.User
	contacts    map[int]entity.Contact
	enrollments map[int]entity.Enrollment
	posts       map[int]entity.BlogPost
	forms       map[int]entity.DynamicForm
	submissions map[int]entity.FormSubmission

	nextUser       int
	nextContact    int
	nextEnrollment int
	nextPost       int
	nextForm       int
	nextSubmission int
}

// NewStore builds an empty store. When adminUsername is non-empty a default
// admin account is seeded with the given password (development convenience;
// the other backends rely on the createadmin tool instead).
func NewStore(adminUsername, adminPassword string) (*Store, error) {
	s := &Store{
		users:          make(map[int]entity.User),
		contacts:       make(map[int]entity.Contact),
		enrollments:    make(map[int]entity.Enrollment),
		posts:          make(map[int]entity.BlogPost),
		forms:          make(map[int]entity.DynamicForm),
		submissions:    make(map[int]entity.FormSubmission),
		nextUser:       1,
		nextContact:    1,
		nextEnrollment: 1,
		nextPost:       1,
		nextForm:       1,
		nextSubmission: 1,
	}
	if adminUsername != "" {
		hash, err := helpers.HashPassword(adminPassword)
		if err != nil {
			return nil, err
		}
		id := s.nextUser
		s.nextUser++
		s.users[id] = entity.User{
			ID:        strconv.Itoa(id),
			Username:  adminUsername,
			Password:  hash,
			Role:      entity.RoleAdmin,
			CreatedAt: time.Now().UTC(),
		}
	}
	return s, nil
}

var _ repository.Storage = (*Store)(nil)

func (s *Store) GetUser(_ context.Context, id string) (*entity.User, error) {
	key, err := strconv.Atoi(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	id := s.nextUser
	s.nextUser++
	u.ID = strconv.Itoa(id)
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	u.CreatedAt = time.Now().UTC()
	s.users[id] = *u
	return nil
}

func (s *Store) CreateContact(_ context.Context, c *entity.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextContact
	s.nextContact++
	c.ID = strconv.Itoa(id)
	c.CreatedAt = time.Now().UTC()
	s.contacts[id] = *c
	return nil
}

func (s *Store) GetContacts(_ context.Context) ([]entity.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, c)
	}
	sortNewestFirst(out, func(c entity.Contact) (time.Time, string) { return c.CreatedAt, c.ID })
	return out, nil
}

func (s *Store) CreateEnrollment(_ context.Context, e *entity.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextEnrollment
	s.nextEnrollment++
	e.ID = strconv.Itoa(id)
	e.CreatedAt = time.Now().UTC()
	s.enrollments[id] = *e
	return nil
}

func (s *Store) GetEnrollments(_ context.Context) ([]entity.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Enrollment, 0, len(s.enrollments))
	for _, e := range s.enrollments {
		out = append(out, e)
	}
	sortNewestFirst(out, func(e entity.Enrollment) (time.Time, string) { return e.CreatedAt, e.ID })
	return out, nil
}

func (s *Store) CreateBlogPost(_ context.Context, p *entity.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextPost
	s.nextPost++
	p.ID = strconv.Itoa(id)
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.posts[id] = *p
	return nil
}

func (s *Store) GetBlogPosts(_ context.Context, published *bool) ([]entity.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.BlogPost, 0, len(s.posts))
	for _, p := range s.posts {
		if published != nil && (p.Published == 1) != *published {
			continue
		}
		out = append(out, p)
	}
	sortNewestFirst(out, func(p entity.BlogPost) (time.Time, string) { return p.CreatedAt, p.ID })
	return out, nil
}

func (s *Store) GetBlogPost(_ context.Context, id string) (*entity.BlogPost, error) {
	key, err := strconv.Atoi(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *Store) UpdateBlogPost(_ context.Context, id string, upd entity.BlogPostUpdate) (*entity.BlogPost, error) {
	key, err := strconv.Atoi(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	upd.Apply(&p)
	p.UpdatedAt = time.Now().UTC()
	s.posts[key] = p
	return &p, nil
}

func (s *Store) DeleteBlogPost(_ context.Context, id string) error {
	key, err := strconv.Atoi(id)
	if err != nil {
		return repository.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[key]; !ok {
		return repository.ErrNotFound
	}
	delete(s.posts, key)
	return nil
}

func (s *Store) CreateDynamicForm(_ context.Context, f *entity.DynamicForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextForm
	s.nextForm++
	f.ID = strconv.Itoa(id)
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	s.forms[id] = *f
	return nil
}

func (s *Store) GetDynamicForms(_ context.Context, active *bool) ([]entity.DynamicForm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.DynamicForm, 0, len(s.forms))
	for _, f := range s.forms {
		if active != nil && (f.Active == 1) != *active {
			continue
		}
		out = append(out, f)
	}
	sortNewestFirst(out, func(f entity.DynamicForm) (time.Time, string) { return f.CreatedAt, f.ID })
	return out, nil
}

func (s *Store) GetDynamicForm(_ context.Context, id string) (*entity.DynamicForm, error) {
	key, err := strconv.Atoi(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.forms[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (s *Store) UpdateDynamicForm(_ context.Context, id string, upd entity.DynamicFormUpdate) (*entity.DynamicForm, error) {
	key, err := strconv.Atoi(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	upd.Apply(&f)
	f.UpdatedAt = time.Now().UTC()
	s.forms[key] = f
	return &f, nil
}

func (s *Store) DeleteDynamicForm(_ context.Context, id string) error {
	key, err := strconv.Atoi(id)
	if err != nil {
		return repository.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[key]; !ok {
		return repository.ErrNotFound
	}
	// Submissions keep a weak reference and are intentionally left in place.
	delete(s.forms, key)
	return nil
}

func (s *Store) CreateFormSubmission(_ context.Context, sub *entity.FormSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubmission
	s.nextSubmission++
	sub.ID = strconv.Itoa(id)
	sub.CreatedAt = time.Now().UTC()
	s.submissions[id] = *sub
	return nil
}

func (s *Store) GetFormSubmissions(_ context.Context, formID string) ([]entity.FormSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.FormSubmission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		if formID != "" && sub.FormID != formID {
			continue
		}
		out = append(out, sub)
	}
	sortNewestFirst(out, func(sub entity.FormSubmission) (time.Time, string) { return sub.CreatedAt, sub.ID })
	return out, nil
}

func (s *Store) Close(context.Context) error { return nil }

// sortNewestFirst orders by creation time descending, breaking timestamp
// ties by id so list order is deterministic for records created within the
// same clock tick.
func sortNewestFirst[T any](items []T, key func(T) (time.Time, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		ni, _ := strconv.Atoi(idi)
		nj, _ := strconv.Atoi(idj)
		return ni > nj
	})
}
