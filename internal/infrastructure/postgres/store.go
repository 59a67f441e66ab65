// Package postgres implements the storage contract on a relational schema,
// table-per-entity with serial ids and created_at ordering.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/technurture/backend/internal/domain/entity"
	"github.com/technurture/backend/internal/domain/repository"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ repository.Storage = (*Store)(nil)

// numericID parses an opaque id back into the serial key. Non-numeric input
// can never match a row, so it maps to ErrNotFound rather than a query error.
func numericID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, repository.ErrNotFound
	}
	return n, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*entity.User, error) {
	key, err := numericID(id)
	if err != nil {
		return nil, err
	}
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, username, password, role, created_at
		FROM users WHERE id = $1
	`, key))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, username, password, role, created_at
		FROM users WHERE username = $1
	`, username))
}

func (s *Store) scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u  entity.User
		id int64
	)
	if err := row.Scan(&id, &u.Username, &u.Password, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.ID = strconv.FormatInt(id, 10)
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Username, u.Password, u.Role).Scan(&id, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateUsername
		}
		return err
	}
	u.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Store) CreateContact(ctx context.Context, c *entity.Contact) error {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO contacts (name, email, phone, service, message, newsletter)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, c.Name, c.Email, c.Phone, c.Service, c.Message, c.Newsletter).Scan(&id, &c.CreatedAt)
	if err != nil {
		return err
	}
	c.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Store) GetContacts(ctx context.Context) ([]entity.Contact, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, service, message, newsletter, created_at
		FROM contacts ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.Contact
	for rows.Next() {
		var (
			c  entity.Contact
			id int64
		)
		if err := rows.Scan(&id, &c.Name, &c.Email, &c.Phone, &c.Service, &c.Message, &c.Newsletter, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.ID = strconv.FormatInt(id, 10)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateEnrollment(ctx context.Context, e *entity.Enrollment) error {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO enrollments (name, email, phone, course, experience, motivation)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, e.Name, e.Email, e.Phone, e.Course, e.Experience, e.Motivation).Scan(&id, &e.CreatedAt)
	if err != nil {
		return err
	}
	e.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Store) GetEnrollments(ctx context.Context) ([]entity.Enrollment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, course, experience, motivation, created_at
		FROM enrollments ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.Enrollment
	for rows.Next() {
		var (
			e  entity.Enrollment
			id int64
		)
		if err := rows.Scan(&id, &e.Name, &e.Email, &e.Phone, &e.Course, &e.Experience, &e.Motivation, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID = strconv.FormatInt(id, 10)
		out = append(out, e)
	}
	return out, rows.Err()
}

const blogColumns = `id, title, content, excerpt, category, author, author_avatar, image, read_time, published, created_at, updated_at`

func scanBlogPost(row pgx.Row) (*entity.BlogPost, error) {
	var (
		p  entity.BlogPost
		id int64
	)
	err := row.Scan(&id, &p.Title, &p.Content, &p.Excerpt, &p.Category, &p.Author,
		&p.AuthorAvatar, &p.Image, &p.ReadTime, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	p.ID = strconv.FormatInt(id, 10)
	return &p, nil
}

func (s *Store) CreateBlogPost(ctx context.Context, p *entity.BlogPost) error {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO blog_posts (title, content, excerpt, category, author, author_avatar, image, read_time, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Content, p.Excerpt, p.Category, p.Author, p.AuthorAvatar, p.Image, p.ReadTime, p.Published).
		Scan(&id, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}
	p.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Store) GetBlogPosts(ctx context.Context, published *bool) ([]entity.BlogPost, error) {
	query := fmt.Sprintf(`SELECT %s FROM blog_posts`, blogColumns)
	args := []any{}
	if published != nil {
		query += ` WHERE published = $1`
		args = append(args, flagValue(*published))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) GetBlogPost(ctx context.Context, id string) (*entity.BlogPost, error) {
	key, err := numericID(id)
	if err != nil {
		return nil, err
	}
	return scanBlogPost(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM blog_posts WHERE id = $1`, blogColumns), key))
}

func (s *Store) UpdateBlogPost(ctx context.Context, id string, upd entity.BlogPostUpdate) (*entity.BlogPost, error) {
	key, err := numericID(id)
	if err != nil {
		return nil, err
	}
	current, err := scanBlogPost(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM blog_posts WHERE id = $1`, blogColumns), key))
	if err != nil {
		return nil, err
	}
	upd.Apply(current)
	return scanBlogPost(s.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE blog_posts
		SET title=$1, content=$2, excerpt=$3, category=$4, author=$5,
		    author_avatar=$6, image=$7, read_time=$8, published=$9, updated_at=now()
		WHERE id=$10
		RETURNING %s
	`, blogColumns), current.Title, current.Content, current.Excerpt, current.Category,
		current.Author, current.AuthorAvatar, current.Image, current.ReadTime, current.Published, key))
}

func (s *Store) DeleteBlogPost(ctx context.Context, id string) error {
	key, err := numericID(id)
	if err != nil {
		return err
	}
	res, err := s.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, key)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

const formColumns = `id, title, description, type, fields, active, created_at, updated_at`

func scanDynamicForm(row pgx.Row) (*entity.DynamicForm, error) {
	var (
		f      entity.DynamicForm
		id     int64
		fields []byte
	)
	err := row.Scan(&id, &f.Title, &f.Description, &f.Type, &fields, &f.Active, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(fields, &f.Fields); err != nil {
		return nil, fmt.Errorf("decode form fields: %w", err)
	}
	f.ID = strconv.FormatInt(id, 10)
	return &f, nil
}

func (s *Store) CreateDynamicForm(ctx context.Context, f *entity.DynamicForm) error {
	fields, err := json.Marshal(f.Fields)
	if err != nil {
		return fmt.Errorf("encode form fields: %w", err)
	}
	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO dynamic_forms (title, description, type, fields, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, f.Title, f.Description, f.Type, fields, f.Active).Scan(&id, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return err
	}
	f.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Store) GetDynamicForms(ctx context.Context, active *bool) ([]entity.DynamicForm, error) {
	query := fmt.Sprintf(`SELECT %s FROM dynamic_forms`, formColumns)
	args := []any{}
	if active != nil {
		query += ` WHERE active = $1`
		args = append(args, flagValue(*active))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.DynamicForm
	for rows.Next() {
		f, err := scanDynamicForm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (s *Store) GetDynamicForm(ctx context.Context, id string) (*entity.DynamicForm, error) {
	key, err := numericID(id)
	if err != nil {
		return nil, err
	}
	return scanDynamicForm(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM dynamic_forms WHERE id = $1`, formColumns), key))
}

func (s *Store) UpdateDynamicForm(ctx context.Context, id string, upd entity.DynamicFormUpdate) (*entity.DynamicForm, error) {
	key, err := numericID(id)
	if err != nil {
		return nil, err
	}
	current, err := scanDynamicForm(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM dynamic_forms WHERE id = $1`, formColumns), key))
	if err != nil {
		return nil, err
	}
	upd.Apply(current)
	fields, err := json.Marshal(current.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode form fields: %w", err)
	}
	return scanDynamicForm(s.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE dynamic_forms
		SET title=$1, description=$2, type=$3, fields=$4, active=$5, updated_at=now()
		WHERE id=$6
		RETURNING %s
	`, formColumns), current.Title, current.Description, current.Type, fields, current.Active, key))
}

func (s *Store) DeleteDynamicForm(ctx context.Context, id string) error {
	key, err := numericID(id)
	if err != nil {
		return err
	}
	// Submissions keep a weak reference; no cascade.
	res, err := s.pool.Exec(ctx, `DELETE FROM dynamic_forms WHERE id = $1`, key)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) CreateFormSubmission(ctx context.Context, sub *entity.FormSubmission) error {
	data, err := json.Marshal(sub.SubmissionData)
	if err != nil {
		return fmt.Errorf("encode submission data: %w", err)
	}
	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO form_submissions (form_id, submission_data)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, sub.FormID, data).Scan(&id, &sub.CreatedAt)
	if err != nil {
		return err
	}
	sub.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Store) GetFormSubmissions(ctx context.Context, formID string) ([]entity.FormSubmission, error) {
	query := `SELECT id, form_id, submission_data, created_at FROM form_submissions`
	args := []any{}
	if formID != "" {
		query += ` WHERE form_id = $1`
		args = append(args, formID)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.FormSubmission
	for rows.Next() {
		var (
			sub  entity.FormSubmission
			id   int64
			data []byte
		)
		if err := rows.Scan(&id, &sub.FormID, &data, &sub.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &sub.SubmissionData); err != nil {
			return nil, fmt.Errorf("decode submission data: %w", err)
		}
		sub.ID = strconv.FormatInt(id, 10)
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func flagValue(b bool) int {
	if b {
		return 1
	}
	return 0
}
