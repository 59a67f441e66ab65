// Package mongodb implements the storage contract on a document database,
// collection-per-entity with document-native ids.
package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/technurture/backend/internal/domain/entity"
	"github.com/technurture/backend/internal/domain/repository"
)

type Store struct {
	client *mongo.Client

	users       *mongo.Collection
	contacts    *mongo.Collection
	enrollments *mongo.Collection
	posts       *mongo.Collection
	forms       *mongo.Collection
	submissions *mongo.Collection
}

// NewStore connects, verifies connectivity, and ensures the username unique
// index so duplicate users are rejected at the database even when two
// requests race past the route-level pre-check.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	db := client.Database(database)
	s := &Store{
		client:      client,
		users:       db.Collection("users"),
		contacts:    db.Collection("contacts"),
		enrollments: db.Collection("enrollments"),
		posts:       db.Collection("blog_posts"),
		forms:       db.Collection("dynamic_forms"),
		submissions: db.Collection("form_submissions"),
	}
	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

var _ repository.Storage = (*Store)(nil)

var sortNewestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

// objectID parses an opaque id; malformed input can never reference a
// document, so it maps to ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

// Document shapes mirror the entities but keep _id in its native form.

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDoc) entity() *entity.User {
	return &entity.User{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Password:  d.Password,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
	}
}

func (s *Store) GetUser(ctx context.Context, id string) (*entity.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d userDoc
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, mapFindErr(err)
	}
	return d.entity(), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	var d userDoc
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&d); err != nil {
		return nil, mapFindErr(err)
	}
	return d.entity(), nil
}

func (s *Store) CreateUser(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	u.CreatedAt = time.Now().UTC()
	res, err := s.users.InsertOne(ctx, userDoc{
		Username:  u.Username,
		Password:  u.Password,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateUsername
		}
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

type contactDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Phone      string             `bson:"phone,omitempty"`
	Service    string             `bson:"service,omitempty"`
	Message    string             `bson:"message"`
	Newsletter int                `bson:"newsletter"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (s *Store) CreateContact(ctx context.Context, c *entity.Contact) error {
	c.CreatedAt = time.Now().UTC()
	res, err := s.contacts.InsertOne(ctx, contactDoc{
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Service:    c.Service,
		Message:    c.Message,
		Newsletter: c.Newsletter,
		CreatedAt:  c.CreatedAt,
	})
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) GetContacts(ctx context.Context) ([]entity.Contact, error) {
	cur, err := s.contacts.Find(ctx, bson.M{}, sortNewestFirst)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	var out []entity.Contact
	for cur.Next(ctx) {
		var d contactDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, entity.Contact{
			ID: d.ID.Hex(), Name: d.Name, Email: d.Email, Phone: d.Phone,
			Service: d.Service, Message: d.Message, Newsletter: d.Newsletter,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, cur.Err()
}

type enrollmentDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Phone      string             `bson:"phone,omitempty"`
	Course     string             `bson:"course"`
	Experience string             `bson:"experience,omitempty"`
	Motivation string             `bson:"motivation,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (s *Store) CreateEnrollment(ctx context.Context, e *entity.Enrollment) error {
	e.CreatedAt = time.Now().UTC()
	res, err := s.enrollments.InsertOne(ctx, enrollmentDoc{
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		Course:     e.Course,
		Experience: e.Experience,
		Motivation: e.Motivation,
		CreatedAt:  e.CreatedAt,
	})
	if err != nil {
		return err
	}
	e.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) GetEnrollments(ctx context.Context) ([]entity.Enrollment, error) {
	cur, err := s.enrollments.Find(ctx, bson.M{}, sortNewestFirst)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	var out []entity.Enrollment
	for cur.Next(ctx) {
		var d enrollmentDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, entity.Enrollment{
			ID: d.ID.Hex(), Name: d.Name, Email: d.Email, Phone: d.Phone,
			Course: d.Course, Experience: d.Experience, Motivation: d.Motivation,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, cur.Err()
}

type blogPostDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Content      string             `bson:"content"`
	Excerpt      string             `bson:"excerpt,omitempty"`
	Category     string             `bson:"category,omitempty"`
	Author       string             `bson:"author"`
	AuthorAvatar string             `bson:"authorAvatar,omitempty"`
	Image        string             `bson:"image,omitempty"`
	ReadTime     string             `bson:"readTime,omitempty"`
	Published    int                `bson:"published"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d blogPostDoc) entity() *entity.BlogPost {
	return &entity.BlogPost{
		ID: d.ID.Hex(), Title: d.Title, Content: d.Content, Excerpt: d.Excerpt,
		Category: d.Category, Author: d.Author, AuthorAvatar: d.AuthorAvatar,
		Image: d.Image, ReadTime: d.ReadTime, Published: d.Published,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (s *Store) CreateBlogPost(ctx context.Context, p *entity.BlogPost) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := s.posts.InsertOne(ctx, blogPostDoc{
		Title: p.Title, Content: p.Content, Excerpt: p.Excerpt, Category: p.Category,
		Author: p.Author, AuthorAvatar: p.AuthorAvatar, Image: p.Image,
		ReadTime: p.ReadTime, Published: p.Published, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) GetBlogPosts(ctx context.Context, published *bool) ([]entity.BlogPost, error) {
	filter := bson.M{}
	if published != nil {
		filter["published"] = flagValue(*published)
	}
	cur, err := s.posts.Find(ctx, filter, sortNewestFirst)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	var out []entity.BlogPost
	for cur.Next(ctx) {
		var d blogPostDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, *d.entity())
	}
	return out, cur.Err()
}

func (s *Store) GetBlogPost(ctx context.Context, id string) (*entity.BlogPost, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d blogPostDoc
	if err := s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, mapFindErr(err)
	}
	return d.entity(), nil
}

func (s *Store) UpdateBlogPost(ctx context.Context, id string, upd entity.BlogPostUpdate) (*entity.BlogPost, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	setIf(set, "title", upd.Title)
	setIf(set, "content", upd.Content)
	setIf(set, "excerpt", upd.Excerpt)
	setIf(set, "category", upd.Category)
	setIf(set, "author", upd.Author)
	setIf(set, "authorAvatar", upd.AuthorAvatar)
	setIf(set, "image", upd.Image)
	setIf(set, "readTime", upd.ReadTime)
	if upd.Published != nil {
		set["published"] = *upd.Published
	}
	var d blogPostDoc
	err = s.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return d.entity(), nil
}

func (s *Store) DeleteBlogPost(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type dynamicFormDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Type        string             `bson:"type"`
	Fields      []entity.FormField `bson:"fields"`
	Active      int                `bson:"active"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d dynamicFormDoc) entity() *entity.DynamicForm {
	return &entity.DynamicForm{
		ID: d.ID.Hex(), Title: d.Title, Description: d.Description, Type: d.Type,
		Fields: d.Fields, Active: d.Active, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (s *Store) CreateDynamicForm(ctx context.Context, f *entity.DynamicForm) error {
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	res, err := s.forms.InsertOne(ctx, dynamicFormDoc{
		Title: f.Title, Description: f.Description, Type: f.Type,
		Fields: f.Fields, Active: f.Active, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		return err
	}
	f.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) GetDynamicForms(ctx context.Context, active *bool) ([]entity.DynamicForm, error) {
	filter := bson.M{}
	if active != nil {
		filter["active"] = flagValue(*active)
	}
	cur, err := s.forms.Find(ctx, filter, sortNewestFirst)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	var out []entity.DynamicForm
	for cur.Next(ctx) {
		var d dynamicFormDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, *d.entity())
	}
	return out, cur.Err()
}

func (s *Store) GetDynamicForm(ctx context.Context, id string) (*entity.DynamicForm, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d dynamicFormDoc
	if err := s.forms.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, mapFindErr(err)
	}
	return d.entity(), nil
}

func (s *Store) UpdateDynamicForm(ctx context.Context, id string, upd entity.DynamicFormUpdate) (*entity.DynamicForm, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	setIf(set, "title", upd.Title)
	setIf(set, "description", upd.Description)
	setIf(set, "type", upd.Type)
	if upd.Fields != nil {
		set["fields"] = *upd.Fields
	}
	if upd.Active != nil {
		set["active"] = *upd.Active
	}
	var d dynamicFormDoc
	err = s.forms.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if err != nil {
		return nil, mapFindErr(err)
	}
	return d.entity(), nil
}

func (s *Store) DeleteDynamicForm(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	// Submissions keep a weak reference; no cascade.
	res, err := s.forms.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type submissionDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	FormID         string             `bson:"formId"`
	SubmissionData map[string]any     `bson:"submissionData"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

func (s *Store) CreateFormSubmission(ctx context.Context, sub *entity.FormSubmission) error {
	sub.CreatedAt = time.Now().UTC()
	res, err := s.submissions.InsertOne(ctx, submissionDoc{
		FormID:         sub.FormID,
		SubmissionData: sub.SubmissionData,
		CreatedAt:      sub.CreatedAt,
	})
	if err != nil {
		return err
	}
	sub.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) GetFormSubmissions(ctx context.Context, formID string) ([]entity.FormSubmission, error) {
	filter := bson.M{}
	if formID != "" {
		filter["formId"] = formID
	}
	cur, err := s.submissions.Find(ctx, filter, sortNewestFirst)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	var out []entity.FormSubmission
	for cur.Next(ctx) {
		var d submissionDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, entity.FormSubmission{
			ID: d.ID.Hex(), FormID: d.FormID, SubmissionData: d.SubmissionData,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, cur.Err()
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func mapFindErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

func setIf(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}

func flagValue(b bool) int {
	if b {
		return 1
	}
	return 0
}
