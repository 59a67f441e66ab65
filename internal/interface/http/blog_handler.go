package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/technurture/backend/internal/domain/entity"
	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/pkg/helpers"
	"github.com/technurture/backend/pkg/response"
	"github.com/technurture/backend/pkg/validation"
)

type BlogHandler struct {
	Store   repository.Storage
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewBlogHandler(store repository.Storage, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *BlogHandler {
	return &BlogHandler{Store: store, ES: es, ESIndex: esIndex, Logger: logger}
}

type blogRequest struct {
	Title        string `json:"title" binding:"required,max=500"`
	Content      string `json:"content" binding:"required"`
	Excerpt      string `json:"excerpt"`
	Category     string `json:"category" binding:"omitempty,max=100"`
	Author       string `json:"author" binding:"required,max=255"`
	AuthorAvatar string `json:"authorAvatar" binding:"omitempty,max=500"`
	Image        string `json:"image" binding:"omitempty,max=500"`
	ReadTime     string `json:"readTime" binding:"omitempty,max=50"`
	Published    bool   `json:"published"`
}

type blogUpdateRequest struct {
	Title        *string `json:"title" binding:"omitempty,max=500"`
	Content      *string `json:"content"`
	Excerpt      *string `json:"excerpt"`
	Category     *string `json:"category" binding:"omitempty,max=100"`
	Author       *string `json:"author" binding:"omitempty,max=255"`
	AuthorAvatar *string `json:"authorAvatar" binding:"omitempty,max=500"`
	Image        *string `json:"image" binding:"omitempty,max=500"`
	ReadTime     *string `json:"readTime" binding:"omitempty,max=50"`
	Published    *bool   `json:"published"`
}

// flagParam parses an optional true/false query parameter into a filter.
func flagParam(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid "+name+" filter", gin.H{name: "must be true or false"})
		return nil, false
	}
	return &v, true
}

// List returns posts newest first, optionally filtered by ?published=.
// Public; the frontend asks for published=true, the admin UI for everything.
func (h *BlogHandler) List(c *gin.Context) {
	published, ok := flagParam(c, "published")
	if !ok {
		return
	}
	posts, err := h.Store.GetBlogPosts(c.Request.Context(), published)
	if err != nil {
		h.Logger.WithError(err).Error("list blog posts failed")
		response.Fail(c, http.StatusInternalServerError, "could not load blog posts", nil)
		return
	}
	if posts == nil {
		posts = []entity.BlogPost{}
	}
	response.OK(c, posts, "blog posts")
}

func (h *BlogHandler) Get(c *gin.Context) {
	post, err := h.Store.GetBlogPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "blog post not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get blog post failed")
		response.Fail(c, http.StatusInternalServerError, "could not load blog post", nil)
		return
	}
	response.OK(c, post, "blog post")
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	post := &entity.BlogPost{
		Title:        req.Title,
		Content:      req.Content,
		Excerpt:      req.Excerpt,
		Category:     req.Category,
		Author:       req.Author,
		AuthorAvatar: req.AuthorAvatar,
		Image:        req.Image,
		ReadTime:     req.ReadTime,
		Published:    boolToFlag(req.Published),
	}
	if err := h.Store.CreateBlogPost(c.Request.Context(), post); err != nil {
		h.Logger.WithError(err).Error("create blog post failed")
		response.Fail(c, http.StatusInternalServerError, "could not save blog post", nil)
		return
	}
	h.indexPost(post)
	response.Created(c, post, "blog post created")
}

func (h *BlogHandler) Update(c *gin.Context) {
	var req blogUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	upd := entity.BlogPostUpdate{
		Title:        req.Title,
		Content:      req.Content,
		Excerpt:      req.Excerpt,
		Category:     req.Category,
		Author:       req.Author,
		AuthorAvatar: req.AuthorAvatar,
		Image:        req.Image,
		ReadTime:     req.ReadTime,
	}
	if req.Published != nil {
		v := boolToFlag(*req.Published)
		upd.Published = &v
	}
	post, err := h.Store.UpdateBlogPost(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "blog post not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update blog post failed")
		response.Fail(c, http.StatusInternalServerError, "could not update blog post", nil)
		return
	}
	h.indexPost(post)
	response.OK(c, post, "blog post updated")
}

func (h *BlogHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Store.DeleteBlogPost(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "blog post not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete blog post failed")
		response.Fail(c, http.StatusInternalServerError, "could not delete blog post", nil)
		return
	}
	if h.ES != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := helpers.ESDeleteDocument(ctx, h.ES, h.ESIndex, id); err != nil {
				h.Logger.WithError(err).WithField("id", id).Warn("es delete failed")
			}
		}()
	}
	response.OK(c, gin.H{"deleted": true}, "blog post deleted")
}

// Search finds published posts matching q. Uses Elasticsearch when wired,
// otherwise a linear scan over the store so the endpoint still works on
// small deployments.
func (h *BlogHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Fail(c, http.StatusBadRequest, "missing search query", gin.H{"q": "is required"})
		return
	}

	publishedOnly := true
	posts, err := h.Store.GetBlogPosts(c.Request.Context(), &publishedOnly)
	if err != nil {
		h.Logger.WithError(err).Error("search blog posts failed")
		response.Fail(c, http.StatusInternalServerError, "search failed", nil)
		return
	}

	var results []entity.BlogPost
	if h.ES != nil {
		ids, err := helpers.ESSearchIDs(c.Request.Context(), h.ES, h.ESIndex, q,
			[]string{"title^3", "excerpt^2", "content", "category"},
			map[string]any{"published": 1}, 25)
		if err != nil {
			h.Logger.WithError(err).Warn("es search failed, falling back to scan")
			results = scanPosts(posts, q)
		} else {
			byID := make(map[string]entity.BlogPost, len(posts))
			for _, p := range posts {
				byID[p.ID] = p
			}
			for _, id := range ids {
				if p, ok := byID[id]; ok {
					results = append(results, p)
				}
			}
		}
	} else {
		results = scanPosts(posts, q)
	}
	if results == nil {
		results = []entity.BlogPost{}
	}
	response.OK(c, results, "search results")
}

func scanPosts(posts []entity.BlogPost, q string) []entity.BlogPost {
	q = strings.ToLower(q)
	var out []entity.BlogPost
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Excerpt), q) ||
			strings.Contains(strings.ToLower(p.Content), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// indexPost mirrors the post into the search index, best effort.
func (h *BlogHandler) indexPost(post *entity.BlogPost) {
	if h.ES == nil {
		return
	}
	doc := map[string]any{
		"title":      post.Title,
		"excerpt":    post.Excerpt,
		"content":    post.Content,
		"category":   post.Category,
		"author":     post.Author,
		"published":  post.Published,
		"created_at": post.CreatedAt.Format(time.RFC3339Nano),
	}
	id := post.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := helpers.ESIndexDocument(ctx, h.ES, h.ESIndex, id, doc); err != nil {
			h.Logger.WithError(err).WithField("id", id).Warn("es index failed")
		}
	}()
}
