package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technurture/backend/config"
	"github.com/technurture/backend/internal/container"
	"github.com/technurture/backend/internal/infrastructure/memory"
	"github.com/technurture/backend/internal/interface/middleware"
	"github.com/technurture/backend/pkg/helpers"
	"github.com/technurture/backend/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// setupServer wires the full route table against the in-memory backend,
// the same way main does minus the external collaborators.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	store, err := memory.NewStore("admin", "admin123")
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	container.SetConfig(config.Load())
	container.SetLogger(logger)
	container.SetStorage(store)
	container.SetJWT(helpers.NewJWTManager("test-secret", 15*time.Minute, time.Hour))

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RealIP())

	reg := NewRegistry(engine)
	InitModules(reg)
	reg.RegisterAll()
	return engine
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := container.GetJWT().GenerateAccessToken("1", "admin", "admin")
	require.NoError(t, err)
	return token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func doJSON(engine *gin.Engine, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestContactFlow(t *testing.T) {
	engine := setupServer(t)

	w, env := doJSON(engine, http.MethodPost, "/api/contact",
		`{"name":"Jane","email":"jane@example.com","message":"hello","newsletter":true}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	// validation failure names the offending field
	w, env = doJSON(engine, http.MethodPost, "/api/contact",
		`{"name":"Jane","email":"not-an-email","message":"hello"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), "email")

	// listing is admin only
	w, _ = doJSON(engine, http.MethodGet, "/api/contacts", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = doJSON(engine, http.MethodGet, "/api/contacts", "", adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	var contacts []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, "Jane", contacts[0]["name"])
	assert.Equal(t, float64(1), contacts[0]["newsletter"])
}

func TestEnrollmentFlow(t *testing.T) {
	engine := setupServer(t)

	w, _ := doJSON(engine, http.MethodPost, "/api/enrollment",
		`{"name":"Sam","email":"sam@example.com","course":"golang"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(engine, http.MethodPost, "/api/enrollment", `{"name":"Sam","email":"sam@example.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "course is required")

	w, env := doJSON(engine, http.MethodGet, "/api/enrollments", "", adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	var enrollments []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &enrollments))
	assert.Len(t, enrollments, 1)
}

func TestLoginFlow(t *testing.T) {
	engine := setupServer(t)

	w, _ := doJSON(engine, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := doJSON(engine, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		User         struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "admin", data.User.Username)
	assert.Equal(t, "admin", data.User.Role)
	assert.NotContains(t, string(env.Data), "password")

	// the issued access token works against protected routes
	w, _ = doJSON(engine, http.MethodGet, "/api/auth/me", "", data.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	// and the refresh token mints a fresh access token
	w, env = doJSON(engine, http.MethodPost, "/api/auth/refresh",
		fmt.Sprintf(`{"refreshToken":%q}`, data.RefreshToken), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "accessToken")

	// refresh endpoint rejects an access token
	w, _ = doJSON(engine, http.MethodPost, "/api/auth/refresh",
		fmt.Sprintf(`{"refreshToken":%q}`, data.AccessToken), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRateLimiting(t *testing.T) {
	engine := setupServer(t)

	attempt := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"admin","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, attempt("203.0.113.7"), "attempt %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, attempt("203.0.113.7"))

	// a different client is not locked out
	assert.Equal(t, http.StatusUnauthorized, attempt("203.0.113.8"))
}

func TestRegister(t *testing.T) {
	engine := setupServer(t)
	token := adminToken(t)

	w, _ := doJSON(engine, http.MethodPost, "/api/auth/register", `{"username":"eve","password":"Str0ng!pass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "register requires auth")

	w, env := doJSON(engine, http.MethodPost, "/api/auth/register", `{"username":"eve","password":"weak"}`, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), "uppercase")

	w, _ = doJSON(engine, http.MethodPost, "/api/auth/register", `{"username":"eve","password":"Str0ng!pass"}`, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(engine, http.MethodPost, "/api/auth/register", `{"username":"eve","password":"Str0ng!pass"}`, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	// newly created user is not an admin
	userToken, _, err := container.GetJWT().GenerateAccessToken("2", "eve", "user")
	require.NoError(t, err)
	w, _ = doJSON(engine, http.MethodGet, "/api/contacts", "", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBlogLifecycle(t *testing.T) {
	engine := setupServer(t)
	token := adminToken(t)

	w, _ := doJSON(engine, http.MethodPost, "/api/blog",
		`{"title":"Draft post","content":"wip","author":"admin"}`, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(engine, http.MethodPost, "/api/blog",
		`{"title":"Go concurrency","content":"goroutines and channels","author":"admin","published":true}`, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	// anonymous readers only see published posts when they ask for them
	w, env = doJSON(engine, http.MethodGet, "/api/blog?published=true", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var posts []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Go concurrency", posts[0]["title"])

	w, _ = doJSON(engine, http.MethodGet, "/api/blog?published=maybe", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// search falls back to a store scan with no search cluster wired
	w, env = doJSON(engine, http.MethodGet, "/api/blog/search?q=goroutines", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	posts = nil
	require.NoError(t, json.Unmarshal(env.Data, &posts))
	require.Len(t, posts, 1)

	w, _ = doJSON(engine, http.MethodGet, "/api/blog/search", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// partial update flips publication without touching content
	w, env = doJSON(engine, http.MethodPut, "/api/blog/"+created.ID, `{"published":false}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, float64(0), updated["published"])
	assert.Equal(t, "goroutines and channels", updated["content"])

	// writes are admin only
	w, _ = doJSON(engine, http.MethodDelete, "/api/blog/"+created.ID, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(engine, http.MethodDelete, "/api/blog/"+created.ID, "", token)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(engine, http.MethodGet, "/api/blog/"+created.ID, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFormLifecycle(t *testing.T) {
	engine := setupServer(t)
	token := adminToken(t)

	w, env := doJSON(engine, http.MethodPost, "/api/forms",
		`{"title":"Feedback","type":"survey","fields":[{"id":"rating","type":"number","label":"Rating","required":true}]}`, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var form struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &form))

	// public submission against the active form
	w, env = doJSON(engine, http.MethodPost, "/api/forms/"+form.ID+"/submit",
		`{"submissionData":{"rating":5,"comment":"nice"}}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, string(env.Data), `"formId":"`+form.ID+`"`)

	// deactivate and verify submissions stop
	w, _ = doJSON(engine, http.MethodPut, "/api/forms/"+form.ID, `{"active":false}`, token)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(engine, http.MethodPost, "/api/forms/"+form.ID+"/submit",
		`{"submissionData":{"rating":1}}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(engine, http.MethodPost, "/api/forms/999/submit", `{"submissionData":{}}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// submissions survive form deletion and stay filterable
	w, _ = doJSON(engine, http.MethodDelete, "/api/forms/"+form.ID, "", token)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(engine, http.MethodGet, "/api/submissions?formId="+form.ID, "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &subs))
	assert.Len(t, subs, 1)
}

func TestUpload(t *testing.T) {
	engine := setupServer(t)
	token := adminToken(t)

	makeUpload := func(contentType string) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="file"; filename="pic.png"`)
		hdr.Set("Content-Type", contentType)
		part, _ := mw.CreatePart(hdr)
		_, _ = part.Write([]byte("fake image bytes"))
		_ = mw.Close()
		return &buf, mw.FormDataContentType()
	}

	body, ct := makeUpload("image/png")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var res struct {
		URL          string `json:"url"`
		ResourceType string `json:"resource_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, strings.HasPrefix(res.URL, "data:image/png;base64,"), "no media host configured, data URL expected")
	assert.Equal(t, "image", res.ResourceType)

	// only images and videos are accepted
	body, ct = makeUpload("application/pdf")
	req = httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	// and only admins may upload
	body, ct = makeUpload("image/png")
	req = httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
