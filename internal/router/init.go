package router

import (
	"time"

	"github.com/technurture/backend/internal/application"
	"github.com/technurture/backend/internal/container"
	handlers "github.com/technurture/backend/internal/interface/http"
	"github.com/technurture/backend/internal/interface/middleware"
	"github.com/technurture/backend/internal/router/modules"
)

// Login throttling per client IP: 5 failures lock the IP out for 15
// minutes; counters are swept every 5 minutes.
const (
	loginMaxAttempts = 5
	loginWindow      = 15 * time.Minute
	loginSweepEvery  = 5 * time.Minute
)

// InitModules builds every feature module from the container singletons and
// registers it. Called once during startup, after the container is filled.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	store := container.GetStorage()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	jwt := container.GetJWT()
	pub := container.GetRabbitPub()

	authGate := middleware.RequireAuth(rdb, jwt)

	limiter := middleware.NewLoginRateLimiter(loginMaxAttempts, loginWindow)
	limiter.StartSweeper(loginSweepEvery)

	authSvc := application.NewAuthService(store, jwt, rdb, logger)
	authHandler := handlers.NewAuthHandler(authSvc, limiter, logger, cfg.CookieDomain, cfg.CookieSecure)
	r.Add(modules.NewAuthModule(authHandler, jwt, limiter, authGate))

	contactHandler := handlers.NewContactHandler(store, pub, logger)
	enrollmentHandler := handlers.NewEnrollmentHandler(store, pub, logger)
	r.Add(modules.NewLeadModule(contactHandler, enrollmentHandler, authGate))

	blogHandler := handlers.NewBlogHandler(store, container.GetES(), cfg.ESBlogIndex, logger)
	r.Add(modules.NewBlogModule(blogHandler, authGate))

	formHandler := handlers.NewFormHandler(store, pub, logger)
	r.Add(modules.NewFormModule(formHandler, authGate))

	uploadHandler := handlers.NewUploadHandler(container.GetUploader(), cfg.MaxUploadBytes, logger)
	r.Add(modules.NewUploadModule(uploadHandler, authGate))
}
