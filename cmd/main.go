package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/technurture/backend/config"
	"github.com/technurture/backend/internal/container"
	"github.com/technurture/backend/internal/interface/middleware"
	"github.com/technurture/backend/internal/router"
	"github.com/technurture/backend/pkg/helpers"
	"github.com/technurture/backend/pkg/mailer"
	"github.com/technurture/backend/pkg/media"
	"github.com/technurture/backend/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Storage backend: mongo, postgres, or memory depending on env
	store, err := container.ResolveStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	container.SetStorage(store)
	defer func() { _ = store.Close(context.Background()) }()

	// Schema migrations only apply to the relational backend
	if cfg.MongoURI == "" && cfg.PostgresDSN() != "" {
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	// Redis backs the session half of the hybrid admin gate; optional
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL))

	// At-rest encryption helper for anything sensitive services stash
	enc, err := helpers.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("invalid ENCRYPTION_KEY: %v", err)
	}
	container.SetEncryptor(enc)

	// Lead notifications go through RabbitMQ when configured
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.NotifyQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, lead notifications disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// Blog search index
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable, blog search degrades to store scan")
		} else {
			container.SetES(es)
		}
	}

	container.SetUploader(buildUploader(ctx, cfg, logger))
	container.SetMailgun(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender))

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: cfg.Host + ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on %s:%s", cfg.Host, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// buildUploader picks the media host: Cloudinary when its triple is set,
// then a GCS bucket, then inline data URLs.
func buildUploader(ctx context.Context, cfg *config.Config, logger *logrus.Logger) media.Uploader {
	if cfg.CloudinaryName != "" && cfg.CloudinaryKey != "" && cfg.CloudinarySecret != "" {
		u, err := media.NewCloudinaryUploader(cfg.CloudinaryName, cfg.CloudinaryKey, cfg.CloudinarySecret, "technurture")
		if err == nil {
			logger.Info("media uploads served by cloudinary")
			return u
		}
		logger.WithError(err).Warn("cloudinary init failed")
	}
	if cfg.GCSBucket != "" {
		u, err := media.NewGCSUploader(ctx, cfg.GCSBucket, "uploads", cfg.GCSCredsPath)
		if err == nil {
			logger.Info("media uploads served by gcs")
			return u
		}
		logger.WithError(err).Warn("gcs init failed")
	}
	logger.Info("no media host configured, uploads return data URLs")
	return media.DataURLUploader{}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
