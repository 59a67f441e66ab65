package container

import (
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/technurture/backend/config"
	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/pkg/helpers"
	"github.com/technurture/backend/pkg/mailer"
	"github.com/technurture/backend/pkg/media"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	encryptor  *helpers.Encryptor

	mailgunClient *mailer.Mailgun
	rabbitPub     *helpers.RabbitPublisher
	esClient      *elasticsearch.Client
	uploader      media.Uploader
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetRedis(r *redis.Client)   { redisClient = r }
func GetRedis() *redis.Client    { return redisClient }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	// ephemeral secret, good enough for tests and one-off tooling
	jwtManager = helpers.NewJWTManager("", 15*time.Minute, 7*24*time.Hour)
	return jwtManager
}

func SetEncryptor(e *helpers.Encryptor)       { encryptor = e }
func GetEncryptor() *helpers.Encryptor        { return encryptor }
func SetMailgun(m *mailer.Mailgun)            { mailgunClient = m }
func GetMailgun() *mailer.Mailgun             { return mailgunClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetUploader(u media.Uploader)            { uploader = u }
func GetUploader() media.Uploader             { return uploader }

// SetStorage overrides the resolved backend, mainly for tests.
func SetStorage(s repository.Storage) {
	storageOnce.Do(func() {})
	store = s
	storeErr = nil
}
func GetStorage() repository.Storage { return store }
