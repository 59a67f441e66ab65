package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Host    string
	Port    string
	GinMode string

	// Storage selection. MongoURI wins over the relational settings; with
	// neither set the in-memory backend is used.
	MongoURI    string
	MongoDB     string
	PostgresURL string // full DSN; assembled from DB_* when empty

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Opt back into the legacy degrade-to-memory behavior when a configured
	// backend fails to initialize. Off by default: misconfigured production
	// storage should stop the process, not silently stop persisting.
	StorageFallbackMemory bool

	// Redis (sessions for the hybrid auth gate)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret     string // random per process when empty
	EncryptionKey string // hex, 32 bytes; random per process when empty
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Default admin seeded into the in-memory backend / createadmin tool
	AdminUsername string
	AdminPassword string

	// Cookies
	CookieDomain string
	CookieSecure bool

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Migrations (postgres backend only)
	MigrationsDir string

	// Media hosting: Cloudinary triple, then GCS bucket, then data-URL fallback
	CloudinaryName   string
	CloudinaryKey    string
	CloudinarySecret string
	GCSBucket        string
	GCSCredsPath     string // optional; empty means Application Default Credentials
	MaxUploadBytes   int64

	// Request body limit for JSON routes (blog content can be large)
	MaxBodyBytes int64

	// Lead notifications
	RabbitMQURL     string
	NotifyQueue     string
	MailgunDomain   string
	MailgunAPIKey   string
	MailgunSender   string
	NotifyRecipient string
	MailSendEnabled bool

	// Elasticsearch (blog search)
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESBlogIndex        string

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getint64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "technurture-api"),
		Env:     getenv("APP_ENV", "development"),
		Host:    getenv("HOST", "0.0.0.0"),
		Port:    getenv("PORT", "5000"),
		GinMode: getenv("GIN_MODE", "release"),

		MongoURI:    getenv("MONGODB_URI", ""),
		MongoDB:     getenv("MONGODB_DATABASE", "technurture"),
		PostgresURL: getenv("DATABASE_URL", ""),

		DBHost:        getenv("DB_HOST", ""),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "technurture"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		StorageFallbackMemory: getbool("STORAGE_FALLBACK_MEMORY", false),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		JWTSecret:     getenv("JWT_SECRET", ""),
		EncryptionKey: getenv("ENCRYPTION_KEY", ""),
		AccessTTL:     getdur("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:    getdur("JWT_REFRESH_TTL", 7*24*time.Hour),

		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),

		CookieDomain: getenv("COOKIE_DOMAIN", ""),
		CookieSecure: getbool("COOKIE_SECURE", false),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		CloudinaryName:   getenv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryKey:    getenv("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: getenv("CLOUDINARY_API_SECRET", ""),
		GCSBucket:        getenv("GCS_BUCKET", ""),
		GCSCredsPath:     getenv("GCS_CREDENTIALS_JSON", ""),
		MaxUploadBytes:   getint64("MAX_UPLOAD_BYTES", 100<<20),

		MaxBodyBytes: getint64("MAX_BODY_BYTES", 100<<20),

		RabbitMQURL:     getenv("RABBITMQ_URL", ""),
		NotifyQueue:     getenv("RABBITMQ_NOTIFY_QUEUE", "lead-notifications"),
		MailgunDomain:   getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:   getenv("MAILGUN_API_KEY", ""),
		MailgunSender:   getenv("MAILGUN_SENDER", ""),
		NotifyRecipient: getenv("NOTIFY_RECIPIENT", ""),
		MailSendEnabled: getbool("MAIL_SEND_ENABLED", true),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESBlogIndex:        getenv("ES_BLOG_INDEX", "blog-posts"),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
}

// PostgresDSN returns the relational connection string, preferring
// DATABASE_URL and otherwise assembling one from the discrete DB_* settings.
// Empty means the relational backend is not configured.
func (c *Config) PostgresDSN() string {
	if c.PostgresURL != "" {
		return c.PostgresURL
	}
	if c.DBHost == "" {
		return ""
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// CORSOrigins returns the allowed origins as a slice.
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

// ESAddrs returns Elasticsearch addresses as a slice.
func (c *Config) ESAddrs() []string {
	parts := strings.Split(c.ElasticsearchAddrs, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
