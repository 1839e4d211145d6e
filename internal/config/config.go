package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds all service configuration. It is built once at startup and
// passed down explicitly; nothing mutates it afterwards.
type Config struct {
	Port         string
	StoreBackend string
	DBURI        string
	DBName       string
	JWTSecret    string
	LogLevel     string
	CORSOrigins  []string

	PostgresDSN string

	RedisAddr      string
	RedisPassword  string
	SigninMaxFails int
	SigninWindow   time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool
}

// Load reads an optional .env file, then environment variables, then the
// given command-line arguments, each overriding the previous source.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:           getenv("PORT", "4000"),
		StoreBackend:   getenv("STORE_BACKEND", BackendMongo),
		DBURI:          getenv("DB_URI", ""),
		DBName:         getenv("DB_NAME", "playlist_api"),
		JWTSecret:      getenv("JWT_SECRET", ""),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		SigninMaxFails: getenvInt("SIGNIN_MAX_FAILS", 5),
		SigninWindow:   getenvDuration("SIGNIN_WINDOW", 15*time.Minute),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "playlist-media"),
		MinioRegion:    getenv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
	}
	origins := getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "listen port")
	fs.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "store backend (mongo|memory)")
	fs.StringVar(&cfg.DBURI, "db-uri", cfg.DBURI, "MongoDB connection string")
	fs.StringVar(&cfg.DBName, "db-name", cfg.DBName, "MongoDB database name")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.StringVar(&origins, "cors-origins", origins, "comma separated allowed origins")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "PostgreSQL DSN for the audit log")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the signin limiter")
	fs.IntVar(&cfg.SigninMaxFails, "signin-max-fails", cfg.SigninMaxFails, "failed signins before blocking")
	fs.DurationVar(&cfg.SigninWindow, "signin-window", cfg.SigninWindow, "signin failure window and block time")
	fs.StringVar(&cfg.MinioEndpoint, "minio-endpoint", cfg.MinioEndpoint, "MinIO endpoint for media")
	fs.StringVar(&cfg.MinioBucket, "minio-bucket", cfg.MinioBucket, "MinIO bucket for media")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.CORSOrigins = splitList(origins)
	return cfg, nil
}

// Validate reports configuration the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreBackend {
	case BackendMongo:
		if c.DBURI == "" {
			return errors.New("DB_URI is required for the mongo store")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.SigninMaxFails <= 0 {
		return errors.New("signin max fails must be positive")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getenv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
