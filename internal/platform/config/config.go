package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	Environment   string
	LogLevel      string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	AdminToken    string
	SessionTTL    time.Duration

	Redis    RedisConfig
	Database DatabaseConfig
	Packages PackagesConfig
	Audit    AuditConfig
	// RateLimitPerMinute caps confirmation calls per caller. Zero disables it.
	RateLimitPerMinute int

	// Warnings lists values that could not be parsed and fell back to defaults.
	Warnings []string
}

// RedisConfig configures the confirmation session store. An empty URL keeps
// sessions in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig configures the installed-package registry. An empty URL uses
// the YAML seed in memory.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
}

type PackagesConfig struct {
	CatalogPath       string
	InstalledSeedPath string
	ManifestRoot      string
}

type AuditConfig struct {
	KafkaBrokers []string
	Topic        string
	AsyncBuffer  int
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultSessionTTL bounds how long an unfinished confirmation stays resumable.
var DefaultSessionTTL = 30 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:          envOr("PKGCONFIRM_ADDR", ":8080"),
		Environment:   envOr("PKGCONFIRM_ENV", EnvDevelopment),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		JWTIssuer:     envOr("JWT_ISSUER", "pkgconfirm"),
		JWTAudience:   envOr("JWT_AUDIENCE", "pkgconfirm-installer"),
		AdminToken:    os.Getenv("ADMIN_API_TOKEN"),
		Packages: PackagesConfig{
			CatalogPath:       os.Getenv("PERMISSION_CATALOG_PATH"),
			InstalledSeedPath: os.Getenv("INSTALLED_SEED_PATH"),
			ManifestRoot:      envOr("MANIFEST_ROOT", "."),
		},
		Audit: AuditConfig{
			KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:        envOr("AUDIT_TOPIC", "confirmation-audit"),
		},
	}
	cfg.SessionTTL = cfg.duration("SESSION_TTL", DefaultSessionTTL)
	cfg.Audit.AsyncBuffer = cfg.integer("AUDIT_ASYNC_BUFFER", 256)
	cfg.RateLimitPerMinute = cfg.integer("RATE_LIMIT_PER_MINUTE", 120)

	cfg.Redis = RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     cfg.integer("REDIS_POOL_SIZE", 10),
		MinIdleConns: cfg.integer("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  cfg.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  cfg.duration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: cfg.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
	cfg.Database = DatabaseConfig{
		URL:          os.Getenv("DATABASE_URL"),
		MaxOpenConns: cfg.integer("DATABASE_MAX_OPEN_CONNS", 10),
	}
	return cfg
}

// IsProduction reports whether the process runs with production defaults.
func (s Server) IsProduction() bool {
	return s.Environment == EnvProduction
}

// AuthEnabled reports whether callers must present a bearer token.
func (s Server) AuthEnabled() bool {
	return s.JWTSigningKey != ""
}

func (s *Server) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%s=%q is not a positive duration, using %s", key, raw, def))
		return def
	}
	return d
}

func (s *Server) integer(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%s=%q is not a non-negative integer, using %d", key, raw, def))
		return def
	}
	return n
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
