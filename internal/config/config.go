package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Name               string `yaml:"name"`
	SSLMode            string `yaml:"sslmode"`
	ApplicationName    string `yaml:"application_name"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
	ConnMaxIdleTimeSec int    `yaml:"conn_max_idle_time_sec"`
	PingTimeoutSec     int    `yaml:"ping_timeout_sec"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// StorageConfig selects the byte store backend.
// Backend is "minio" (default) or "local".
type StorageConfig struct {
	Backend   string      `yaml:"backend"`
	LocalPath string      `yaml:"local_path"`
	MinIO     MinIOConfig `yaml:"minio"`
}

// ThumbnailConfig controls the optional on-disk preview cache. An empty CacheDir disables it.
type ThumbnailConfig struct {
	CacheDir string `yaml:"cache_dir"`
}

// AuthConfig names the header carrying the authenticated principal set by the upstream gateway.
type AuthConfig struct {
	PrincipalHeader string `yaml:"principal_header"`
}

// EventsConfig configures lifecycle event publishing. An empty NATSURL disables publishing.
type EventsConfig struct {
	NATSURL       string `yaml:"nats_url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// RateLimitConfig limits the derivative endpoints (view, preview). RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// ResilienceConfig tunes retries and the circuit breaker around the byte store.
type ResilienceConfig struct {
	RetryMaxAttempts      int  `yaml:"retry_max_attempts"`
	RetryInitialBackoffMS int  `yaml:"retry_initial_backoff_ms"`
	RetryMaxBackoffMS     int  `yaml:"retry_max_backoff_ms"`
	BreakerEnabled        bool `yaml:"breaker_enabled"`
	BreakerOpenTimeoutSec int  `yaml:"breaker_open_timeout_sec"`
}

// AppConfig is the centralized configuration struct for the application.
// Values come from defaults, then an optional YAML file named by CONFIG_FILE,
// then environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string           `yaml:"app_host"`
	Port        string           `yaml:"port"`
	LogLevel    string           `yaml:"log_level"`
	Timezone    string           `yaml:"timezone"`
	RecordStore string           `yaml:"record_store"`
	Database    DatabaseConfig   `yaml:"database"`
	Storage     StorageConfig    `yaml:"storage"`
	Thumbnail   ThumbnailConfig  `yaml:"thumbnail"`
	Auth        AuthConfig       `yaml:"auth"`
	Events      EventsConfig     `yaml:"events"`
	RateLimit   RateLimitConfig  `yaml:"rate_limit"`
	Resilience  ResilienceConfig `yaml:"resilience"`
}

func defaults() *AppConfig {
	return &AppConfig{
		AppHost:     "localhost:8080",
		Port:        "8080",
		LogLevel:    "info",
		Timezone:    "UTC",
		RecordStore: "postgres",
		Database: DatabaseConfig{
			Port:               "5432",
			SSLMode:            "disable",
			ApplicationName:    "docvault",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
			ConnMaxIdleTimeSec: 60,
			PingTimeoutSec:     5,
		},
		Storage: StorageConfig{
			Backend:   "minio",
			LocalPath: "./data/uploads",
		},
		Auth: AuthConfig{
			PrincipalHeader: "X-Principal-ID",
		},
		Events: EventsConfig{
			SubjectPrefix: "docvault.documents",
		},
		RateLimit: RateLimitConfig{
			RPS:   20,
			Burst: 40,
		},
		Resilience: ResilienceConfig{
			RetryMaxAttempts:      3,
			RetryInitialBackoffMS: 100,
			RetryMaxBackoffMS:     400,
			BreakerEnabled:        true,
			BreakerOpenTimeoutSec: 30,
		},
	}
}

// Load reads configuration.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the YAML file.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.AppHost = getEnv("APP_HOST", cfg.AppHost)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Timezone = getEnv("APP_TIMEZONE", cfg.Timezone)
	cfg.RecordStore = getEnv("RECORD_STORE", cfg.RecordStore)

	db := &cfg.Database
	db.Host = getEnv("DB_HOST", db.Host)
	db.Port = getEnv("DB_PORT", db.Port)
	db.User = getEnv("DB_USER", db.User)
	db.Password = getEnv("DB_PASSWORD", db.Password)
	db.Name = getEnv("DB_NAME", db.Name)
	db.SSLMode = getEnv("DB_SSLMODE", db.SSLMode)
	db.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", db.MaxOpenConns)
	db.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", db.MaxIdleConns)
	db.ConnMaxLifetimeSec = getEnvInt("DB_CONN_MAX_LIFETIME_SEC", db.ConnMaxLifetimeSec)
	db.ConnMaxIdleTimeSec = getEnvInt("DB_CONN_MAX_IDLE_TIME_SEC", db.ConnMaxIdleTimeSec)
	db.PingTimeoutSec = getEnvInt("DB_PING_TIMEOUT_SEC", db.PingTimeoutSec)
	db.ApplicationName = getEnv("DB_APPLICATION_NAME", db.ApplicationName)

	st := &cfg.Storage
	st.Backend = getEnv("STORAGE_BACKEND", st.Backend)
	st.LocalPath = getEnv("STORAGE_LOCAL_PATH", st.LocalPath)
	st.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", st.MinIO.Endpoint)
	st.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", st.MinIO.AccessKey)
	st.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", st.MinIO.SecretKey)
	st.MinIO.Bucket = getEnv("MINIO_BUCKET", st.MinIO.Bucket)
	st.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", st.MinIO.UseSSL)

	cfg.Thumbnail.CacheDir = getEnv("THUMBNAIL_CACHE_DIR", cfg.Thumbnail.CacheDir)
	cfg.Auth.PrincipalHeader = getEnv("AUTH_PRINCIPAL_HEADER", cfg.Auth.PrincipalHeader)
	cfg.Events.NATSURL = getEnv("NATS_URL", cfg.Events.NATSURL)
	cfg.Events.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", cfg.Events.SubjectPrefix)
	cfg.RateLimit.RPS = getEnvFloat("RATE_LIMIT_RPS", cfg.RateLimit.RPS)
	cfg.RateLimit.Burst = getEnvInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)

	rs := &cfg.Resilience
	rs.RetryMaxAttempts = getEnvInt("RETRY_MAX_ATTEMPTS", rs.RetryMaxAttempts)
	rs.RetryInitialBackoffMS = getEnvInt("RETRY_INITIAL_BACKOFF_MS", rs.RetryInitialBackoffMS)
	rs.RetryMaxBackoffMS = getEnvInt("RETRY_MAX_BACKOFF_MS", rs.RetryMaxBackoffMS)
	rs.BreakerEnabled = getEnvBool("BREAKER_ENABLED", rs.BreakerEnabled)
	rs.BreakerOpenTimeoutSec = getEnvInt("BREAKER_OPEN_TIMEOUT_SEC", rs.BreakerOpenTimeoutSec)

	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
