package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	AppEnv string

	HTTPAddr     string
	PublicOrigin string

	// Document store
	StoreDriver      string
	SeedSampleEvents bool
	DatabaseURL      string
	MongoURI         string
	MongoDatabase    string

	// Optional; empty disables
	JWTSecret string
	JWTIssuer string

	// RabbitMQ; empty URL disables publishing
	RabbitURL      string
	RabbitExchange string

	// Redis; empty URL disables the detail cache
	RedisURL        string
	CacheTTLDetails time.Duration

	// Image host (S3 compatible). Missing bucket means stock-photo fallback.
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3UsePathStyle    bool
	CDNBaseURL        string
	ImageMaxWidth     int

	// Rate Limiting
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	OTelEnabled  bool
	OTelEndpoint string

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8888")
	cfg.PublicOrigin = getEnv("PUBLIC_ORIGIN", getEnv("URL", "https://alchies.netlify.app"))

	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", DriverMemory))
	cfg.SeedSampleEvents = getBool("SEED_SAMPLE_EVENTS", cfg.AppEnv == "dev")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.MongoURI = getEnv("MONGO_URI", "")
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", "alchies")

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "alchies.events")

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.CacheTTLDetails = getDuration("CACHE_TTL_DETAILS", 5*time.Minute)

	cfg.S3Endpoint = getEnv("S3_ENDPOINT", "")
	cfg.S3Region = getEnv("S3_REGION", "us-east-1")
	cfg.S3AccessKeyID = getEnv("S3_ACCESS_KEY_ID", "")
	cfg.S3SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", "")
	cfg.S3Bucket = getEnv("S3_BUCKET", "")
	cfg.S3UsePathStyle = getBool("S3_USE_PATH_STYLE", true)
	cfg.CDNBaseURL = strings.TrimRight(getEnv("CDN_BASE_URL", ""), "/")
	cfg.ImageMaxWidth = getIntEnv("IMAGE_MAX_WIDTH", 1000)

	// 100 reqs / 1 min
	cfg.RLEnabled = getBool("RL_ENABLED", true)
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 100)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", 1*time.Minute)

	cfg.OTelEnabled = getBool("OTEL_ENABLED", false)
	cfg.OTelEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	switch cfg.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("missing DATABASE_URL")
		}
	case DriverMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("missing MONGO_URI")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.S3Bucket != "" && cfg.CDNBaseURL == "" {
		return nil, fmt.Errorf("missing CDN_BASE_URL (required with S3_BUCKET)")
	}

	return cfg, nil
}

// ImageHostEnabled reports whether uploads go to object storage.
func (c *Config) ImageHostEnabled() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
