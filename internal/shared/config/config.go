package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"jobboard-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port               string
	Env                string
	CORSAllowOrigin    []string
	DatabaseURL        string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	JWTSecret          string
	LogLevel           string
	LogFormat          string
	RedisURL           string
	RateLimitRPS       float64
	RateLimitBurst     int
	ResumeFetchTimeout time.Duration
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"ENV":                  "dev",
	"CORS_ALLOW_ORIGINS":   "http://localhost:5173",
	"OBJECT_STORE":         "local",
	"LOCAL_STORE_DIR":      "./data",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "json",
	"RATE_LIMIT_RPS":       5.0,
	"RATE_LIMIT_BURST":     20,
	"RESUME_FETCH_TIMEOUT": "20s",
}

// Load reads configuration from the environment, after best-effort loading
// of local .env files.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	return v
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	timeout := v.GetDuration("RESUME_FETCH_TIMEOUT")
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return Config{
		Port:               v.GetString("PORT"),
		Env:                env,
		CORSAllowOrigin:    splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		DatabaseURL:        dbURL,
		ObjectStoreType:    normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:      v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Prefix:           v.GetString("S3_PREFIX"),
		SSEKMSKeyID:        v.GetString("SSE_KMS_KEY_ID"),
		JWTSecret:          strings.TrimSpace(v.GetString("JWT_SECRET")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),
		RateLimitRPS:       v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		ResumeFetchTimeout: timeout,
	}
}

// IsDevLike reports whether env tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
