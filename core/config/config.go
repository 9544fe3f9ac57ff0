package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"basegraph.app/bff/core/db"
)

type Config struct {
	NodeID  int64 // snowflake node, unique per replica
	OTel    OTelConfig
	LLM     LLMConfig
	History HistoryConfig
	CORS    CORSConfig
	Env     string
	Port    string
	DB      db.Config
	SQLite  db.SQLiteConfig
	Redis   RedisConfig
	Client  ClientConfig
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
	Environment    string
	SampleRatio    float64 // fraction of new root traces kept, 0..1
}

type LLMConfig struct {
	Provider  string // "anthropic" or "openai"
	APIKey    string
	BaseURL   string // Optional: for custom endpoints
	Model     string
	MaxTokens int
}

type HistoryBackend string

const (
	HistoryBackendPostgres HistoryBackend = "postgres"
	HistoryBackendSQLite   HistoryBackend = "sqlite"
	HistoryBackendRedis    HistoryBackend = "redis"
)

type HistoryConfig struct {
	Backend      HistoryBackend
	DefaultLimit int
}

type RedisConfig struct {
	URL           string
	HistoryStream string
}

// ClientConfig is read by the generate CLI.
type ClientConfig struct {
	ServerURL string
}

type CORSConfig struct {
	// Empty means any origin.
	AllowedOrigins []string
}

// Load reads configuration from the environment. In development a local .env
// file is loaded first if present.
//
// Missing credentials are not an error here: the LLM client and history store
// report them on first use so the server can still start.
func Load() Config {
	if getEnv("BFF_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	apiKey := getEnv("LLM_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("ANTHROPIC_API_KEY", "")
	}

	env := getEnv("BFF_ENV", "development")

	return Config{
		Env:    env,
		Port:   getEnv("PORT", "8080"),
		NodeID: int64(getEnvInt("BFF_NODE_ID", 1)),
		DB: db.Config{
			DSN:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 10),
			MinConns: getEnvInt32("DB_MIN_CONNS", 0),
		},
		SQLite: db.SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "bff.db"),
		},
		Redis: RedisConfig{
			URL:           getEnv("REDIS_URL", ""),
			HistoryStream: getEnv("REDIS_HISTORY_STREAM", "query_history"),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "bff"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			Environment:    env,
			SampleRatio:    getEnvRatio("OTEL_TRACES_SAMPLER_RATIO", 1),
		},
		LLM: LLMConfig{
			Provider:  getEnv("LLM_PROVIDER", "anthropic"),
			APIKey:    apiKey,
			BaseURL:   getEnv("LLM_BASE_URL", ""),
			Model:     getEnv("LLM_MODEL", "claude-3-sonnet-20240229"),
			MaxTokens: getEnvInt("LLM_MAX_TOKENS", 4000),
		},
		History: HistoryConfig{
			Backend:      HistoryBackend(strings.ToLower(getEnv("HISTORY_BACKEND", string(HistoryBackendPostgres)))),
			DefaultLimit: getEnvInt("HISTORY_DEFAULT_LIMIT", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		},
		Client: ClientConfig{
			ServerURL: getEnv("BFF_URL", "http://localhost:8080"),
		},
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvRatio(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 && f <= 1 {
			return f
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
