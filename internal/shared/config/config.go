package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port              string
	CORSAllowOrigin   []string
	ObjectStoreType   string
	LocalStoreDir     string
	AWSRegion         string
	S3Bucket          string
	S3Prefix          string
	DatabaseURL       string
	Env               string
	LogLevel          string
	LLMProvider       string
	LLMModel          string
	LLMBaseURL        string
	LLMAPIKey         string
	LLMTimeout        time.Duration
	LLMRequestsPerMin int
	IngestConcurrency int
	RedisAddr         string
	SummaryCacheTTL   time.Duration
	SQSQueueURL       string
	WorkerConcurrency int
	IngestOnStart     bool
	JWTSecret         string
	RateLimitPerMin   int
	// ColumnSynonyms extends the built-in header synonyms, keyed by canonical field.
	ColumnSynonyms map[string][]string
}

// Load reads configuration from environment variables with sensible defaults.
// A YAML file named by CONFIG_FILE fills keys the environment leaves unset.
func Load() Config {
	// Best-effort load of local env files for dev convenience; existing vars win.
	loadEnvFiles(".env", "cmd/.env")

	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Printf("config file ignored: %v", err)
	}
	file.applyDefaults()

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:   normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./public/excels"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", ""),
		DatabaseURL:       dbURL,
		Env:               env,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LLMProvider:       strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		LLMModel:          getEnv("LLM_MODEL", "gpt-4"),
		LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
		LLMAPIKey:         getEnv("OPENAI_API_KEY", ""),
		LLMTimeout:        time.Duration(getInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		LLMRequestsPerMin: getInt("LLM_RPM", 60),
		IngestConcurrency: getInt("INGEST_CONCURRENCY", 4),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		SummaryCacheTTL:   getDuration("SUMMARY_CACHE_TTL", 24*time.Hour),
		SQSQueueURL:       getEnv("SQS_QUEUE_URL", ""),
		WorkerConcurrency: getInt("WORKER_CONCURRENCY", 2),
		IngestOnStart:     getBool("INGEST_ON_START", false),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		RateLimitPerMin:   getInt("RATE_LIMIT_PER_MIN", 120),
		ColumnSynonyms:    file.Columns,
	}
}

// IsDevLike reports whether in-memory fallbacks are acceptable.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// Load never overrides variables that are already set.
		_ = godotenv.Load(path)
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
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
