package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	// Collaborators.
	BackendBaseURL string // ledger backend, e.g. http://127.0.0.1:8000
	NLPServerURL   string // self-hosted completion endpoint, e.g. http://127.0.0.1:8002/generate
	NLPModel       string
	OCRServerURL   string // OCR sidecar base URL

	// Auth.
	JWTSecret string

	// LLM provider selection.
	LLMProvider           string // "gemini" or "ollama"
	GeminiAPIKey          string
	GeminiModel           string
	GoogleCredentialsFile string

	// Receipt storage.
	ObjectStoreType string
	ReceiptsDir     string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	// Timeouts.
	BackendTimeout time.Duration
	ReportTimeout  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),

		BackendBaseURL: strings.TrimRight(getEnv("BACKEND_API", "http://127.0.0.1:8000"), "/"),
		NLPServerURL:   getEnv("NLP_SERVER", "http://127.0.0.1:8002/generate"),
		NLPModel:       getEnv("NLP_MODEL", "llama3"),
		OCRServerURL:   strings.TrimRight(getEnv("OCR_SERVER", "http://127.0.0.1:8003"), "/"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		LLMProvider:           normalizeProvider(getEnv("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		ReceiptsDir:     getEnv("RECEIPTS_DIR", "./receipts"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		BackendTimeout: secondsEnv("BACKEND_TIMEOUT_SECONDS", 300),
		ReportTimeout:  secondsEnv("REPORT_TIMEOUT_SECONDS", 5),
	}
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.LLMProvider == "gemini" && c.GeminiAPIKey == "" && c.GoogleCredentialsFile == "" {
		return fmt.Errorf("LLM_PROVIDER=gemini requires GEMINI_API_KEY or GOOGLE_APPLICATION_CREDENTIALS")
	}
	if c.ObjectStoreType == "s3" && strings.TrimSpace(c.S3Bucket) == "" {
		return fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func secondsEnv(key string, def int) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return time.Duration(def) * time.Second
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

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ollama":
		return "ollama"
	default:
		return "gemini"
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
