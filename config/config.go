package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string
	// Generative AI (question source). Empty key = fallback questions only.
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	// Number of questions requested per category
	CustomerServiceQuestions int
	SalesAptitudeQuestions   int
	// Submission endpoint (Formspree)
	SubmissionURL string
	// Résumé variant
	CVRequired bool
	CVMaxBytes int64
	// clamd address for résumé scanning. Empty = no scanning.
	ClamAVAddress string
	// Post-submission view
	ContactEmail string
	ShareURL     string
	// Analytics pixel. Empty = pixel not loaded.
	MetaPixelID string
	// Redis/Upstash Configuration (session store)
	UpstashRedisURL      string
	UpstashRedisPassword string
	SessionTTLMinutes    int
	// Outbound HTTP timeout for the AI and submission clients
	HTTPTimeoutSeconds int
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitSubmitThreshold int
	RateLimitGlobalThreshold int
}

func LoadConfig() (*Config, error) {
	// Load .env file (only useful locally; ignored when the file is missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		GeminiAPIKey:             getEnv("GEMINI_API_KEY", getEnv("VITE_GEMINI_API_KEY", "")),
		GeminiBaseURL:            strings.TrimRight(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"), "/"),
		GeminiModel:              getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		CustomerServiceQuestions: getEnvInt("QUESTIONS_CUSTOMER_SERVICE", 3),
		SalesAptitudeQuestions:   getEnvInt("QUESTIONS_SALES_APTITUDE", 3),
		SubmissionURL:            getEnv("SUBMISSION_URL", "https://formspree.io/f/xnnoejrq"),
		CVRequired:               getEnvBool("CV_REQUIRED", false),
		CVMaxBytes:               int64(getEnvInt("CV_MAX_BYTES", 5<<20)), // 5 MB
		ClamAVAddress:            getEnv("CLAMAV_ADDRESS", ""),
		ContactEmail:             getEnv("CONTACT_EMAIL", "postulaciones@asnivel.com"),
		ShareURL:                 getEnv("SHARE_URL", "https://muzza-postulaciones.vercel.app/"),
		MetaPixelID:              getEnv("META_PIXEL_ID", getEnv("VITE_META_PIXEL_ID", "")),
		UpstashRedisURL:          getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword:     getEnv("UPSTASH_REDIS_PASSWORD", ""),
		SessionTTLMinutes:        getEnvInt("SESSION_TTL_MINUTES", 120),
		HTTPTimeoutSeconds:       getEnvInt("HTTP_TIMEOUT_SECONDS", 30),
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitSubmitThreshold: getEnvInt("RATE_LIMIT_SUBMIT_THRESHOLD", 5),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 300),
	}

	if cfg.CustomerServiceQuestions <= 0 {
		cfg.CustomerServiceQuestions = 3
	}
	if cfg.SalesAptitudeQuestions <= 0 {
		cfg.SalesAptitudeQuestions = 3
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not configured. Default interview questions will be used.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Sessions will be kept in memory.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
