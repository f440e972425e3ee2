package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported AI providers.
const (
	ProviderGemini   = "gemini"
	ProviderGLM      = "glm"
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
)

type Config struct {
	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// AI provider selection and credentials
	AIProvider string

	GeminiAPIKey string
	GeminiAPIURL string
	GeminiModel  string

	GLMAPIKey string
	GLMAPIURL string
	GLMModel  string

	DeepSeekAPIKey string
	DeepSeekAPIURL string
	DeepSeekModel  string

	OpenAIAPIKey string
	OpenAIAPIURL string
	OpenAIModel  string

	AITimeout  time.Duration
	AICacheTTL time.Duration

	// Redis (optional generation cache)
	RedisURL string

	// Google sign-in
	GoogleClientID string

	// Admin
	AdminEmails string

	// Server
	Port        string
	CORSOrigins string

	// Logging / observability
	LogLevel         string
	LogRetentionDays int
	SentryDSN        string
	AppEnv           string
}

// ProviderSettings is the endpoint, key, and model of the selected AI provider.
type ProviderSettings struct {
	Name   string
	APIURL string
	APIKey string
	Model  string
}

// Load reads an optional .env file and then the process environment.
// It returns an error when a required value is missing.
func Load() (*Config, error) {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "course2career"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),

		AIProvider: strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini)),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		GLMAPIKey: getEnv("GLM_API_KEY", ""),
		GLMAPIURL: getEnv("GLM_API_URL", "https://api.z.ai/api/paas/v4/chat/completions"),
		GLMModel:  getEnv("GLM_MODEL", "glm-4.5"),

		DeepSeekAPIKey: getEnv("DEEPSEEK_API_KEY", ""),
		DeepSeekAPIURL: getEnv("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		DeepSeekModel:  getEnv("DEEPSEEK_MODEL", "deepseek-chat"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIURL: getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		AITimeout:  parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),
		AICacheTTL: parseDuration(getEnv("AI_CACHE_TTL", "24h"), 24*time.Hour),

		RedisURL: getEnv("REDIS_URL", ""),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		AppEnv:           getEnv("APP_ENV", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing required value at once.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DatabaseURL == "" && c.DBPassword == "" {
		errs = append(errs, errors.New("DATABASE_URL or DB_PASSWORD is required"))
	}

	p, err := c.Provider()
	if err != nil {
		errs = append(errs, err)
	} else if p.APIKey == "" {
		errs = append(errs, fmt.Errorf("API key for AI provider %q is required", p.Name))
	}

	if c.AITimeout <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// Provider resolves the settings of the configured AI provider.
func (c *Config) Provider() (ProviderSettings, error) {
	switch c.AIProvider {
	case ProviderGemini:
		return ProviderSettings{Name: ProviderGemini, APIURL: c.GeminiAPIURL, APIKey: c.GeminiAPIKey, Model: c.GeminiModel}, nil
	case ProviderGLM:
		return ProviderSettings{Name: ProviderGLM, APIURL: c.GLMAPIURL, APIKey: c.GLMAPIKey, Model: c.GLMModel}, nil
	case ProviderDeepSeek:
		return ProviderSettings{Name: ProviderDeepSeek, APIURL: c.DeepSeekAPIURL, APIKey: c.DeepSeekAPIKey, Model: c.DeepSeekModel}, nil
	case ProviderOpenAI:
		return ProviderSettings{Name: ProviderOpenAI, APIURL: c.OpenAIAPIURL, APIKey: c.OpenAIAPIKey, Model: c.OpenAIModel}, nil
	default:
		return ProviderSettings{}, fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}
}

func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// AdminEmailList returns ADMIN_EMAILS split on commas.
func (c *Config) AdminEmailList() []string {
	return parseCSV(c.AdminEmails)
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS, ignoring case.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.TrimSpace(email)
	for _, e := range c.AdminEmailList() {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
