package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration

	RedisURL           string
	LoginRateLimit     string // ulule/limiter formatted rate, e.g. "5-M"
	GlobalRateLimit    string
	CORSAllowedOrigins []string
	PosthogAPIKey      string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OpenAITimeout time.Duration

	WhatsAppVerifyToken string
	WhatsAppGroupID     string

	SchedulerEnabled      bool
	SchedulerTimes        []string // HH:MM, server local time
	SchedulerRunOnStartup bool
	SchedulerWorkers      int
	SchedulerQueueSize    int
	SchedulerJobTimeout   time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "couple-finance-app")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("OPENAI_TIMEOUT", "30s")
	viper.SetDefault("WHATSAPP_VERIFY_TOKEN", "couple-finance-secret")
	viper.SetDefault("WHATSAPP_GROUP_ID", "")
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("SCHEDULER_TIMES", "06:00")
	viper.SetDefault("SCHEDULER_RUN_ON_STARTUP", false)
	viper.SetDefault("SCHEDULER_WORKERS", 4)
	viper.SetDefault("SCHEDULER_QUEUE_SIZE", 100)
	viper.SetDefault("SCHEDULER_JOB_TIMEOUT", "2m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", time.Hour)
	cfg.RefreshTokenExpiryDuration = durationOrDefault("REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	cfg.GlobalRateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	cfg.OpenAIAPIKey = viper.GetString("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set. AI parsing and report narratives will not function.")
	}
	cfg.OpenAIModel = viper.GetString("OPENAI_MODEL")
	cfg.OpenAIBaseURL = strings.TrimRight(viper.GetString("OPENAI_BASE_URL"), "/")
	cfg.OpenAITimeout = durationOrDefault("OPENAI_TIMEOUT", 30*time.Second)

	cfg.WhatsAppVerifyToken = viper.GetString("WHATSAPP_VERIFY_TOKEN")
	cfg.WhatsAppGroupID = viper.GetString("WHATSAPP_GROUP_ID")
	if cfg.WhatsAppGroupID == "" {
		log.Println("Warning: WHATSAPP_GROUP_ID not set. WhatsApp messages will be ignored.")
	}

	cfg.SchedulerEnabled = viper.GetBool("SCHEDULER_ENABLED")
	cfg.SchedulerTimes = splitList(viper.GetString("SCHEDULER_TIMES"))
	cfg.SchedulerRunOnStartup = viper.GetBool("SCHEDULER_RUN_ON_STARTUP")
	cfg.SchedulerWorkers = viper.GetInt("SCHEDULER_WORKERS")
	if cfg.SchedulerWorkers <= 0 {
		cfg.SchedulerWorkers = 4
	}
	cfg.SchedulerQueueSize = viper.GetInt("SCHEDULER_QUEUE_SIZE")
	if cfg.SchedulerQueueSize <= 0 {
		cfg.SchedulerQueueSize = 100
	}
	cfg.SchedulerJobTimeout = durationOrDefault("SCHEDULER_JOB_TIMEOUT", 2*time.Minute)

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

// splitList splits a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
