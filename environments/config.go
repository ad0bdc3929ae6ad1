package environments

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Gateway    GatewayConfig
	Session    SessionConfig
	AI         AIConfig
	Suggestion SuggestionConfig
	Webhook    WebhookConfig
	Alert      AlertConfig
	Auth       AuthConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// GatewayConfig points at the external WhatsApp gateway HTTP API.
type GatewayConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// SessionConfig drives the simulated session lifecycle.
type SessionConfig struct {
	Store        string // memory | valkey
	QRTimeout    time.Duration
	ConnectMin   time.Duration
	ConnectMax   time.Duration
	SimulateScan bool
	QRServer     string
	TTL          time.Duration
}

type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	Timeout      time.Duration
}

type SuggestionConfig struct {
	BatchSize int
	Interval  time.Duration
}

// WebhookConfig configures the outbound client used for alert delivery.
type WebhookConfig struct {
	Timeout time.Duration
}

type AlertConfig struct {
	WebhookURL     string
	IterationCount int
}

type AuthConfig struct {
	APIKey          string
	SchedulerAPIKey string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "bridge"),
			Password: GetEnv("DB_PASSWORD", "bridge123"),
			DBName:   GetEnv("DB_NAME", "whatsapp_bridge"),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
		},
		Gateway: GatewayConfig{
			URL:     GetEnv("GATEWAY_URL", "http://localhost:8081"),
			APIKey:  GetEnv("GATEWAY_API_KEY", ""),
			Timeout: time.Duration(GetEnvAsInt("GATEWAY_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Session: SessionConfig{
			Store:        GetEnv("SESSION_STORE", "memory"),
			QRTimeout:    time.Duration(GetEnvAsInt("SESSION_QR_TIMEOUT_SECONDS", 60)) * time.Second,
			ConnectMin:   time.Duration(GetEnvAsInt("SESSION_CONNECT_MIN_SECONDS", 10)) * time.Second,
			ConnectMax:   time.Duration(GetEnvAsInt("SESSION_CONNECT_MAX_SECONDS", 30)) * time.Second,
			SimulateScan: GetEnvAsBool("SESSION_SIMULATE_SCAN", true),
			QRServer:     GetEnv("SESSION_QR_SERVER", "whatsapp-bridge"),
			TTL:          GetEnvAsDuration("SESSION_TTL", 24*time.Hour),
		},
		AI: AIConfig{
			GeminiAPIKey: GetEnv("GEMINI_API_KEY", ""),
			GeminiModel:  GetEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout:      time.Duration(GetEnvAsInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Suggestion: SuggestionConfig{
			BatchSize: GetEnvAsInt("SUGGESTION_BATCH_SIZE", 10),
			Interval:  time.Duration(GetEnvAsInt("SUGGESTION_INTERVAL_MINUTES", 2)) * time.Minute,
		},
		Webhook: WebhookConfig{
			Timeout: time.Duration(GetEnvAsInt("WEBHOOK_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Alert: AlertConfig{
			WebhookURL:     GetEnv("ALERT_WEBHOOK_URL", ""),
			IterationCount: GetEnvAsInt("ALERT_ITERATION_COUNT", 0),
		},
		Auth: AuthConfig{
			APIKey:          GetEnv("API_KEY", ""),
			SchedulerAPIKey: GetEnv("SCHEDULER_API_KEY", ""),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
