package config

import (
	"fmt"
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	Port     string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// PostgreSQL settings
	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// Secret field WITHOUT an envconfig tag, loaded from the secrets dir.
	DBPassword string

	// Redis settings
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// RabbitMQ settings
	RabbitMQURL    string `envconfig:"RABBITMQ_URL" required:"true"`
	AnalyticsQueue string `envconfig:"ANALYTICS_QUEUE" default:"quest_analytics_events"`

	// Quest catalog
	QuestCatalogPath string `envconfig:"QUEST_CATALOG_PATH" default:"data/quests.json"`

	// AI settings
	AIModel           string `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	AIBaseURL         string `envconfig:"AI_BASE_URL" default:""`
	AIMaxPromptTokens int    `envconfig:"AI_MAX_PROMPT_TOKENS" default:"2048"`
	AIMaxTokens       int    `envconfig:"AI_MAX_TOKENS" default:"512"`
	// Secret field WITHOUT an envconfig tag.
	AIAPIKey string

	// Rate limits (fixed window)
	ScanRateLimit    int           `envconfig:"SCAN_RATE_LIMIT" default:"10"`
	ScanRateWindow   time.Duration `envconfig:"SCAN_RATE_WINDOW" default:"1m"`
	ReportRateLimit  int           `envconfig:"REPORT_RATE_LIMIT" default:"5"`
	ReportRateWindow time.Duration `envconfig:"REPORT_RATE_WINDOW" default:"1m"`

	// JWT settings
	AccessTokenTTL time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"24h"`
	// Secret field WITHOUT an envconfig tag.
	JWTSecret string
}

// GetDSN returns the PostgreSQL connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig loads configuration from environment variables and secret files.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var loadErr error
	cfg.DBPassword, loadErr = ReadSecret("db_password")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.JWTSecret, loadErr = ReadSecret("jwt_secret")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.AIAPIKey, loadErr = ReadSecret("ai_api_key")
	if loadErr != nil {
		return nil, loadErr
	}

	log.Printf("Configuration loaded (secrets from files):")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  DB DSN: postgres://%s:***@%s:%s/%s?sslmode=%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	log.Printf("  Redis Addr: %s", cfg.RedisAddr)
	log.Printf("  RabbitMQ URL: %s", cfg.RabbitMQURL)
	log.Printf("  Analytics Queue: %s", cfg.AnalyticsQueue)
	log.Printf("  Quest Catalog: %s", cfg.QuestCatalogPath)
	log.Printf("  AI Model: %s", cfg.AIModel)

	return &cfg, nil
}
