package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	API       APIConfig
	Extractor ExtractorConfig
	Queue     QueueConfig
	Upload    UploadConfig
	Health    HealthConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// Production reports whether the server runs in production mode.
func (s *ServerConfig) Production() bool {
	return s.Environment == "production"
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// APIConfig holds API authentication settings.
type APIConfig struct {
	Key string `mapstructure:"key"`
}

// ProviderConfig holds settings for one LLM extraction provider.
type ProviderConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds per-provider LLM extraction settings.
type ExtractorConfig struct {
	OpenAI ProviderConfig `mapstructure:"openai"`
	Claude ProviderConfig `mapstructure:"claude"`
	Gemini ProviderConfig `mapstructure:"gemini"`
}

// Provider returns the config block for a provider key, or nil for unknown keys.
func (e *ExtractorConfig) Provider(name string) *ProviderConfig {
	switch name {
	case "openai":
		return &e.OpenAI
	case "claude":
		return &e.Claude
	case "gemini":
		return &e.Gemini
	}
	return nil
}

// QueueConfig holds processing queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// UploadConfig holds image upload limits.
type UploadConfig struct {
	MaxFiles      int   `mapstructure:"max_files"`
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// HealthConfig holds DB health monitor settings.
type HealthConfig struct {
	IntervalSecs int `mapstructure:"interval_secs"`
	HistorySize  int `mapstructure:"history_size"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the RXLENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RXLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "rxlens")
	v.SetDefault("db.password", "rxlens_secret")
	v.SetDefault("db.name", "rxlens_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// API defaults
	v.SetDefault("api.key", "")

	// Extractor defaults
	v.SetDefault("extractor.openai.api_key", "")
	v.SetDefault("extractor.openai.model", "gpt-4o")
	v.SetDefault("extractor.openai.timeout_secs", 120)
	v.SetDefault("extractor.claude.api_key", "")
	v.SetDefault("extractor.claude.model", "claude-sonnet-4-20250514")
	v.SetDefault("extractor.claude.timeout_secs", 120)
	v.SetDefault("extractor.gemini.api_key", "")
	v.SetDefault("extractor.gemini.model", "gemini-2.5-flash")
	v.SetDefault("extractor.gemini.timeout_secs", 120)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 5)
	v.SetDefault("queue.concurrency", 3)

	// Upload defaults
	v.SetDefault("upload.max_files", 10)
	v.SetDefault("upload.max_file_size_mb", 10)

	// Health monitor defaults
	v.SetDefault("health.interval_secs", 30)
	v.SetDefault("health.history_size", 120)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "RXLENS_SERVER_PORT",
		"server.read_timeout":           "RXLENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "RXLENS_SERVER_WRITE_TIMEOUT",
		"server.environment":            "RXLENS_SERVER_ENVIRONMENT",
		"db.host":                       "RXLENS_DB_HOST",
		"db.port":                       "RXLENS_DB_PORT",
		"db.user":                       "RXLENS_DB_USER",
		"db.password":                   "RXLENS_DB_PASSWORD",
		"db.name":                       "RXLENS_DB_NAME",
		"db.sslmode":                    "RXLENS_DB_SSLMODE",
		"db.max_open":                   "RXLENS_DB_MAX_OPEN",
		"db.max_idle":                   "RXLENS_DB_MAX_IDLE",
		"api.key":                       "RXLENS_API_KEY",
		"extractor.openai.api_key":      "RXLENS_EXTRACTOR_OPENAI_API_KEY",
		"extractor.openai.model":        "RXLENS_EXTRACTOR_OPENAI_MODEL",
		"extractor.openai.timeout_secs": "RXLENS_EXTRACTOR_OPENAI_TIMEOUT_SECS",
		"extractor.claude.api_key":      "RXLENS_EXTRACTOR_CLAUDE_API_KEY",
		"extractor.claude.model":        "RXLENS_EXTRACTOR_CLAUDE_MODEL",
		"extractor.claude.timeout_secs": "RXLENS_EXTRACTOR_CLAUDE_TIMEOUT_SECS",
		"extractor.gemini.api_key":      "RXLENS_EXTRACTOR_GEMINI_API_KEY",
		"extractor.gemini.model":        "RXLENS_EXTRACTOR_GEMINI_MODEL",
		"extractor.gemini.timeout_secs": "RXLENS_EXTRACTOR_GEMINI_TIMEOUT_SECS",
		"queue.poll_interval_secs":      "RXLENS_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":             "RXLENS_QUEUE_CONCURRENCY",
		"upload.max_files":              "RXLENS_UPLOAD_MAX_FILES",
		"upload.max_file_size_mb":       "RXLENS_UPLOAD_MAX_FILE_SIZE_MB",
		"health.interval_secs":          "RXLENS_HEALTH_INTERVAL_SECS",
		"health.history_size":           "RXLENS_HEALTH_HISTORY_SIZE",
		"cors.allowed_origins":          "RXLENS_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if RXLENS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RXLENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.API = APIConfig{
		Key: v.GetString("api.key"),
	}
	cfg.Extractor = ExtractorConfig{
		OpenAI: ProviderConfig{
			APIKey:      v.GetString("extractor.openai.api_key"),
			Model:       v.GetString("extractor.openai.model"),
			TimeoutSecs: v.GetInt("extractor.openai.timeout_secs"),
		},
		Claude: ProviderConfig{
			APIKey:      v.GetString("extractor.claude.api_key"),
			Model:       v.GetString("extractor.claude.model"),
			TimeoutSecs: v.GetInt("extractor.claude.timeout_secs"),
		},
		Gemini: ProviderConfig{
			APIKey:      v.GetString("extractor.gemini.api_key"),
			Model:       v.GetString("extractor.gemini.model"),
			TimeoutSecs: v.GetInt("extractor.gemini.timeout_secs"),
		},
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Upload = UploadConfig{
		MaxFiles:      v.GetInt("upload.max_files"),
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Health = HealthConfig{
		IntervalSecs: v.GetInt("health.interval_secs"),
		HistorySize:  v.GetInt("health.history_size"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
