package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Annotator AnnotatorConfig `mapstructure:"annotator"`
	Runner    RunnerConfig    `mapstructure:"runner"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AnnotatorConfig holds annotation service client settings
type AnnotatorConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// RunnerConfig holds batch runner pacing settings
type RunnerConfig struct {
	InterItemDelay    time.Duration `mapstructure:"inter_item_delay"`
	PausePollInterval time.Duration `mapstructure:"pause_poll_interval"`
	RecentWindowCap   int           `mapstructure:"recent_window_cap"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("GRAMMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "grammate")
	v.SetDefault("database.password", "grammate")
	v.SetDefault("database.dbname", "grammate")
	v.SetDefault("database.sslmode", "disable")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Annotator
	v.SetDefault("annotator.base_url", "http://localhost:8000")
	v.SetDefault("annotator.api_key", "")
	v.SetDefault("annotator.timeout", 30*time.Second)
	v.SetDefault("annotator.max_attempts", 5)
	v.SetDefault("annotator.backoff_base", 2*time.Second)

	// Runner
	v.SetDefault("runner.inter_item_delay", 100*time.Millisecond)
	v.SetDefault("runner.pause_poll_interval", 500*time.Millisecond)
	v.SetDefault("runner.recent_window_cap", 100)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
