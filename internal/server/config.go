package server

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds server configuration
type Config struct {
	HTTPAddr    string `yaml:"http_addr"`
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	ModelPath   string `yaml:"model_path"`
	FeedFile    string `yaml:"feed_file"`
	FeedURL     string `yaml:"feed_url"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

func defaultConfig() *Config {
	return &Config{
		HTTPAddr:    ":8080",
		GRPCAddr:    ":9000",
		MetricsAddr: ":9090",
		ModelPath:   "models/phishing_model.json",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// named by PG_CONFIG, and PG_* environment variables, in that order of
// precedence. A .env file in the working directory is loaded first if present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path := os.Getenv("PG_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.HTTPAddr = getEnv("PG_HTTP_ADDR", cfg.HTTPAddr)
	cfg.GRPCAddr = getEnv("PG_GRPC_ADDR", cfg.GRPCAddr)
	cfg.MetricsAddr = getEnv("PG_METRICS_ADDR", cfg.MetricsAddr)
	cfg.ModelPath = getEnv("PG_MODEL_PATH", cfg.ModelPath)
	cfg.FeedFile = getEnv("PG_FEED_FILE", cfg.FeedFile)
	cfg.FeedURL = getEnv("PG_FEED_URL", cfg.FeedURL)
	cfg.LogLevel = getEnv("PG_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("PG_LOG_FORMAT", cfg.LogFormat)
	return cfg, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// NewLogger returns a slog.Logger writing to stderr in the configured
// format and level.
func NewLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
