package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort string
	ServerHost string
	// BaseURL is the public origin used to build short links, e.g. https://foodgram.example.com
	BaseURL string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Pagination
	PageSize int

	// Media storage. When S3Bucket is empty images are written to MediaDir.
	MediaDir  string
	MediaURL  string
	S3Bucket  string
	AWSRegion string

	CORSOrigins []string

	// Logging
	LogLevel  string
	LogFormat string

	// Recipe creation rate limit
	RateLimitWindow time.Duration
	RateLimitCount  int
}

// sensitive values may also be provided as Docker secrets
var secretKeys = map[string]string{
	"db_password":    "db_password",
	"jwt_secret":     "jwt_secret",
	"redis_password": "redis_password",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8000")
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "foodgram")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("sqlite_path", "foodgram.db")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("page_size", 6)
	v.SetDefault("media_dir", "media")
	v.SetDefault("media_url", "/media/")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("rate_limit_window", "1h")
	v.SetDefault("rate_limit_count", 30)
}

// LoadConfig builds a Config from defaults, an optional config.yaml, a .env file,
// environment variables and Docker secrets, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Env:             env,
		ServerPort:      v.GetString("server_port"),
		ServerHost:      v.GetString("server_host"),
		BaseURL:         strings.TrimRight(v.GetString("base_url"), "/"),
		DBDriver:        strings.ToLower(v.GetString("db_driver")),
		DBHost:          v.GetString("db_host"),
		DBPort:          v.GetString("db_port"),
		DBUser:          v.GetString("db_user"),
		DBPassword:      v.GetString("db_password"),
		DBName:          v.GetString("db_name"),
		DBSSLMode:       v.GetString("db_ssl_mode"),
		SQLitePath:      v.GetString("sqlite_path"),
		RedisHost:       v.GetString("redis_host"),
		RedisPort:       v.GetString("redis_port"),
		RedisPassword:   v.GetString("redis_password"),
		RedisDB:         v.GetInt("redis_db"),
		RedisURL:        v.GetString("redis_url"),
		JWTSecret:       v.GetString("jwt_secret"),
		TokenTTL:        v.GetDuration("token_ttl"),
		PageSize:        v.GetInt("page_size"),
		MediaDir:        v.GetString("media_dir"),
		MediaURL:        v.GetString("media_url"),
		S3Bucket:        v.GetString("s3_bucket_name"),
		AWSRegion:       v.GetString("aws_region"),
		CORSOrigins:     splitList(v.GetString("cors_origins")),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		RateLimitWindow: v.GetDuration("rate_limit_window"),
		RateLimitCount:  v.GetInt("rate_limit_count"),
	}

	// CI passes secrets as plain environment variables
	if env != CI {
		applySecrets(cfg)
	}

	if env == Development || env == Test {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = "insecure-development-secret"
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the lib/pq connection string for the configured Postgres database.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether enough Redis settings are present to connect.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func applySecrets(cfg *Config) {
	if s := readSecret(secretKeys["db_password"]); s != "" {
		cfg.DBPassword = s
	}
	if s := readSecret(secretKeys["jwt_secret"]); s != "" {
		cfg.JWTSecret = s
	}
	if s := readSecret(secretKeys["redis_password"]); s != "" {
		cfg.RedisPassword = s
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
