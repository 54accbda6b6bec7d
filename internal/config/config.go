package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server         ServerConfig
	DB             DBConfig
	JWT            JWTConfig
	S3             S3Config
	Log            LogConfig
	CORS           CORSConfig
	Queue          QueueConfig
	Email          EmailConfig
	Reconciliation ReconciliationConfig
	Cache          CacheConfig
	RateLimit      RateLimitConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// QueueConfig holds settlement import worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ReconciliationConfig holds matcher and reconciliation run settings.
type ReconciliationConfig struct {
	MatchThreshold      int           `mapstructure:"match_threshold"`
	ExclusiveAssignment bool          `mapstructure:"exclusive_assignment"`
	DefaultWindow       time.Duration `mapstructure:"default_window"`
	PaymentSlack        time.Duration `mapstructure:"payment_slack"`
	AlertRecipients     []string      `mapstructure:"alert_recipients"`
}

// CacheConfig holds in-process cache settings.
type CacheConfig struct {
	FinancialConfigTTL time.Duration `mapstructure:"financial_config_ttl"`
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds per-tenant request limits for quote and scoring endpoints.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"rps"`
	Burst             int     `mapstructure:"burst"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
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

// JWTConfig holds JWT verification settings. Tokens are issued by the
// platform's auth service with the same shared secret.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for the settlement feed archive.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the HOTELPMS_
// prefix. Variables from a .env file (or the given files) are loaded first
// and never override the real environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("loading env files: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("HOTELPMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "hotelpms")
	v.SetDefault("db.password", "hotelpms_secret")
	v.SetDefault("db.name", "hotelpms_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.issuer", "hotelpms")

	// S3 defaults
	v.SetDefault("s3.region", "eu-west-1")
	v.SetDefault("s3.bucket", "hotelpms-settlements")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 15)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 3)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-west-1")
	v.SetDefault("email.from_address", "noreply@hotelpms.app")
	v.SetDefault("email.from_name", "HotelPMS Finance")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Reconciliation defaults
	v.SetDefault("reconciliation.match_threshold", 50)
	v.SetDefault("reconciliation.exclusive_assignment", false)
	v.SetDefault("reconciliation.default_window", "720h")
	v.SetDefault("reconciliation.payment_slack", "168h")
	v.SetDefault("reconciliation.alert_recipients", "")

	// Cache defaults
	v.SetDefault("cache.financial_config_ttl", "5m")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Rate limit defaults
	v.SetDefault("rate_limit.rps", 10)
	v.SetDefault("rate_limit.burst", 20)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                         "HOTELPMS_SERVER_PORT",
		"server.read_timeout":                 "HOTELPMS_SERVER_READ_TIMEOUT",
		"server.write_timeout":                "HOTELPMS_SERVER_WRITE_TIMEOUT",
		"server.environment":                  "HOTELPMS_SERVER_ENVIRONMENT",
		"db.host":                             "HOTELPMS_DB_HOST",
		"db.port":                             "HOTELPMS_DB_PORT",
		"db.user":                             "HOTELPMS_DB_USER",
		"db.password":                         "HOTELPMS_DB_PASSWORD",
		"db.name":                             "HOTELPMS_DB_NAME",
		"db.sslmode":                          "HOTELPMS_DB_SSLMODE",
		"db.max_open":                         "HOTELPMS_DB_MAX_OPEN",
		"db.max_idle":                         "HOTELPMS_DB_MAX_IDLE",
		"jwt.secret":                          "HOTELPMS_JWT_SECRET",
		"jwt.access_expiry":                   "HOTELPMS_JWT_ACCESS_EXPIRY",
		"jwt.issuer":                          "HOTELPMS_JWT_ISSUER",
		"s3.region":                           "HOTELPMS_S3_REGION",
		"s3.bucket":                           "HOTELPMS_S3_BUCKET",
		"s3.endpoint":                         "HOTELPMS_S3_ENDPOINT",
		"s3.access_key":                       "HOTELPMS_S3_ACCESS_KEY",
		"s3.secret_key":                       "HOTELPMS_S3_SECRET_KEY",
		"s3.max_file_size_mb":                 "HOTELPMS_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                   "HOTELPMS_S3_PRESIGN_EXPIRY",
		"log.level":                           "HOTELPMS_LOG_LEVEL",
		"log.format":                          "HOTELPMS_LOG_FORMAT",
		"cors.allowed_origins":                "HOTELPMS_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":            "HOTELPMS_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":                   "HOTELPMS_QUEUE_MAX_RETRIES",
		"queue.concurrency":                   "HOTELPMS_QUEUE_CONCURRENCY",
		"email.provider":                      "HOTELPMS_EMAIL_PROVIDER",
		"email.region":                        "HOTELPMS_EMAIL_REGION",
		"email.from_address":                  "HOTELPMS_EMAIL_FROM_ADDRESS",
		"email.from_name":                     "HOTELPMS_EMAIL_FROM_NAME",
		"email.frontend_url":                  "HOTELPMS_EMAIL_FRONTEND_URL",
		"reconciliation.match_threshold":      "HOTELPMS_RECONCILIATION_MATCH_THRESHOLD",
		"reconciliation.exclusive_assignment": "HOTELPMS_RECONCILIATION_EXCLUSIVE_ASSIGNMENT",
		"reconciliation.default_window":       "HOTELPMS_RECONCILIATION_DEFAULT_WINDOW",
		"reconciliation.payment_slack":        "HOTELPMS_RECONCILIATION_PAYMENT_SLACK",
		"reconciliation.alert_recipients":     "HOTELPMS_RECONCILIATION_ALERT_RECIPIENTS",
		"cache.financial_config_ttl":          "HOTELPMS_CACHE_FINANCIAL_CONFIG_TTL",
		"cache.cleanup_interval":              "HOTELPMS_CACHE_CLEANUP_INTERVAL",
		"rate_limit.rps":                      "HOTELPMS_RATE_LIMIT_RPS",
		"rate_limit.burst":                    "HOTELPMS_RATE_LIMIT_BURST",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if HOTELPMS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HOTELPMS_SERVER_PORT") == "" {
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
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Reconciliation = ReconciliationConfig{
		MatchThreshold:      v.GetInt("reconciliation.match_threshold"),
		ExclusiveAssignment: v.GetBool("reconciliation.exclusive_assignment"),
		DefaultWindow:       v.GetDuration("reconciliation.default_window"),
		PaymentSlack:        v.GetDuration("reconciliation.payment_slack"),
		AlertRecipients:     splitList(v.GetString("reconciliation.alert_recipients")),
	}
	cfg.Cache = CacheConfig{
		FinancialConfigTTL: v.GetDuration("cache.financial_config_ttl"),
		CleanupInterval:    v.GetDuration("cache.cleanup_interval"),
	}
	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: v.GetFloat64("rate_limit.rps"),
		Burst:             v.GetInt("rate_limit.burst"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Reconciliation.MatchThreshold < 50 || c.Reconciliation.MatchThreshold > 100 {
		errs = append(errs, fmt.Errorf("reconciliation.match_threshold must be between 50 and 100, got %d", c.Reconciliation.MatchThreshold))
	}
	if c.Queue.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("queue.concurrency must be at least 1"))
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("rate_limit.rps and rate_limit.burst must be positive"))
	}
	if c.Server.Environment == "production" && c.JWT.Secret == "change-me-in-production" {
		errs = append(errs, fmt.Errorf("jwt.secret must be set in production"))
	}
	return errors.Join(errs...)
}

// splitList parses a comma-separated string, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
