package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Mailbox  MailboxConfig
	SMTP     SMTPConfig
	Ingest   IngestConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// MailboxConfig holds IMAP connection values for the inbound mailbox.
type MailboxConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	TLS            bool
	Folder         string
	TimeoutSeconds int
}

// SMTPConfig holds outbound mail submission values.
type SMTPConfig struct {
	Host           string
	Port           int
	Secure         bool
	User           string
	Password       string
	From           string
	TimeoutSeconds int
}

// IngestConfig tunes the mailbox ingestion loop and the classifier.
type IngestConfig struct {
	PollIntervalSeconds   int
	CycleTimeoutSeconds   int
	AllowedDomains        []string
	ResolutionKeywords    []string
	ExcludedSenders       []string
	RosterCacheTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5500"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Mailbox: MailboxConfig{
			Host:           os.Getenv("IMAP_HOST"),
			Port:           getEnvAsInt("IMAP_PORT", 993),
			User:           os.Getenv("IMAP_USER"),
			Password:       os.Getenv("IMAP_PASSWORD"),
			TLS:            getEnvAsBool("IMAP_TLS", true),
			Folder:         getEnv("IMAP_FOLDER", "INBOX"),
			TimeoutSeconds: getEnvAsInt("IMAP_TIMEOUT_SECONDS", 30),
		},
		SMTP: SMTPConfig{
			Host:           os.Getenv("SMTP_HOST"),
			Port:           getEnvAsInt("SMTP_PORT", 587),
			Secure:         getEnvAsBool("SMTP_SECURE", false),
			User:           os.Getenv("SMTP_USER"),
			Password:       os.Getenv("SMTP_PASSWORD"),
			From:           getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
			TimeoutSeconds: getEnvAsInt("SMTP_TIMEOUT_SECONDS", 30),
		},
		Ingest: IngestConfig{
			PollIntervalSeconds:   getEnvAsInt("INGEST_POLL_INTERVAL_SECONDS", 300),
			CycleTimeoutSeconds:   getEnvAsInt("INGEST_CYCLE_TIMEOUT_SECONDS", 120),
			AllowedDomains:        getEnvAsList("INGEST_ALLOWED_DOMAINS", "@gmail.com,@may-baker.com"),
			ResolutionKeywords:    getEnvAsList("INGEST_RESOLUTION_KEYWORDS", "resolved,completed,fixed,done"),
			ExcludedSenders:       getEnvAsList("INGEST_EXCLUDED_SENDERS", "hello@notify.railway.app"),
			RosterCacheTTLSeconds: getEnvAsInt("ROSTER_CACHE_TTL_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Addr returns the IMAP dial address.
func (m MailboxConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// Timeout bounds a single mailbox operation.
func (m MailboxConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Timeout bounds a single mail submission.
func (s SMTPConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// PollInterval returns the mailbox polling cadence.
func (i IngestConfig) PollInterval() time.Duration {
	if i.PollIntervalSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(i.PollIntervalSeconds) * time.Second
}

// CycleTimeout bounds one full ingestion cycle.
func (i IngestConfig) CycleTimeout() time.Duration {
	if i.CycleTimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(i.CycleTimeoutSeconds) * time.Second
}

// RosterCacheTTL returns how long a cached roster stays fresh.
func (i IngestConfig) RosterCacheTTL() time.Duration {
	if i.RosterCacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(i.RosterCacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key, fallback string) []string {
	val := os.Getenv(key)
	if val == "" {
		val = fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
