package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App          AppConfig
	ITop         ITopConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Ticket       TicketConfig
	Notification NotificationConfig
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

// ITopConfig holds the credentials and endpoint for the external ITSM.
// All of it except the tuning knobs is required at boot; the portal is
// useless without its backing system.
type ITopConfig struct {
	URL                string
	Version            string
	User               string
	Password           string
	DefaultOrgID       string
	ServiceName        string
	SubcategoryName    string
	TimeoutSeconds     int
	InsecureSkipVerify bool
}

// RedisConfig holds Redis connection values. An empty Addr disables the
// directory snapshot store entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// TicketConfig holds ticket workflow defaults.
type TicketConfig struct {
	DefaultStatus string
}

// NotificationConfig holds the optional event webhook target.
type NotificationConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables. The seven ITOP_*
// settings are mandatory and Load fails fast when any is missing.
func Load() (*Config, error) {
	_ = godotenv.Load()

	itop := ITopConfig{
		TimeoutSeconds:     getEnvAsInt("ITOP_TIMEOUT_SECONDS", 15),
		InsecureSkipVerify: getEnvAsBool("ITOP_TLS_SKIP_VERIFY", true),
	}
	required := []struct {
		key  string
		dest *string
	}{
		{"ITOP_API_URL", &itop.URL},
		{"ITOP_API_VERSION", &itop.Version},
		{"ITOP_API_USER", &itop.User},
		{"ITOP_API_PASSWORD", &itop.Password},
		{"ITOP_DEFAULT_ORG_ID", &itop.DefaultOrgID},
		{"ITOP_SERVICE_NAME", &itop.ServiceName},
		{"ITOP_SERVICESUBCATEGORY_NAME", &itop.SubcategoryName},
	}
	for _, entry := range required {
		val := os.Getenv(entry.key)
		if val == "" {
			return nil, fmt.Errorf("%s environment variable is required", entry.key)
		}
		*entry.dest = val
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		ITop: itop,
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Ticket: TicketConfig{
			DefaultStatus: getEnv("TICKET_DEFAULT_STATUS", "new"),
		},
		Notification: NotificationConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
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

// Timeout returns the outbound gateway call budget. Calls get a single
// attempt; there is no retry.
func (c ITopConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SnapshotsEnabled reports whether a snapshot store is configured.
func (r RedisConfig) SnapshotsEnabled() bool {
	return r.Addr != ""
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
