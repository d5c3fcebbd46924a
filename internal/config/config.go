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
	Auth     AuthConfig
	Feed     FeedConfig
	Live     LiveConfig
	Issues   IssuesConfig
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

// AuthConfig defines how bearer tokens issued by the auth backend are verified.
type AuthConfig struct {
	JWTSecret string
}

// FeedSource selects where change events come from.
type FeedSource string

const (
	FeedSourcePostgres FeedSource = "postgres"
	FeedSourceRedis    FeedSource = "redis"
	FeedSourceNone     FeedSource = "none"
)

// FeedConfig configures the change feed.
type FeedConfig struct {
	Source            FeedSource
	PostgresChannel   string
	RedisChannel      string
	RelayToRedis      bool
	SubscriberBuffer  int
	ReconnectDelaySec int
	DedupTTLSeconds   int
}

// LiveConfig configures the streaming screens.
type LiveConfig struct {
	ResyncIntervalSeconds    int
	HeartbeatIntervalSeconds int
	NotificationLimit        int
}

// IssuesConfig holds issue reporting limits.
type IssuesConfig struct {
	DailyReportLimit int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	source := FeedSource(strings.ToLower(getEnv("FEED_SOURCE", string(FeedSourcePostgres))))
	switch source {
	case FeedSourcePostgres, FeedSourceRedis, FeedSourceNone:
	default:
		return nil, fmt.Errorf("invalid FEED_SOURCE: %q", source)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "civic-issue-reporter"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
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
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "dev-secret"),
		},
		Feed: FeedConfig{
			Source:            source,
			PostgresChannel:   getEnv("FEED_POSTGRES_CHANNEL", "civic_changes"),
			RedisChannel:      getEnv("FEED_REDIS_CHANNEL", "civic:changes"),
			RelayToRedis:      getEnvAsBool("FEED_RELAY_TO_REDIS", false),
			SubscriberBuffer:  getEnvAsInt("FEED_SUBSCRIBER_BUFFER", 64),
			ReconnectDelaySec: getEnvAsInt("FEED_RECONNECT_DELAY_SECONDS", 5),
			DedupTTLSeconds:   getEnvAsInt("FEED_DEDUP_TTL_SECONDS", 3600),
		},
		Live: LiveConfig{
			ResyncIntervalSeconds:    getEnvAsInt("LIVE_RESYNC_INTERVAL_SECONDS", 300),
			HeartbeatIntervalSeconds: getEnvAsInt("LIVE_HEARTBEAT_INTERVAL_SECONDS", 25),
			NotificationLimit:        getEnvAsInt("LIVE_NOTIFICATION_LIMIT", 20),
		},
		Issues: IssuesConfig{
			DailyReportLimit: getEnvAsInt("ISSUE_DAILY_LIMIT", 10),
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

// ReconnectDelay returns the pause between feed reconnect attempts.
func (f FeedConfig) ReconnectDelay() time.Duration {
	return secondsOr(f.ReconnectDelaySec, 5*time.Second)
}

// DedupTTL returns how long a seen event id is remembered.
func (f FeedConfig) DedupTTL() time.Duration {
	return secondsOr(f.DedupTTLSeconds, time.Hour)
}

// ResyncInterval returns how often live screens reload their snapshot.
func (l LiveConfig) ResyncInterval() time.Duration {
	return secondsOr(l.ResyncIntervalSeconds, 0)
}

// HeartbeatInterval returns the SSE keep-alive period.
func (l LiveConfig) HeartbeatInterval() time.Duration {
	return secondsOr(l.HeartbeatIntervalSeconds, 25*time.Second)
}

func secondsOr(sec int, fallback time.Duration) time.Duration {
	if sec <= 0 {
		return fallback
	}
	return time.Duration(sec) * time.Second
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
