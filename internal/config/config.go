package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL      string
	Password string
	CacheTTL time.Duration
	Stream   string
}

// ArchiveConfig holds the grade archive connection. An empty DSN disables the archive.
type ArchiveConfig struct {
	Driver string // postgres or sqlite
	DSN    string
}

// AMQPConfig holds the analysis event exchange. An empty URL disables AMQP publishing.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// ProviderConfig holds the upstream college football data API settings
type ProviderConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// PollerConfig lists games refreshed in the background
type PollerConfig struct {
	TrackedGames []string
	Interval     time.Duration
}

// AnalysisConfig selects engine collaborators
type AnalysisConfig struct {
	PlayParser string
	TopPlayers int
}

// HubConfig selects where the live hub gets updates: "local" broadcasts runs from this
// process, "stream" tails the Redis analysis stream so every replica sees every run
type HubConfig struct {
	Source string
}

// LogConfig controls logger output
type LogConfig struct {
	Level  string
	Format string
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Archive  ArchiveConfig
	AMQP     AMQPConfig
	Provider ProviderConfig
	Poller   PollerConfig
	Analysis AnalysisConfig
	Hub      HubConfig
	Log      LogConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("SERVER_ADDR", ":8086"),
			CORSOrigins: getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "localhost:6380"),
			Password: getEnv("REDIS_PASSWORD", ""),
			CacheTTL: getDuration("ANALYSIS_CACHE_TTL", 10*time.Minute),
			Stream:   getEnv("ANALYSIS_STREAM", "analysis.completed.cfb"),
		},
		Archive: ArchiveConfig{
			Driver: getEnv("ARCHIVE_DRIVER", "postgres"),
			DSN:    getEnv("ARCHIVE_DSN", getEnv("POSTGRES_DSN", "")),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "cfb.analysis"),
		},
		Provider: ProviderConfig{
			BaseURL:    strings.TrimRight(getEnv("CFBD_BASE_URL", "https://api.collegefootballdata.com"), "/"),
			APIKey:     getEnv("CFBD_API_KEY", ""),
			Timeout:    getDuration("CFBD_TIMEOUT", 10*time.Second),
			MaxRetries: getInt("CFBD_MAX_RETRIES", 3),
			RetryDelay: getDuration("CFBD_RETRY_DELAY", 500*time.Millisecond),
		},
		Poller: PollerConfig{
			TrackedGames: getList("TRACKED_GAMES", nil),
			Interval:     getDuration("POLL_INTERVAL", 60*time.Second),
		},
		Analysis: AnalysisConfig{
			PlayParser: getEnv("PLAY_PARSER", "text"),
			TopPlayers: getInt("BROADCAST_TOP_PLAYERS", 5),
		},
		Hub: HubConfig{
			Source: getEnv("HUB_SOURCE", "local"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

// getDuration accepts Go durations ("30s") or a bare number of seconds
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getList splits a comma-separated variable, dropping blanks
func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
