package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Server.Addr != ":8086" {
		t.Errorf("Server.Addr = %s, want :8086", cfg.Server.Addr)
	}
	if cfg.Redis.Stream != "analysis.completed.cfb" {
		t.Errorf("Redis.Stream = %s", cfg.Redis.Stream)
	}
	if cfg.Archive.DSN != "" || cfg.Archive.Driver != "postgres" {
		t.Errorf("expected postgres archive disabled by default, got %+v", cfg.Archive)
	}
	if cfg.AMQP.URL != "" || cfg.AMQP.Exchange != "cfb.analysis" {
		t.Errorf("AMQP = %+v", cfg.AMQP)
	}
	if cfg.Provider.MaxRetries != 3 || cfg.Provider.Timeout != 10*time.Second {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.Poller.TrackedGames != nil || cfg.Poller.Interval != time.Minute {
		t.Errorf("Poller = %+v", cfg.Poller)
	}
	if cfg.Hub.Source != "local" {
		t.Errorf("Hub.Source = %s, want local", cfg.Hub.Source)
	}
	if cfg.Analysis.PlayParser != "text" {
		t.Errorf("Analysis.PlayParser = %s, want text", cfg.Analysis.PlayParser)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("CFBD_BASE_URL", "http://proxy.test/")
	t.Setenv("CFBD_TIMEOUT", "5")
	t.Setenv("CFBD_MAX_RETRIES", "x")
	t.Setenv("TRACKED_GAMES", "401520281,401520282")
	t.Setenv("POLL_INTERVAL", "90s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ARCHIVE_DRIVER", "sqlite")
	t.Setenv("POSTGRES_DSN", "postgres://ignored")
	t.Setenv("ARCHIVE_DSN", "file:grades.db")

	cfg := LoadConfig()

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %s", cfg.Server.Addr)
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.Server.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.Provider.BaseURL != "http://proxy.test" {
		t.Errorf("BaseURL = %s", cfg.Provider.BaseURL)
	}
	if cfg.Provider.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Provider.Timeout)
	}
	if cfg.Provider.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default on bad value", cfg.Provider.MaxRetries)
	}
	if want := []string{"401520281", "401520282"}; !reflect.DeepEqual(cfg.Poller.TrackedGames, want) {
		t.Errorf("TrackedGames = %v", cfg.Poller.TrackedGames)
	}
	if cfg.Poller.Interval != 90*time.Second {
		t.Errorf("Interval = %v", cfg.Poller.Interval)
	}
	if cfg.Archive.Driver != "sqlite" || cfg.Archive.DSN != "file:grades.db" {
		t.Errorf("Archive = %+v, want ARCHIVE_DSN to win", cfg.Archive)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s", cfg.Log.Level)
	}
}
