package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

func TestLoad_WithDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8084 {
		t.Errorf("Server.Port = %d, want 8084", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want localhost:6379", cfg.Redis.Addr)
	}
	if cfg.Redis.SnapshotTTL != 24*time.Hour {
		t.Errorf("Redis.SnapshotTTL = %v, want 24h", cfg.Redis.SnapshotTTL)
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("NATS.URL = %q, want nats://localhost:4222", cfg.NATS.URL)
	}
	if len(cfg.NATS.Relays) != 3 {
		t.Errorf("NATS.Relays = %v, want 3 relays", cfg.NATS.Relays)
	}
	if cfg.Collector.QueryTimeout != 8*time.Second {
		t.Errorf("Collector.QueryTimeout = %v, want 8s", cfg.Collector.QueryTimeout)
	}
	if cfg.Collector.CompletenessThreshold != 100 {
		t.Errorf("Collector.CompletenessThreshold = %d, want 100", cfg.Collector.CompletenessThreshold)
	}
	if !cfg.Scheduler.Enabled {
		t.Error("Scheduler.Enabled should be true by default")
	}
	if cfg.Scheduler.Interval != 5*time.Minute {
		t.Errorf("Scheduler.Interval = %v, want 5m", cfg.Scheduler.Interval)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Auth.JWTSecret != "" {
		t.Errorf("Auth.JWTSecret = %q, want empty", cfg.Auth.JWTSecret)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9090
nats:
  relays:
    - damus
collector:
  query_timeout: 3s
limits:
  running:
    min_pace_sec_per_km: 100
    max_pace_sec_per_km: 2000
    max_distance_km: 250
    max_duration_seconds: 200000
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if len(cfg.NATS.Relays) != 1 || cfg.NATS.Relays[0] != "damus" {
		t.Errorf("NATS.Relays = %v, want [damus]", cfg.NATS.Relays)
	}
	if cfg.Collector.QueryTimeout != 3*time.Second {
		t.Errorf("Collector.QueryTimeout = %v, want 3s", cfg.Collector.QueryTimeout)
	}

	limits := cfg.ValidatorLimits()
	running := limits[models.ActivityRunning]
	if running.MinPaceSecPerKm != 100 || running.MaxDistanceKm != 250 {
		t.Errorf("running limits = %+v, want overridden values", running)
	}
	// Unconfigured activities keep defaults.
	cycling := limits[models.ActivityCycling]
	if cycling.MinPaceSecPerKm != 30 {
		t.Errorf("cycling.MinPaceSecPerKm = %v, want default 30", cycling.MinPaceSecPerKm)
	}
}

func TestDefault_MatchesLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := Default()
	if cfg.Server != def.Server {
		t.Errorf("Server defaults diverged: Load=%+v Default=%+v", cfg.Server, def.Server)
	}
	if cfg.Collector != def.Collector {
		t.Errorf("Collector defaults diverged: Load=%+v Default=%+v", cfg.Collector, def.Collector)
	}
	if cfg.Scheduler != def.Scheduler {
		t.Errorf("Scheduler defaults diverged: Load=%+v Default=%+v", cfg.Scheduler, def.Scheduler)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Load() with non-existent file path should return error")
	}
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("invalid: yaml: : :"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() with invalid YAML should return error")
	}
}
