package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
storage:
  driver: memory
http:
  allowed_origins:
    - https://admin.petnest.example
dashboard:
  fresh_for: 2m
intake:
  submit_limit: 3
telegram:
  moderators_chat_id: -100123
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if len(cfg.HTTP.TrustedProxies) != 2 || cfg.HTTP.TrustedProxies[0] != "10.0.0.0/8" {
		t.Fatalf("unexpected trusted proxies: %v", cfg.HTTP.TrustedProxies)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("unexpected storage driver: %s", cfg.Storage.Driver)
	}
	if len(cfg.HTTP.AllowedOrigins) != 1 || cfg.HTTP.AllowedOrigins[0] != "https://admin.petnest.example" {
		t.Fatalf("unexpected allowed origins: %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.Dashboard.FreshFor != 2*time.Minute {
		t.Fatalf("unexpected dashboard fresh_for: %s", cfg.Dashboard.FreshFor)
	}
	if cfg.Intake.SubmitLimit != 3 {
		t.Fatalf("unexpected submit limit: %d", cfg.Intake.SubmitLimit)
	}
	if cfg.Telegram.ModeratorsChatID != -100123 {
		t.Fatalf("unexpected moderators chat id: %d", cfg.Telegram.ModeratorsChatID)
	}

	if cfg.Dashboard.StaleFor != 30*time.Minute {
		t.Fatalf("dashboard stale_for default should stay 30m, got %s", cfg.Dashboard.StaleFor)
	}
	if cfg.Dashboard.FetchTimeout != 10*time.Second {
		t.Fatalf("dashboard fetch_timeout default should stay 10s, got %s", cfg.Dashboard.FetchTimeout)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("http addr default should stay :8080, got %s", cfg.HTTP.Addr)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Driver != "postgres" {
		t.Fatalf("unexpected storage driver: %s", cfg.Storage.Driver)
	}
	if cfg.Cleanup.RejectedRetention != 30*24*time.Hour {
		t.Fatalf("unexpected rejected retention: %s", cfg.Cleanup.RejectedRetention)
	}
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http:\n  addr: \":9000\"\n"), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("HTTP_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.5")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("INTAKE_SUBMIT_WINDOW", "90s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected allowed origins: %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("unexpected storage driver: %s", cfg.Storage.Driver)
	}
	if cfg.Intake.SubmitWindow != 90*time.Second {
		t.Fatalf("unexpected submit window: %s", cfg.Intake.SubmitWindow)
	}
}

func TestEnvOverrideRejectsMalformedDuration(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_ACCESS_TTL", "soon")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected malformed duration to fail")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()

	keys := []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"HTTP_ALLOWED_ORIGINS",
		"HTTP_TRUSTED_PROXIES",
		"TELEGRAM_SEND_TIMEOUT",
		"LOG_LEVEL",
		"STORAGE_DRIVER",
		"POSTGRES_DSN",
		"POSTGRES_MIGRATE",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_USE_SSL",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"TELEGRAM_BOT_TOKEN",
		"TELEGRAM_MODERATORS_CHAT_ID",
		"INTAKE_SUBMIT_LIMIT",
		"INTAKE_SUBMIT_WINDOW",
		"CLEANUP_INTERVAL",
		"CLEANUP_REJECTED_RETENTION",
		"PETNEST_API_URL",
		"PETNEST_STATE_FILE",
		"PETNEST_CACHE_STORE",
		"BOOTSTRAP_ADMIN_EMAIL",
		"BOOTSTRAP_ADMIN_PASSWORD",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
