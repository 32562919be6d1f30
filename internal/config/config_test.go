package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTP.Addr)
	}
	if len(cfg.DataSource.Symbols) != 5 || cfg.DataSource.Symbols[0] != "AAPL" || cfg.DataSource.Symbols[4] != "NVDA" {
		t.Fatalf("unexpected symbols %v", cfg.DataSource.Symbols)
	}
	if cfg.DataSource.RequestDelay != 200*time.Millisecond || cfg.Rotation.Interval != 5*time.Second || cfg.Subscription.StatusTTL != 3*time.Second {
		t.Fatalf("unexpected durations %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
http:
  addr: ":9090"
data_source:
  api_key: from-file
  symbols: [SPY, QQQ]
  request_delay: 1s
rotation:
  interval: 10s
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ALPHAVANTAGE_API_KEY", "from-env")
	t.Setenv("TIP_SYMBOLS", " aapl, ,msft ")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.HTTP.Addr)
	}
	if cfg.DataSource.APIKey != "from-env" {
		t.Fatalf("env should override api key, got %q", cfg.DataSource.APIKey)
	}
	if len(cfg.DataSource.Symbols) != 2 || cfg.DataSource.Symbols[0] != "AAPL" || cfg.DataSource.Symbols[1] != "MSFT" {
		t.Fatalf("unexpected symbols %v", cfg.DataSource.Symbols)
	}
	if cfg.DataSource.RequestDelay != time.Second || cfg.Rotation.Interval != 10*time.Second {
		t.Fatalf("durations not parsed: %+v", cfg)
	}
}

func TestLoadKeepsExplicitZeroRequestDelay(t *testing.T) {
	dir := t.TempDir()
	zero := filepath.Join(dir, "zero.yaml")
	if err := os.WriteFile(zero, []byte("data_source:\n  request_delay: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(zero)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DataSource.RequestDelay != 0 {
		t.Fatalf("explicit zero delay replaced with %v", cfg.DataSource.RequestDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero delay should validate: %v", err)
	}

	unset := filepath.Join(dir, "unset.yaml")
	if err := os.WriteFile(unset, []byte("data_source:\n  api_key: k\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(unset)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DataSource.RequestDelay != 200*time.Millisecond {
		t.Fatalf("unset delay should default to 200ms, got %v", cfg.DataSource.RequestDelay)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Telegram.BotToken = "token"
	if err := cfg.Validate(); err == nil {
		t.Fatal("bot token without chat id should fail")
	}
	cfg.Telegram.ChatID = "1"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Rotation.Interval = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative interval should fail")
	}
}
