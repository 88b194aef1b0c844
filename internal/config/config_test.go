package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolateHome points $HOME at a temp dir so tests never read the real
// config file.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"MW_DB", "MW_MODEL", "ANTHROPIC_API_KEY", "MW_CLASSIFY_TIMEOUT_SECONDS", "MW_CLASSIFY_RPM"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != filepath.Join(home, ".local", "share", "mindweek", "mindweek.db") {
		t.Errorf("unexpected default db path: %s", cfg.DBPath)
	}
	if cfg.ClassifyTimeoutSeconds != 15 || cfg.RequestsPerMinute != 20 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Model != "" || cfg.APIKey != "" {
		t.Errorf("model and api key should default empty")
	}
	if cfg.ClassifyTimeout() != 15*time.Second {
		t.Errorf("ClassifyTimeout = %v", cfg.ClassifyTimeout())
	}
}

func TestLoadConfigFile(t *testing.T) {
	home := isolateHome(t)

	dir := filepath.Join(home, ".config", "mindweek")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "db_path: /tmp/custom.db\nmodel: claude-3-5-sonnet-latest\nclassify_timeout_seconds: 30\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("file db_path not applied: %s", cfg.DBPath)
	}
	if cfg.Model != "claude-3-5-sonnet-latest" {
		t.Errorf("file model not applied: %s", cfg.Model)
	}
	if cfg.ClassifyTimeoutSeconds != 30 {
		t.Errorf("file timeout not applied: %d", cfg.ClassifyTimeoutSeconds)
	}
	// Unset file keys keep their defaults.
	if cfg.RequestsPerMinute != 20 {
		t.Errorf("default rpm lost: %d", cfg.RequestsPerMinute)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	home := isolateHome(t)

	dir := filepath.Join(home, ".config", "mindweek")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Errorf("malformed config file should fail Load")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	home := isolateHome(t)

	dir := filepath.Join(home, ".config", "mindweek")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("db_path: /tmp/from-file.db\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MW_DB", "/tmp/from-env.db")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MW_CLASSIFY_RPM", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/tmp/from-env.db" {
		t.Errorf("env should win over file: %s", cfg.DBPath)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("api key env not applied")
	}
	if cfg.RequestsPerMinute != 5 {
		t.Errorf("rpm env not applied: %d", cfg.RequestsPerMinute)
	}
}

func TestValidateRanges(t *testing.T) {
	isolateHome(t)

	t.Setenv("MW_CLASSIFY_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Errorf("timeout 0 should be rejected")
	}

	t.Setenv("MW_CLASSIFY_TIMEOUT_SECONDS", "121")
	if _, err := Load(); err == nil {
		t.Errorf("timeout 121 should be rejected")
	}

	t.Setenv("MW_CLASSIFY_TIMEOUT_SECONDS", "120")
	t.Setenv("MW_CLASSIFY_RPM", "0")
	if _, err := Load(); err == nil {
		t.Errorf("rpm 0 should be rejected")
	}
}
