package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zovida/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsForMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected backend base url: %q", cfg.Backend.BaseURL)
	}
	if cfg.Scheduler.CheckInterval != 60 {
		t.Fatalf("unexpected check interval: %d", cfg.Scheduler.CheckInterval)
	}
	if cfg.Backend.AnonymousUserID != "1" {
		t.Fatalf("unexpected anonymous user id: %q", cfg.Backend.AnonymousUserID)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
[backend]
base_url = "https://api.example.com/"
request_timeout = 5

[notifications]
ntfy_topic = " https://ntfy.sh/zovida-test "

[logging]
format = "JSON"
`)
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected file to exist")
	}
	if cfg.Backend.BaseURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/zovida-test" {
		t.Fatalf("expected topic trimmed, got %q", cfg.Notifications.NtfyTopic)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected format lowered, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsBadBackendURL(t *testing.T) {
	path := writeConfig(t, `
[backend]
base_url = "not a url"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected invalid base_url error")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "yaml"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected invalid logging.format error")
	}
}

func TestAssistantAPIKeyEnvOverride(t *testing.T) {
	t.Setenv(config.AssistantAPIKeyEnv, "env-key")
	path := writeConfig(t, `
[assistant]
api_key = "file-key"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assistant.APIKey != "env-key" {
		t.Fatalf("expected env override, got %q", cfg.Assistant.APIKey)
	}
}

func TestEnsureDirectoriesAndPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", dir, err)
		}
	}
	if !strings.HasPrefix(cfg.DatabasePath(), cfg.Paths.DataDir) {
		t.Fatalf("database path outside data dir: %q", cfg.DatabasePath())
	}
	if !strings.HasPrefix(cfg.LockPath(), cfg.Paths.LogDir) {
		t.Fatalf("lock path outside log dir: %q", cfg.LockPath())
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}
