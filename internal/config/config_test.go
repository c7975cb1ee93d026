package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("RAGCHAT_BASE_URL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:5000" {
		t.Errorf("unexpected base url %q", cfg.Server.BaseURL)
	}
	if cfg.Chat.Variant != VariantImage {
		t.Errorf("unexpected variant %q", cfg.Chat.Variant)
	}
	if cfg.Server.Timeout() != 0 {
		t.Errorf("default timeout should be zero, got %v", cfg.Server.Timeout())
	}
	if cfg.Backend.TopK != 4 || cfg.Backend.Chunker.SentencesPerChunk != 5 {
		t.Errorf("unexpected backend defaults %+v", cfg.Backend)
	}
}

func TestLoad_FillsDefaults(t *testing.T) {
	t.Setenv("RAGCHAT_BASE_URL", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  timeout_secs: 10
chat:
  variant: text
backend:
  embedder:
    type: openai
    openai: {}
  history:
    type: redis
    redis: {}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Timeout() != 10*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Server.Timeout())
	}
	if cfg.Chat.Variant != VariantText {
		t.Errorf("unexpected variant %q", cfg.Chat.Variant)
	}
	if cfg.Server.BaseURL == "" || len(cfg.Upload.Extensions) == 0 {
		t.Error("expected server and upload defaults to be filled")
	}
	if got := cfg.Backend.Embedder.OpenAI.APIKeyEnv; got != "OPENAI_API_KEY" {
		t.Errorf("unexpected api key env %q", got)
	}
	if got := cfg.Backend.History.Redis.Addr; got != "localhost:6379" {
		t.Errorf("unexpected redis addr %q", got)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RAGCHAT_BASE_URL", "http://example.test:8080")
	t.Setenv("RAGCHAT_SESSION_ID", "fixed")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.BaseURL != "http://example.test:8080" || cfg.Server.SessionID != "fixed" {
		t.Errorf("env not applied: %+v", cfg.Server)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("RAGCHAT_BASE_URL", "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Server.BaseURL = "http://saved:1"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Server.BaseURL != "http://saved:1" || got.Backend.Addr != ":5000" {
		t.Errorf("unexpected config %+v", got)
	}
}
