package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()

	if cfg.Planner.Adapter == "" || cfg.Planner.Model == "" {
		t.Errorf("planner target missing: %+v", cfg.Planner)
	}
	if cfg.Retrieval.CacheTTL() != 24*time.Hour {
		t.Errorf("cache ttl = %v, want 24h", cfg.Retrieval.CacheTTL())
	}
	if cfg.Retrieval.MaxParallel != 4 {
		t.Errorf("max parallel = %d, want 4", cfg.Retrieval.MaxParallel)
	}
	if cfg.DefaultLanguage != "en" {
		t.Errorf("default language = %q, want en", cfg.DefaultLanguage)
	}
	if cfg.EnableRepair == nil || !*cfg.EnableRepair {
		t.Errorf("repair should default to enabled")
	}
}

func TestLoadPipelineConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := `
planner:
  adapter: mock
  model: mock-1
retrieval:
  cache_ttl_hours: 1
  allowed_hosts:
    guichet:
      - guichet.public.lu
default_language: fr
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadPipelineConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Planner.Adapter != "mock" {
		t.Errorf("planner adapter = %q, want mock", cfg.Planner.Adapter)
	}
	if cfg.Retrieval.CacheTTL() != time.Hour {
		t.Errorf("cache ttl = %v, want 1h", cfg.Retrieval.CacheTTL())
	}
	// Unset fields still get defaults.
	if cfg.Agents.Adapter != "anthropic" {
		t.Errorf("agents adapter = %q, want default", cfg.Agents.Adapter)
	}
	if cfg.DefaultLanguage != "fr" {
		t.Errorf("default language = %q, want fr", cfg.DefaultLanguage)
	}
	if len(cfg.Retrieval.AllowedHosts["guichet"]) != 1 {
		t.Errorf("allowed hosts = %v", cfg.Retrieval.AllowedHosts)
	}
}

func TestLoadPipelineConfigMissingFile(t *testing.T) {
	if _, err := LoadPipelineConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	content := "api_keys:\n  anthropic: from-file\n  openai: file-openai\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg := baseConfig(dir)

	if cfg.AnthropicAPIKey != "from-env" {
		t.Errorf("anthropic key = %q, want env to win", cfg.AnthropicAPIKey)
	}
	if cfg.OpenAIAPIKey != "file-openai" {
		t.Errorf("openai key = %q, want file value", cfg.OpenAIAPIKey)
	}
}

func TestHasAdapter(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "key"}

	if !cfg.HasAdapter("openai") {
		t.Errorf("openai should be available")
	}
	if cfg.HasAdapter("anthropic") {
		t.Errorf("anthropic should be unavailable without a key")
	}
	if !cfg.HasAdapter("mock") {
		t.Errorf("mock needs no key")
	}
	if cfg.HasAdapter("unknown") {
		t.Errorf("unknown adapter should be unavailable")
	}
}
