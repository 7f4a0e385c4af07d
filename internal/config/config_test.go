package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ServerURL != "http://localhost:8000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Project != "default" || cfg.MaxLLMCalls != 5 {
		t.Errorf("got %+v", cfg)
	}
	if !cfg.MonitorHTTP || !cfg.BlockOnViolation {
		t.Error("monitoring and blocking default on")
	}
	if cfg.EnableLLMPolicy {
		t.Error("semantic stage defaults off")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentops.yaml")
	content := "server_url: https://collector.example.com/\n" +
		"project: billing\n" +
		"max_llm_calls: 8\n" +
		"block_on_violation: false\n" +
		"forbidden:\n  - codename\n" +
		"enable_llm_policy: true\n" +
		"llm_policy_model: gpt-4o-mini\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://collector.example.com" {
		t.Errorf("ServerURL = %q, want trailing slash trimmed", cfg.ServerURL)
	}
	if cfg.Project != "billing" || cfg.MaxLLMCalls != 8 {
		t.Errorf("got %+v", cfg)
	}
	if cfg.BlockOnViolation {
		t.Error("block_on_violation: false not applied")
	}
	if !cfg.MonitorHTTP {
		t.Error("unset field must keep its default")
	}
	if len(cfg.Forbidden) != 1 || cfg.Forbidden[0] != "codename" {
		t.Errorf("Forbidden = %v", cfg.Forbidden)
	}
	if !cfg.EnableLLMPolicy || cfg.LLMPolicyModel != "gpt-4o-mini" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server_url: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{ServerURL: "http://x/", MaxLLMCalls: -2}
	cfg.Normalize()
	if cfg.ServerURL != "http://x" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Project != "default" {
		t.Errorf("Project = %q", cfg.Project)
	}
	if cfg.MaxLLMCalls != 1 {
		t.Errorf("MaxLLMCalls = %d, want floor 1", cfg.MaxLLMCalls)
	}
}
