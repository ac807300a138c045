package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Execution.FailurePolicy != "fail_fast" {
		t.Errorf("failure policy = %q", cfg.Execution.FailurePolicy)
	}
	if cfg.Execution.MaxAttempts != 3 {
		t.Errorf("max attempts = %d", cfg.Execution.MaxAttempts)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
anthropic:
  model: claude-sonnet-4-20250514
  use_bedrock: true
  aws_region: us-west-2
execution:
  failure_policy: best_effort
  max_attempts: 5
  task_timeout: 90s
profiles:
  dir: /etc/inkwell/profiles
  watch: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" || !cfg.Anthropic.UseBedrock {
		t.Errorf("anthropic config = %+v", cfg.Anthropic)
	}
	if cfg.Execution.FailurePolicy != "best_effort" || cfg.Execution.MaxAttempts != 5 {
		t.Errorf("execution config = %+v", cfg.Execution)
	}
	if cfg.Execution.TaskTimeout != 90*time.Second {
		t.Errorf("task timeout = %s", cfg.Execution.TaskTimeout)
	}
	// Untouched sections keep defaults.
	if cfg.Execution.WorkflowTimeout != 30*time.Minute {
		t.Errorf("workflow timeout = %s", cfg.Execution.WorkflowTimeout)
	}
	if cfg.Profiles.Dir != "/etc/inkwell/profiles" || !cfg.Profiles.Watch {
		t.Errorf("profiles config = %+v", cfg.Profiles)
	}
}

func TestLoadFromPathExpandsAPIKey(t *testing.T) {
	t.Setenv("TEST_INKWELL_KEY", "sk-test-123")

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "anthropic:\n  api_key: ${TEST_INKWELL_KEY}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-test-123" {
		t.Errorf("api key = %q", cfg.Anthropic.APIKey)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
