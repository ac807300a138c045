package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inkwell-ai/inkwell/internal/agent"
	"github.com/inkwell-ai/inkwell/internal/config"
	"github.com/inkwell-ai/inkwell/internal/store"
)

func writeProfileFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
}

func placeholderConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Anthropic.Placeholder = true
	cfg.Profiles.Dir = t.TempDir()
	cfg.Store.InMemory = true
	return cfg
}

func TestBuildProviderPlaceholderMode(t *testing.T) {
	provider, err := buildProvider(placeholderConfig(t))
	if err != nil {
		t.Fatalf("buildProvider: %v", err)
	}
	if provider.Name() != agent.PlaceholderName {
		t.Errorf("provider = %s, want %s", provider.Name(), agent.PlaceholderName)
	}
}

func TestBuildProviderFallsBackWithoutKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := config.Default()
	cfg.Anthropic.APIKey = ""
	cfg.Anthropic.UseBedrock = false
	cfg.Anthropic.Placeholder = false

	provider, err := buildProvider(cfg)
	if err != nil {
		t.Fatalf("buildProvider: %v", err)
	}
	if provider.Name() != agent.PlaceholderName {
		t.Errorf("provider = %s, want placeholder fallback without a key", provider.Name())
	}
}

func TestBuildDispatcherAppliesRetryConfig(t *testing.T) {
	cfg := placeholderConfig(t)
	cfg.Execution.MaxAttempts = 5

	dispatcher, profiles, err := buildDispatcher(cfg)
	if err != nil {
		t.Fatalf("buildDispatcher: %v", err)
	}
	if dispatcher == nil {
		t.Fatal("expected a dispatcher")
	}
	if profiles == nil || profiles.Count() != 0 {
		t.Errorf("expected an empty profile repository for a fresh dir")
	}
}

func TestBuildDispatcherRejectsBrokenProfiles(t *testing.T) {
	cfg := placeholderConfig(t)
	writeProfileFile(t, cfg.Profiles.Dir, "broken.yaml", "name: [not a string\n")

	if _, _, err := buildDispatcher(cfg); err == nil {
		t.Fatal("expected an error for a malformed profile file")
	}
}

func TestBuildStoreInMemory(t *testing.T) {
	s, err := buildStore(placeholderConfig(t))
	if err != nil {
		t.Fatalf("buildStore: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*store.MemoryStore); !ok {
		t.Errorf("store = %T, want *store.MemoryStore", s)
	}
}
