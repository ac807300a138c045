package main

import (
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/inkwell-ai/inkwell/internal/agent"
	"github.com/inkwell-ai/inkwell/internal/config"
	"github.com/inkwell-ai/inkwell/internal/profile"
	"github.com/inkwell-ai/inkwell/internal/store"
)

// buildProvider selects the content provider per config. Without an API
// key (and outside Bedrock mode) it falls back to the deterministic
// placeholder so workflows stay runnable offline.
func buildProvider(cfg *config.Config) (agent.Provider, error) {
	if cfg.Anthropic.Placeholder {
		return agent.NewPlaceholderProvider(), nil
	}
	if !cfg.Anthropic.UseBedrock && cfg.Anthropic.APIKey == "" && os.Getenv("ANTHROPIC_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "No API key configured; using placeholder provider. Set ANTHROPIC_API_KEY or 'inkwell config anthropic.api_key <key>'.")
		return agent.NewPlaceholderProvider(), nil
	}
	provider, err := agent.NewAnthropicProvider(agent.AnthropicConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return provider, nil
}

// buildDispatcher assembles the task dispatcher: provider, agent profile
// repository, tool registry, and retry policy from config.
func buildDispatcher(cfg *config.Config) (*agent.Dispatcher, *profile.Repository, error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	repo := profile.NewRepository(cfg.Profiles.Dir)
	if err := repo.Load(); err != nil {
		return nil, nil, fmt.Errorf("load agent profiles: %w", err)
	}

	opts := []agent.DispatcherOption{
		agent.WithProfiles(repo),
		agent.WithTools(builtinTools()),
	}
	if cfg.Execution.MaxAttempts > 0 {
		policy := agent.DefaultRetryPolicy()
		policy.MaxAttempts = cfg.Execution.MaxAttempts
		opts = append(opts, agent.WithRetryPolicy(policy))
	}

	return agent.NewDispatcher(provider, opts...), repo, nil
}

// buildStore opens the configured instance store.
func buildStore(cfg *config.Config) (store.InstanceStore, error) {
	if cfg.Store.InMemory {
		return store.NewMemoryStore(), nil
	}
	path := cfg.Store.Path
	if path == "" {
		path = store.DefaultDBPath()
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instance store: %w", err)
	}
	return db, nil
}
