package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/inkwell-ai/inkwell/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify Inkwell configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/inkwell/config.yaml
Project-specific overrides can be placed in .inkwell.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	// Mask API key if set
	apiKeyDisplay := "(not set)"
	if cfg.Anthropic.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", cfg.Anthropic.AWSRegion)
	fmt.Printf("anthropic.placeholder: %t\n", cfg.Anthropic.Placeholder)
	fmt.Printf("execution.failure_policy: %s\n", cfg.Execution.FailurePolicy)
	fmt.Printf("execution.max_attempts: %d\n", cfg.Execution.MaxAttempts)
	fmt.Printf("execution.task_timeout: %s\n", cfg.Execution.TaskTimeout)
	fmt.Printf("execution.workflow_timeout: %s\n", cfg.Execution.WorkflowTimeout)
	fmt.Printf("store.path: %s\n", cfg.Store.Path)
	fmt.Printf("store.in_memory: %t\n", cfg.Store.InMemory)
	fmt.Printf("profiles.dir: %s\n", cfg.Profiles.Dir)
	fmt.Printf("profiles.watch: %t\n", cfg.Profiles.Watch)
	fmt.Printf("workflows.dir: %s\n", cfg.Workflows.Dir)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if cfg.Anthropic.APIKey == "" {
			return "(not set)", nil
		}
		return "****", nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "anthropic.aws_profile":
		return cfg.Anthropic.AWSProfile, nil
	case "anthropic.placeholder":
		return strconv.FormatBool(cfg.Anthropic.Placeholder), nil
	case "execution.failure_policy":
		return cfg.Execution.FailurePolicy, nil
	case "execution.max_attempts":
		return strconv.Itoa(cfg.Execution.MaxAttempts), nil
	case "execution.task_timeout":
		return cfg.Execution.TaskTimeout.String(), nil
	case "execution.workflow_timeout":
		return cfg.Execution.WorkflowTimeout.String(), nil
	case "store.path":
		return cfg.Store.Path, nil
	case "store.in_memory":
		return strconv.FormatBool(cfg.Store.InMemory), nil
	case "profiles.dir":
		return cfg.Profiles.Dir, nil
	case "profiles.watch":
		return strconv.FormatBool(cfg.Profiles.Watch), nil
	case "workflows.dir":
		return cfg.Workflows.Dir, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.Anthropic.UseBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "anthropic.placeholder":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for placeholder: %w", err)
		}
		cfg.Anthropic.Placeholder = b
	case "execution.failure_policy":
		if value != "fail_fast" && value != "best_effort" {
			return fmt.Errorf("invalid failure_policy %q, expected fail_fast or best_effort", value)
		}
		cfg.Execution.FailurePolicy = value
	case "execution.max_attempts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_attempts: %w", err)
		}
		cfg.Execution.MaxAttempts = n
	case "execution.task_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for task_timeout: %w", err)
		}
		cfg.Execution.TaskTimeout = d
	case "execution.workflow_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for workflow_timeout: %w", err)
		}
		cfg.Execution.WorkflowTimeout = d
	case "store.path":
		cfg.Store.Path = value
	case "store.in_memory":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for in_memory: %w", err)
		}
		cfg.Store.InMemory = b
	case "profiles.dir":
		cfg.Profiles.Dir = value
	case "profiles.watch":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for watch: %w", err)
		}
		cfg.Profiles.Watch = b
	case "workflows.dir":
		cfg.Workflows.Dir = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
