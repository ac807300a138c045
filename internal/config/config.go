// Package config handles configuration loading for inkwell.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for inkwell.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Execution ExecutionConfig `mapstructure:"execution"`
	Store     StoreConfig     `mapstructure:"store"`
	Profiles  ProfilesConfig  `mapstructure:"profiles"`
	Workflows WorkflowsConfig `mapstructure:"workflows"`
}

// AnthropicConfig holds provider settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Model is the default model for agent calls.
	Model string `mapstructure:"model"`
	// UseBedrock routes calls through AWS Bedrock instead of the direct API.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion is the Bedrock region.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name.
	AWSProfile string `mapstructure:"aws_profile"`
	// Placeholder forces the deterministic offline provider.
	Placeholder bool `mapstructure:"placeholder"`
}

// ExecutionConfig holds orchestration settings.
type ExecutionConfig struct {
	// FailurePolicy is "fail_fast" or "best_effort".
	FailurePolicy string `mapstructure:"failure_policy"`
	// MaxAttempts bounds provider retries per task.
	MaxAttempts int `mapstructure:"max_attempts"`
	// TaskTimeout bounds each task's agent call.
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	// WorkflowTimeout bounds a whole run.
	WorkflowTimeout time.Duration `mapstructure:"workflow_timeout"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// Path is the SQLite database path. Empty uses the XDG data path.
	Path string `mapstructure:"path"`
	// InMemory disables durable persistence.
	InMemory bool `mapstructure:"in_memory"`
}

// ProfilesConfig holds agent profile settings.
type ProfilesConfig struct {
	// Dir is the agent profile directory.
	Dir string `mapstructure:"dir"`
	// Watch reloads profiles on file changes.
	Watch bool `mapstructure:"watch"`
}

// WorkflowsConfig holds workflow definition settings.
type WorkflowsConfig struct {
	// Dir overlays definitions over the built-ins.
	Dir string `mapstructure:"dir"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables. Precedence (highest to lowest):
// 1. Environment variables (INKWELL_*, ANTHROPIC_API_KEY)
// 2. Project config (.inkwell.yaml in current directory or a parent)
// 3. User config (~/.config/inkwell/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("INKWELL")
	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY", "INKWELL_API_KEY")
	v.BindEnv("anthropic.model", "INKWELL_MODEL")
	v.BindEnv("profiles.dir", "INKWELL_PROFILES_DIR")
	v.BindEnv("workflows.dir", "INKWELL_WORKFLOWS_DIR")
	v.BindEnv("store.path", "INKWELL_STORE_PATH")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing and
// the --config flag).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("anthropic.placeholder", cfg.Anthropic.Placeholder)
	v.Set("execution.failure_policy", cfg.Execution.FailurePolicy)
	v.Set("execution.max_attempts", cfg.Execution.MaxAttempts)
	v.Set("execution.task_timeout", cfg.Execution.TaskTimeout.String())
	v.Set("execution.workflow_timeout", cfg.Execution.WorkflowTimeout.String())
	v.Set("store.path", cfg.Store.Path)
	v.Set("store.in_memory", cfg.Store.InMemory)
	v.Set("profiles.dir", cfg.Profiles.Dir)
	v.Set("profiles.watch", cfg.Profiles.Watch)
	v.Set("workflows.dir", cfg.Workflows.Dir)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")
	v.SetDefault("anthropic.placeholder", false)

	v.SetDefault("execution.failure_policy", "fail_fast")
	v.SetDefault("execution.max_attempts", 3)
	v.SetDefault("execution.task_timeout", "5m")
	v.SetDefault("execution.workflow_timeout", "30m")

	v.SetDefault("store.path", "")
	v.SetDefault("store.in_memory", false)

	v.SetDefault("profiles.dir", "")
	v.SetDefault("profiles.watch", false)

	v.SetDefault("workflows.dir", "")
}

// getUserConfigDir returns the XDG config directory for inkwell.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "inkwell")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "inkwell")
	}
	return filepath.Join(home, ".config", "inkwell")
}

// findProjectConfig searches for .inkwell.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".inkwell.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}
	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Execution: ExecutionConfig{
			FailurePolicy:   "fail_fast",
			MaxAttempts:     3,
			TaskTimeout:     5 * time.Minute,
			WorkflowTimeout: 30 * time.Minute,
		},
	}
}
