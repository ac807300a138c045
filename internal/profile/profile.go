// Package profile loads agent profiles from YAML files and resolves them
// by name or capability role for task dispatch.
package profile

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Agent describes one configured agent: who it is, what role it can
// fill, and how its provider calls are shaped.
type Agent struct {
	// Name uniquely identifies the agent.
	Name string `yaml:"name"`
	// Role is the capability this agent fills (e.g. "researcher", "writer").
	Role string `yaml:"role"`
	// Goal is shown in listings and woven into the system prompt.
	Goal string `yaml:"goal,omitempty"`
	// SystemPrompt primes the provider for this agent's specialty.
	SystemPrompt string `yaml:"system_prompt,omitempty"`
	// Model overrides the default provider model when set.
	Model string `yaml:"model,omitempty"`
	// MaxTokens bounds the completion size. Zero means provider default.
	MaxTokens int64 `yaml:"max_tokens,omitempty"`
	// Tools lists the tool names this agent may invoke.
	Tools []string `yaml:"tools,omitempty"`
}

// Validate checks the fields a profile cannot work without.
func (a *Agent) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("agent profile has no name")
	}
	if a.Role == "" {
		return fmt.Errorf("agent profile %s has no role", a.Name)
	}
	return nil
}

// Parse decodes one agent profile from YAML.
func Parse(data []byte) (*Agent, error) {
	var agent Agent
	if err := yaml.Unmarshal(data, &agent); err != nil {
		return nil, fmt.Errorf("parse agent profile: %w", err)
	}
	if err := agent.Validate(); err != nil {
		return nil, err
	}
	return &agent, nil
}
