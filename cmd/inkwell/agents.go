package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inkwell-ai/inkwell/internal/config"
	"github.com/inkwell-ai/inkwell/internal/profile"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List configured agent profiles",
	Long: `List the agent profiles loaded from the profiles directory.

Profiles are YAML files, one agent each, with name, role, goal and
optional model, max_tokens, system_prompt and tools. Tasks pick an
agent by role or by profile name; without a match the deterministic
placeholder serves the task.`,
	RunE: runAgents,
}

func runAgents(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	repo := profile.NewRepository(cfg.Profiles.Dir)
	if err := repo.Load(); err != nil {
		return fmt.Errorf("load agent profiles: %w", err)
	}

	agents := repo.Agents()
	if len(agents) == 0 {
		fmt.Printf("No agent profiles found in %s.\n", cfg.Profiles.Dir)
		fmt.Println("Tasks will use the placeholder provider's defaults.")
		return nil
	}

	fmt.Printf("Agent profiles (%d):\n", len(agents))
	for _, a := range agents {
		fmt.Printf("  %s (%s)\n", color.CyanString(a.Name), a.Role)
		if a.Goal != "" {
			fmt.Printf("      %s\n", a.Goal)
		}
		var details []string
		if a.Model != "" {
			details = append(details, "model "+a.Model)
		}
		if a.MaxTokens > 0 {
			details = append(details, fmt.Sprintf("max_tokens %d", a.MaxTokens))
		}
		if len(a.Tools) > 0 {
			details = append(details, "tools "+strings.Join(a.Tools, ","))
		}
		if len(details) > 0 {
			fmt.Printf("      %s\n", strings.Join(details, ", "))
		}
	}
	return nil
}
