package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Workflow engine for long-form content generation",
	Long: `Inkwell runs multi-stage content workflows: it validates inputs,
renders task prompts from templates, executes the task graph in dependency
order, and dispatches each task to an AI agent selected by role or profile.

Built-in workflow types:
  enhanced_article    Three-stage article pipeline (brief, research, write-up)
  premium_newsletter  Seven-section premium newsletter with word budgets

Run 'inkwell workflows' for the full list including any custom definitions,
and 'inkwell generate <type> --input key=value ...' to produce content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
