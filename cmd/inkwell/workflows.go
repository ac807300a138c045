package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inkwell-ai/inkwell/internal/config"
	"github.com/inkwell-ai/inkwell/internal/workflow"
	"github.com/inkwell-ai/inkwell/pkg/models"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows [type]",
	Short: "List workflow types or describe one",
	Long: `List the available workflow types, or show the variables and
tasks of a single type.

Custom definitions from the configured workflows directory overlay the
built-in ones when they share a type name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWorkflows,
}

func runWorkflows(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	_, definitions, err := workflow.DefaultRegistry(cfg.Workflows.Dir)
	if err != nil {
		return fmt.Errorf("load workflow definitions: %w", err)
	}

	if len(args) == 1 {
		def, ok := definitions[args[0]]
		if !ok {
			return fmt.Errorf("unknown workflow type %q, run 'inkwell workflows' for the list", args[0])
		}
		describeWorkflow(def)
		return nil
	}

	types := make([]string, 0, len(definitions))
	for t := range definitions {
		types = append(types, t)
	}
	sort.Strings(types)

	fmt.Println("Available workflow types:")
	for _, t := range types {
		def := definitions[t]
		fmt.Printf("  %s (v%s): %s\n", color.CyanString(t), def.Version, def.Description)
	}
	fmt.Println("\nRun 'inkwell workflows <type>' for variables and tasks.")
	return nil
}

func describeWorkflow(def *models.WorkflowDefinition) {
	fmt.Printf("%s (v%s)\n", color.CyanString(def.Name), def.Version)
	if def.Description != "" {
		fmt.Printf("  %s\n", def.Description)
	}
	fmt.Printf("  Handler: %s\n", def.Handler)
	if def.FinalTask != "" {
		fmt.Printf("  Final task: %s\n", def.FinalTask)
	}

	fmt.Println("\nVariables:")
	for _, v := range def.Variables {
		var attrs []string
		if v.Required {
			attrs = append(attrs, color.YellowString("required"))
		}
		if v.Default != nil {
			attrs = append(attrs, fmt.Sprintf("default %v", v.Default))
		}
		if v.Min != nil {
			attrs = append(attrs, fmt.Sprintf("min %g", *v.Min))
		}
		if v.Max != nil {
			attrs = append(attrs, fmt.Sprintf("max %g", *v.Max))
		}
		suffix := ""
		if len(attrs) > 0 {
			suffix = " (" + strings.Join(attrs, ", ") + ")"
		}
		fmt.Printf("  %s [%s]%s\n", v.Name, v.Type, suffix)
		if v.Description != "" {
			fmt.Printf("      %s\n", v.Description)
		}
	}

	fmt.Println("\nTasks:")
	for _, t := range def.Tasks {
		deps := "no dependencies"
		if len(t.DependsOn) > 0 {
			deps = "after " + strings.Join(t.DependsOn, ", ")
		}
		fmt.Printf("  %s: %s (agent %s, %s)\n", t.ID, t.Name, t.Agent, deps)
	}
}
