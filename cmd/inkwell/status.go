package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inkwell-ai/inkwell/internal/config"
	"github.com/inkwell-ai/inkwell/pkg/models"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status [instance-id]",
	Short: "Show recent workflow instances",
	Long: `Display recent workflow instances from the store, newest first.

With an instance ID, shows that instance's tasks, timings and result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 10, "Maximum number of instances to list")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	instanceStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer instanceStore.Close()

	if len(args) == 1 {
		instance, err := instanceStore.GetInstance(args[0])
		if err != nil {
			return fmt.Errorf("load instance: %w", err)
		}
		displayInstance(instance)
		return nil
	}

	instances, err := instanceStore.ListInstances(statusLimit)
	if err != nil {
		return fmt.Errorf("list instances: %w", err)
	}
	if len(instances) == 0 {
		fmt.Println("No workflow instances yet. Run 'inkwell generate <type>' to start.")
		return nil
	}

	fmt.Println("Recent instances:")
	for _, inst := range instances {
		fmt.Printf("  %s  %s  %s  %s ago\n",
			inst.ID, statusColor(inst.Status), inst.DefinitionName,
			formatDuration(time.Since(inst.CreatedAt)))
	}
	return nil
}

func displayInstance(inst *models.WorkflowInstance) {
	fmt.Printf("Instance %s\n", inst.ID)
	fmt.Printf("  Workflow: %s v%s\n", inst.DefinitionName, inst.DefinitionVersion)
	fmt.Printf("  Status: %s\n", statusColor(inst.Status))
	fmt.Printf("  Created: %s ago\n", formatDuration(time.Since(inst.CreatedAt)))
	if inst.StartedAt != nil && inst.CompletedAt != nil {
		fmt.Printf("  Duration: %s\n", formatDuration(inst.ExecutionTime()))
	}

	if len(inst.Tasks) > 0 {
		fmt.Println("\nTasks:")
		for i := range inst.Tasks {
			rt := &inst.Tasks[i]
			line := fmt.Sprintf("  %s  %s", rt.TaskID, rt.Status)
			if rt.TokensUsed > 0 {
				line += fmt.Sprintf("  (%d tokens, $%.4f)", rt.TokensUsed, rt.CostUSD)
			}
			if rt.Error != "" {
				line += "  " + color.RedString(rt.Error)
			}
			fmt.Println(line)
		}
	}

	if inst.Result != nil {
		fmt.Println("\nResult:")
		fmt.Printf("  Execution time: %.1fs\n", inst.Result.ExecutionTime)
		if inst.Result.ErrorMessage != "" {
			fmt.Printf("  Error: %s\n", color.RedString(inst.Result.ErrorMessage))
		}
		if inst.Result.FinalOutput != "" {
			fmt.Printf("  Final output: %d characters (rerun generate with --output to save)\n", len(inst.Result.FinalOutput))
		}
	}
}

func statusColor(s models.InstanceStatus) string {
	switch s {
	case models.InstanceStatusCompleted:
		return color.GreenString(string(s))
	case models.InstanceStatusFailed:
		return color.RedString(string(s))
	case models.InstanceStatusRunning:
		return color.CyanString(string(s))
	default:
		return string(s)
	}
}
