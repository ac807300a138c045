package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/inkwell-ai/inkwell/internal/config"
	"github.com/inkwell-ai/inkwell/internal/generate"
	"github.com/inkwell-ai/inkwell/internal/orchestrator"
	"github.com/inkwell-ai/inkwell/internal/workflow"
	"github.com/inkwell-ai/inkwell/pkg/models"
)

var (
	generateInputs        []string
	generateInputsFile    string
	generateOutputFile    string
	generateFailurePolicy string
	generatePlaceholder   bool
	generateInMemory      bool
	generateQuiet         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <workflow-type>",
	Short: "Run a content workflow",
	Long: `Run a workflow of the given type and print the final deliverable.

Inputs are supplied with repeated --input key=value flags, or as a YAML
map via --inputs-file. Array-typed variables accept comma-separated
values. Run 'inkwell workflows <type>' to see what a workflow expects.

Examples:
  inkwell generate enhanced_article \
    --input topic="sustainable supply chains" \
    --input client_name="Northwind Capital"

  inkwell generate premium_newsletter --inputs-file edition42.yaml \
    --output newsletter.md

  inkwell generate enhanced_article --placeholder \
    --input topic=testing --input client_name=acme`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringArrayVarP(&generateInputs, "input", "i", nil, "Workflow input as key=value (repeatable)")
	generateCmd.Flags().StringVar(&generateInputsFile, "inputs-file", "", "YAML file with workflow inputs")
	generateCmd.Flags().StringVarP(&generateOutputFile, "output", "o", "", "Write the final output to a file instead of stdout")
	generateCmd.Flags().StringVar(&generateFailurePolicy, "failure-policy", "", "Failure policy: fail_fast or best_effort (default from config)")
	generateCmd.Flags().BoolVar(&generatePlaceholder, "placeholder", false, "Use the deterministic placeholder provider (no API calls)")
	generateCmd.Flags().BoolVar(&generateInMemory, "in-memory", false, "Do not persist the instance to the store")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Suppress task progress output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	workflowType := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if generatePlaceholder {
		cfg.Anthropic.Placeholder = true
	}
	if generateInMemory {
		cfg.Store.InMemory = true
	}
	if generateFailurePolicy != "" {
		cfg.Execution.FailurePolicy = generateFailurePolicy
	}

	inputs, err := collectInputs()
	if err != nil {
		return err
	}

	dispatcher, profiles, err := buildDispatcher(cfg)
	if err != nil {
		return err
	}
	instanceStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer instanceStore.Close()

	registry, definitions, err := workflow.DefaultRegistry(cfg.Workflows.Dir)
	if err != nil {
		return fmt.Errorf("load workflow definitions: %w", err)
	}

	emitter := orchestrator.NewEventEmitter(64)
	var printerWG sync.WaitGroup
	if !generateQuiet {
		printerWG.Add(1)
		go func() {
			defer printerWG.Done()
			printEvents(emitter.Events())
		}()
	}

	uc := generate.NewUseCase(registry, definitions, dispatcher, instanceStore,
		generate.WithRunOptions(
			orchestrator.WithFailurePolicy(orchestrator.ParseFailurePolicy(cfg.Execution.FailurePolicy)),
			orchestrator.WithTaskTimeout(cfg.Execution.TaskTimeout),
			orchestrator.WithWorkflowTimeout(cfg.Execution.WorkflowTimeout),
			orchestrator.WithEmitter(emitter),
		))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Profiles.Watch {
		go func() {
			if err := profiles.Watch(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "profile watcher stopped: %v\n", err)
			}
		}()
	}

	result, err := uc.Execute(ctx, generate.Request{
		WorkflowType: workflowType,
		Inputs:       inputs,
	})
	emitter.Close()
	printerWG.Wait()
	if err != nil {
		return err
	}

	if result.Status != models.InstanceStatusCompleted {
		color.Red("Workflow %s failed: %s", result.InstanceID, result.ErrorMessage)
		return fmt.Errorf("workflow did not complete")
	}

	if !generateQuiet {
		color.Green("\nWorkflow %s completed in %.1fs", result.InstanceID, result.ExecutionTime)
		printSummary(result.Summary)
		fmt.Println()
	}

	if generateOutputFile != "" {
		if err := os.WriteFile(generateOutputFile, []byte(result.FinalOutput+"\n"), 0644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		fmt.Printf("Final output written to %s\n", generateOutputFile)
		return nil
	}
	fmt.Println(result.FinalOutput)
	return nil
}

// collectInputs merges --inputs-file values with --input flags; flags win.
func collectInputs() (models.Context, error) {
	inputs := models.NewContext()

	if generateInputsFile != "" {
		data, err := os.ReadFile(generateInputsFile)
		if err != nil {
			return nil, fmt.Errorf("read inputs file: %w", err)
		}
		var fromFile map[string]any
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("parse inputs file: %w", err)
		}
		for k, v := range fromFile {
			inputs.Set(k, v)
		}
	}

	for _, pair := range generateInputs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --input %q, expected key=value", pair)
		}
		inputs.Set(key, value)
	}
	return inputs, nil
}

// printEvents renders orchestrator progress to stderr until the emitter closes.
func printEvents(events <-chan orchestrator.Event) {
	for ev := range events {
		switch ev.Type {
		case orchestrator.EventWorkflowStarted:
			fmt.Fprintf(os.Stderr, "Running workflow instance %s\n", ev.InstanceID)
		case orchestrator.EventTaskStarted:
			fmt.Fprintf(os.Stderr, "  %s %s (%s)\n", color.CyanString("▶"), ev.TaskID, ev.Agent)
		case orchestrator.EventTaskCompleted:
			fmt.Fprintf(os.Stderr, "  %s %s (%s, %d tokens, $%.4f)\n",
				color.GreenString("✓"), ev.TaskID, ev.Duration.Round(timePrecision), ev.TokensUsed, ev.CostUSD)
		case orchestrator.EventTaskFailed:
			fmt.Fprintf(os.Stderr, "  %s %s: %v\n", color.RedString("✗"), ev.TaskID, ev.Error)
		case orchestrator.EventTaskSkipped:
			fmt.Fprintf(os.Stderr, "  %s %s: %s\n", color.YellowString("⊘"), ev.TaskID, ev.Message)
		}
	}
}

func printSummary(summary map[string]any) {
	if len(summary) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "Summary:")
	for _, key := range sortedKeys(summary) {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", key, summary[key])
	}
}
