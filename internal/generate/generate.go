// Package generate is the use case façade: one call takes a workflow
// type and inputs and returns the finished deliverable, with the
// instance persisted along the way.
package generate

import (
	"context"
	"fmt"
	"log"

	"github.com/inkwell-ai/inkwell/internal/orchestrator"
	"github.com/inkwell-ai/inkwell/internal/store"
	"github.com/inkwell-ai/inkwell/internal/workflow"
	"github.com/inkwell-ai/inkwell/pkg/models"
)

// Request describes one content generation run.
type Request struct {
	// WorkflowType selects the registered workflow handler.
	WorkflowType string
	// Inputs is the caller-supplied variable context.
	Inputs models.Context
}

// Result is the outcome of one run.
type Result struct {
	// InstanceID identifies the persisted workflow instance.
	InstanceID string
	// Status is the instance's final lifecycle state.
	Status models.InstanceStatus
	// FinalOutput is the selected deliverable text.
	FinalOutput string
	// TaskOutputs maps task IDs to their raw outputs.
	TaskOutputs map[string]string
	// Summary carries the handler's run summary.
	Summary map[string]any
	// ExecutionTime is the wall-clock run duration in seconds.
	ExecutionTime float64
	// ErrorMessage is set when the instance failed.
	ErrorMessage string
}

// UseCase wires the workflow registry, orchestrator, and instance store
// into the single entry point the CLI calls.
type UseCase struct {
	registry    *workflow.Registry
	definitions map[string]*models.WorkflowDefinition
	executor    orchestrator.TaskExecutor
	store       store.InstanceStore
	runOpts     []orchestrator.Option
}

// Option configures a UseCase.
type Option func(*UseCase)

// WithRunOptions forwards orchestrator options (failure policy,
// timeouts, event emitter) to every run.
func WithRunOptions(opts ...orchestrator.Option) Option {
	return func(u *UseCase) { u.runOpts = opts }
}

// NewUseCase creates the façade. The store may be nil, in which case
// instances are kept in memory only.
func NewUseCase(registry *workflow.Registry, definitions map[string]*models.WorkflowDefinition,
	executor orchestrator.TaskExecutor, instanceStore store.InstanceStore, opts ...Option) *UseCase {
	if instanceStore == nil {
		instanceStore = store.NewMemoryStore()
	}
	u := &UseCase{
		registry:    registry,
		definitions: definitions,
		executor:    executor,
		store:       instanceStore,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// WorkflowTypes lists the available workflow types.
func (u *UseCase) WorkflowTypes() []string {
	return u.registry.Types()
}

// Definition returns the definition for a workflow type.
func (u *UseCase) Definition(workflowType string) (*models.WorkflowDefinition, bool) {
	def, ok := u.definitions[workflowType]
	return def, ok
}

// Instance loads a persisted instance by ID.
func (u *UseCase) Instance(id string) (*models.WorkflowInstance, error) {
	return u.store.GetInstance(id)
}

// Instances lists persisted instances, newest first.
func (u *UseCase) Instances(limit int) ([]*models.WorkflowInstance, error) {
	return u.store.ListInstances(limit)
}

// Execute runs one workflow end to end: resolve the handler, validate
// and prepare inputs, execute the task graph, post-process, and persist.
// Pre-execution problems (unknown type, invalid inputs, bad graph)
// return an error with no result; runtime task failures are captured in
// the returned Result with a failed status.
func (u *UseCase) Execute(ctx context.Context, req Request) (*Result, error) {
	handler, err := u.registry.Resolve(req.WorkflowType)
	if err != nil {
		return nil, err
	}
	def, ok := u.definitions[req.WorkflowType]
	if !ok {
		return nil, fmt.Errorf("no definition for workflow type %q", req.WorkflowType)
	}

	inputs := req.Inputs
	if inputs == nil {
		inputs = models.NewContext()
	}
	if err := handler.ValidateInputs(inputs); err != nil {
		return nil, err
	}

	prepared, err := handler.PrepareContext(inputs.Clone())
	if err != nil {
		return nil, fmt.Errorf("prepare context: %w", err)
	}

	instance := models.NewInstance(def, prepared)
	log.Printf("[generate] instance %s created for %s v%s", instance.ID, def.Name, def.Version)
	if err := u.store.SaveInstance(instance); err != nil {
		return nil, fmt.Errorf("persist instance: %w", err)
	}

	orch := orchestrator.New(u.executor, u.runOpts...)
	if err := orch.Run(ctx, instance, def, handler); err != nil {
		// The graph was rejected before any task ran; the instance stays
		// in created. Record why so the history is not silent.
		instance.Result = &models.WorkflowResult{ErrorMessage: err.Error()}
		if saveErr := u.store.SaveInstance(instance); saveErr != nil {
			log.Printf("[generate] persist instance %s: %v", instance.ID, saveErr)
		}
		return nil, err
	}

	instance.Context = handler.PostProcessWorkflow(instance.Context)
	instance.Result.FinalOutput = instance.Context.String(workflow.KeyFinalOutput, "")
	if summary, ok := instance.Context[workflow.KeyWorkflowSummary].(map[string]any); ok {
		instance.Summary = summary
	}
	if err := u.store.SaveInstance(instance); err != nil {
		return nil, fmt.Errorf("persist instance: %w", err)
	}

	return &Result{
		InstanceID:    instance.ID,
		Status:        instance.Status,
		FinalOutput:   instance.Result.FinalOutput,
		TaskOutputs:   instance.Result.TaskOutputs,
		Summary:       instance.Summary,
		ExecutionTime: instance.Result.ExecutionTime,
		ErrorMessage:  instance.Result.ErrorMessage,
	}, nil
}
