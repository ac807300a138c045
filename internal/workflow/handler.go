// Package workflow provides per-workflow-type behavior: input validation,
// context preparation, and post-processing hooks, resolved by type name
// from a registry populated at startup.
package workflow

import (
	"log"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

// Handler is the hook set a workflow type plugs into the execution engine.
// Handlers are stateless; all per-run state lives in the Context.
type Handler interface {
	// ValidateInputs checks the input context against the workflow type's
	// constraints. It runs to completion and returns a *ValidationError
	// listing every violation found, never just the first.
	ValidateInputs(ctx models.Context) error

	// PrepareContext injects computed defaults and derived values before
	// any task executes, returning the enriched context.
	PrepareContext(ctx models.Context) (models.Context, error)

	// PostProcessTask lets the handler extract signals from a completed
	// task's output. It must not alter the task's own result.
	PostProcessTask(taskID, output string, ctx models.Context) models.Context

	// PostProcessWorkflow finalizes the context after all tasks finished.
	// Implementations must never propagate a failure: already-produced
	// content is not lost because post-processing broke.
	PostProcessWorkflow(ctx models.Context) models.Context
}

// Context keys written by the base post-processing pass.
const (
	// KeyFinalOutput holds the selected deliverable text.
	KeyFinalOutput = models.KeyFinalOutput
	// KeyWorkflowSummary holds the handler's run summary map.
	KeyWorkflowSummary = "workflow_summary"
)

// BaseHandler implements the Handler hooks shared by every workflow type:
// definition-driven required-variable validation, default injection, and
// final content selection. Concrete handlers embed it and override what
// they need.
type BaseHandler struct {
	// Definition is the workflow definition this handler validates against.
	Definition *models.WorkflowDefinition
}

var _ Handler = (*BaseHandler)(nil)

// ValidateInputs enforces the definition's variable specs: presence of
// required variables plus type and bound checks. All violations are
// collected before returning.
func (h *BaseHandler) ValidateInputs(ctx models.Context) error {
	var violations []string
	for _, spec := range h.Definition.Variables {
		value, ok := ctx[spec.Name]
		if !ok || value == nil {
			if spec.Required {
				violations = append(violations, "missing required variable: "+spec.Name)
			}
			continue
		}
		if err := spec.Validate(value); err != nil {
			violations = append(violations, err.Error())
		}
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// PrepareContext injects declared defaults for absent variables and stamps
// the workflow identity keys.
func (h *BaseHandler) PrepareContext(ctx models.Context) (models.Context, error) {
	for _, spec := range h.Definition.Variables {
		if !ctx.Has(spec.Name) && spec.Default != nil {
			ctx.Set(spec.Name, spec.Default)
		}
	}
	ctx.Set("workflow_name", h.Definition.Name)
	ctx.Set("workflow_version", h.Definition.Version)
	return ctx, nil
}

// PostProcessTask is a no-op in the base handler.
func (h *BaseHandler) PostProcessTask(taskID, output string, ctx models.Context) models.Context {
	return ctx
}

// PostProcessWorkflow selects the final output and never lets an internal
// failure escape: on panic the context is returned unmodified.
func (h *BaseHandler) PostProcessWorkflow(ctx models.Context) (out models.Context) {
	out = ctx
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[workflow] post-processing panic recovered, context preserved: %v", r)
		}
	}()
	ctx.Set(KeyFinalOutput, SelectFinalOutput(h.Definition, ctx))
	return ctx
}

// SelectFinalOutput picks the deliverable from the accumulated task
// outputs. The definition's final task wins unconditionally regardless of
// length; only when no final task is marked (or it produced nothing) does
// the longest output win. An earlier research task out-writing the intended
// deliverable must never displace it.
func SelectFinalOutput(def *models.WorkflowDefinition, ctx models.Context) string {
	if def.FinalTask != "" {
		if s := ctx.String(models.OutputKey(def.FinalTask), ""); s != "" {
			return s
		}
		log.Printf("[workflow] final task %s produced no output, falling back to longest", def.FinalTask)
	}

	var longest string
	for _, output := range ctx.TaskOutputs() {
		if len(output) > len(longest) {
			longest = output
		}
	}
	return longest
}
