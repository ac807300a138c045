package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/inkwell-ai/inkwell/internal/template"
	"github.com/inkwell-ai/inkwell/pkg/models"
)

// TaskExecutor runs one task's rendered prompt against an agent and
// returns the produced content. The agent dispatcher implements this.
type TaskExecutor interface {
	Execute(ctx context.Context, task models.TaskSpec, prompt string, wfCtx models.Context) (*models.TaskResult, error)
}

// TaskPostProcessor receives each completed task's output and may derive
// additional context values from it. Workflow handlers implement this.
type TaskPostProcessor interface {
	PostProcessTask(taskID, output string, ctx models.Context) models.Context
}

// Orchestrator executes a workflow instance: it schedules tasks whose
// dependencies are satisfied, runs each ready set concurrently, and
// merges outputs back into the instance context between waves.
type Orchestrator struct {
	executor TaskExecutor
	opts     orchestratorOptions
}

// New creates an Orchestrator around a task executor.
func New(executor TaskExecutor, opts ...Option) *Orchestrator {
	o := &Orchestrator{executor: executor}
	o.opts.debugLog = func(format string, args ...interface{}) {}
	for _, opt := range opts {
		opt(&o.opts)
	}
	return o
}

// taskOutcome carries one task's execution result back to the scheduling
// loop, which applies all mutations sequentially.
type taskOutcome struct {
	taskID string
	result *models.TaskResult
	err    error
}

// Run executes the instance's tasks over the definition's dependency
// graph. Definition-level problems (unknown dependency, cycle) are
// returned before any task starts and leave the instance in the created
// state. Runtime task failures do not produce an error; they are
// recorded on the instance, which ends up failed.
func (o *Orchestrator) Run(ctx context.Context, instance *models.WorkflowInstance, def *models.WorkflowDefinition, post TaskPostProcessor) error {
	graph := NewGraph()
	graph.SetDebugLog(o.opts.debugLog)
	if err := graph.Build(def.Tasks); err != nil {
		return fmt.Errorf("build task graph: %w", err)
	}

	if o.opts.workflowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.workflowTimeout)
		defer cancel()
	}

	now := time.Now().UTC()
	instance.Status = models.InstanceStatusRunning
	instance.StartedAt = &now
	o.emit(Event{Type: EventWorkflowStarted, InstanceID: instance.ID,
		Message: fmt.Sprintf("%s v%s, %d tasks", def.Name, def.Version, len(def.Tasks))})

	var failures []string
	for {
		if err := ctx.Err(); err != nil {
			o.skipAllPending(instance, "workflow cancelled")
			failures = append(failures, fmt.Sprintf("workflow cancelled: %v", err))
			break
		}

		ready := o.readyPending(instance, graph)
		if len(ready) == 0 {
			break
		}

		outcomes := o.runWave(ctx, instance, graph, ready)

		var failed []string
		for _, outcome := range outcomes {
			if outcome.err != nil {
				o.markFailed(instance, outcome.taskID, outcome.err)
				failures = append(failures, fmt.Sprintf("%s: %v", outcome.taskID, outcome.err))
				failed = append(failed, outcome.taskID)
				continue
			}
			o.markCompleted(instance, graph, outcome, post)
		}

		for _, taskID := range failed {
			o.skipDependents(instance, graph, taskID)
		}
		if len(failed) > 0 && o.opts.policy == FailFast {
			o.skipAllPending(instance, "execution stopped after failure")
			break
		}
	}

	// Anything still pending has unsatisfiable dependencies.
	o.skipAllPending(instance, "dependency did not complete")

	done := time.Now().UTC()
	instance.CompletedAt = &done
	if instance.AllCompleted() {
		instance.Status = models.InstanceStatusCompleted
		o.emit(Event{Type: EventWorkflowCompleted, InstanceID: instance.ID,
			Duration: instance.ExecutionTime()})
	} else {
		instance.Status = models.InstanceStatusFailed
		o.emit(Event{Type: EventWorkflowFailed, InstanceID: instance.ID,
			Message: strings.Join(failures, "; "), Duration: instance.ExecutionTime()})
	}

	instance.Result = &models.WorkflowResult{
		TaskOutputs:   instance.Context.TaskOutputs(),
		ExecutionTime: instance.ExecutionTime().Seconds(),
		ErrorMessage:  strings.Join(failures, "; "),
	}
	return nil
}

// readyPending returns the graph's ready set restricted to tasks whose
// runtime is still pending, so failed and skipped tasks never re-enter.
func (o *Orchestrator) readyPending(instance *models.WorkflowInstance, graph *DependencyGraph) []string {
	var ready []string
	for _, taskID := range graph.GetReady() {
		rt := instance.Task(taskID)
		if rt != nil && rt.Status == models.TaskStatusPending {
			ready = append(ready, taskID)
		}
	}
	return ready
}

// runWave executes one ready set concurrently and collects the outcomes.
// The instance context is only read during a wave; all writes happen
// sequentially once every task in the wave has returned.
func (o *Orchestrator) runWave(ctx context.Context, instance *models.WorkflowInstance, graph *DependencyGraph, ready []string) []taskOutcome {
	o.opts.debugLog("[orchestrator] wave of %d tasks: %v", len(ready), ready)

	outcomes := make(chan taskOutcome, len(ready))
	var wg sync.WaitGroup
	for _, taskID := range ready {
		spec := graph.Task(taskID)
		rt := instance.Task(taskID)
		started := time.Now().UTC()
		rt.Status = models.TaskStatusRunning
		rt.StartedAt = &started
		o.emit(Event{Type: EventTaskStarted, InstanceID: instance.ID,
			TaskID: taskID, Agent: spec.Agent})

		wg.Add(1)
		go func(spec models.TaskSpec) {
			defer wg.Done()
			taskCtx := ctx
			if o.opts.taskTimeout > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(ctx, o.opts.taskTimeout)
				defer cancel()
			}
			prompt := template.Render(spec.DescriptionTemplate, instance.Context)
			result, err := o.executor.Execute(taskCtx, spec, prompt, instance.Context)
			outcomes <- taskOutcome{taskID: spec.ID, result: result, err: err}
		}(*spec)
	}
	wg.Wait()
	close(outcomes)

	collected := make([]taskOutcome, 0, len(ready))
	for outcome := range outcomes {
		collected = append(collected, outcome)
	}
	return collected
}

// markCompleted records a successful task and merges its output into the
// context under <task_id>_output before the handler's per-task hook runs.
func (o *Orchestrator) markCompleted(instance *models.WorkflowInstance, graph *DependencyGraph, outcome taskOutcome, post TaskPostProcessor) {
	rt := instance.Task(outcome.taskID)
	done := time.Now().UTC()
	rt.Status = models.TaskStatusCompleted
	rt.Result = outcome.result.Content
	rt.TokensUsed = outcome.result.TokensIn + outcome.result.TokensOut
	rt.CostUSD = outcome.result.CostUSD
	rt.CompletedAt = &done

	instance.Context.Set(models.OutputKey(outcome.taskID), outcome.result.Content)
	if post != nil {
		instance.Context = post.PostProcessTask(outcome.taskID, outcome.result.Content, instance.Context)
	}
	graph.MarkComplete(outcome.taskID)

	var elapsed time.Duration
	if rt.StartedAt != nil {
		elapsed = done.Sub(*rt.StartedAt)
	}
	log.Printf("[orchestrator] task %s completed: %d chars, %d tokens",
		outcome.taskID, len(outcome.result.Content), rt.TokensUsed)
	o.emit(Event{Type: EventTaskCompleted, InstanceID: instance.ID,
		TaskID: outcome.taskID, Agent: outcome.result.AgentName,
		TokensUsed: rt.TokensUsed, CostUSD: rt.CostUSD, Duration: elapsed})
}

// markFailed records a task failure on its runtime.
func (o *Orchestrator) markFailed(instance *models.WorkflowInstance, taskID string, err error) {
	rt := instance.Task(taskID)
	done := time.Now().UTC()
	rt.Status = models.TaskStatusFailed
	rt.Error = err.Error()
	rt.CompletedAt = &done

	log.Printf("[orchestrator] task %s failed: %v", taskID, err)
	o.emit(Event{Type: EventTaskFailed, InstanceID: instance.ID,
		TaskID: taskID, Error: err})
}

// skipDependents marks every task downstream of a failed task as skipped.
// Skipped tasks never enter running.
func (o *Orchestrator) skipDependents(instance *models.WorkflowInstance, graph *DependencyGraph, taskID string) {
	for _, depID := range graph.TransitiveDependents(taskID) {
		o.skip(instance, depID, fmt.Sprintf("dependency %s failed", taskID))
	}
}

// skipAllPending skips every task still pending.
func (o *Orchestrator) skipAllPending(instance *models.WorkflowInstance, reason string) {
	for i := range instance.Tasks {
		if instance.Tasks[i].Status == models.TaskStatusPending {
			o.skip(instance, instance.Tasks[i].TaskID, reason)
		}
	}
}

func (o *Orchestrator) skip(instance *models.WorkflowInstance, taskID, reason string) {
	rt := instance.Task(taskID)
	if rt == nil || rt.Status != models.TaskStatusPending {
		return
	}
	done := time.Now().UTC()
	rt.Status = models.TaskStatusSkipped
	rt.Error = reason
	rt.CompletedAt = &done
	o.emit(Event{Type: EventTaskSkipped, InstanceID: instance.ID,
		TaskID: taskID, Message: reason})
}

func (o *Orchestrator) emit(event Event) {
	if o.opts.emitter == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	o.opts.emitter.Emit(event)
}
