package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InstanceStatus represents the lifecycle state of a workflow instance.
type InstanceStatus string

const (
	// InstanceStatusCreated indicates the instance was built but not started.
	InstanceStatusCreated InstanceStatus = "created"
	// InstanceStatusRunning indicates tasks are executing.
	InstanceStatusRunning InstanceStatus = "running"
	// InstanceStatusCompleted indicates every task completed.
	InstanceStatusCompleted InstanceStatus = "completed"
	// InstanceStatusFailed indicates at least one task failed or a
	// definition-time error aborted execution.
	InstanceStatusFailed InstanceStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s InstanceStatus) Valid() bool {
	switch s {
	case InstanceStatusCreated, InstanceStatusRunning,
		InstanceStatusCompleted, InstanceStatusFailed:
		return true
	default:
		return false
	}
}

// WorkflowDefinition is the immutable, versioned description of a content
// workflow: its input variables and its task DAG.
type WorkflowDefinition struct {
	// Name identifies the definition.
	Name string `json:"name" yaml:"name"`
	// Version is the definition version string.
	Version string `json:"version" yaml:"version"`
	// Description explains what the workflow produces.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Handler is the workflow-type tag used to resolve the registered
	// handler for validation, preparation and post-processing.
	Handler string `json:"handler" yaml:"handler"`
	// FinalTask optionally names the task whose output is the deliverable.
	// When set it wins over any longer output.
	FinalTask string `json:"final_task,omitempty" yaml:"final_task,omitempty"`
	// Variables declares the workflow inputs.
	Variables []VariableSpec `json:"variables" yaml:"variables"`
	// Tasks declares the task DAG.
	Tasks []TaskSpec `json:"tasks" yaml:"tasks"`
}

// Task returns the spec with the given ID, or nil.
func (d *WorkflowDefinition) Task(id string) *TaskSpec {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// Validate checks structural invariants that do not depend on inputs:
// unique task IDs and dependency references to existing tasks.
// Cycle detection happens at instance build time.
func (d *WorkflowDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("definition has no name")
	}
	if len(d.Tasks) == 0 {
		return fmt.Errorf("definition %s has no tasks", d.Name)
	}
	seen := make(map[string]bool, len(d.Tasks))
	for _, t := range d.Tasks {
		if t.ID == "" {
			return fmt.Errorf("definition %s has a task with no id", d.Name)
		}
		if seen[t.ID] {
			return fmt.Errorf("definition %s has duplicate task id %s", d.Name, t.ID)
		}
		seen[t.ID] = true
	}
	for _, t := range d.Tasks {
		for _, dep := range t.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("task %s depends on unknown task %s", t.ID, dep)
			}
		}
	}
	if d.FinalTask != "" && !seen[d.FinalTask] {
		return fmt.Errorf("final task %s is not defined", d.FinalTask)
	}
	for _, v := range d.Variables {
		if v.Name == "" {
			return fmt.Errorf("definition %s has a variable with no name", d.Name)
		}
		if !v.Type.Valid() {
			return fmt.Errorf("variable %s has unknown type %q", v.Name, v.Type)
		}
	}
	return nil
}

// WorkflowResult is the deliverable of one instance execution.
type WorkflowResult struct {
	// FinalOutput is the selected deliverable text.
	FinalOutput string `json:"final_output"`
	// TaskOutputs maps task IDs to their raw outputs.
	TaskOutputs map[string]string `json:"task_outputs"`
	// ExecutionTime is the wall-clock duration of the run in seconds.
	ExecutionTime float64 `json:"execution_time"`
	// ErrorMessage is set when the instance failed.
	ErrorMessage string `json:"error_message,omitempty"`
}

// WorkflowInstance is one stateful execution of a definition against a
// concrete input context. Instances never share mutable state.
type WorkflowInstance struct {
	// ID is the unique identifier for this instance.
	ID string `json:"id"`
	// DefinitionName references the definition this instance was built from.
	DefinitionName string `json:"definition_name"`
	// DefinitionVersion pins the definition version.
	DefinitionVersion string `json:"definition_version"`
	// Handler is the workflow-type tag copied from the definition.
	Handler string `json:"handler"`
	// Status is the instance lifecycle state.
	Status InstanceStatus `json:"status"`
	// Context is the accumulated variable and output store.
	Context Context `json:"context"`
	// Tasks holds one runtime per task spec.
	Tasks []TaskRuntime `json:"tasks"`
	// Result is the deliverable, set when the run finishes.
	Result *WorkflowResult `json:"result,omitempty"`
	// Summary carries handler-computed metadata about the run.
	Summary map[string]any `json:"summary,omitempty"`
	// CreatedAt is when the instance was built.
	CreatedAt time.Time `json:"created_at"`
	// StartedAt is when execution began.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is when execution finished.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewInstance builds an instance from a definition and an input context.
// One pending TaskRuntime is created per task spec.
func NewInstance(def *WorkflowDefinition, input Context) *WorkflowInstance {
	now := time.Now().UTC()
	tasks := make([]TaskRuntime, 0, len(def.Tasks))
	for _, spec := range def.Tasks {
		tasks = append(tasks, TaskRuntime{
			TaskID:    spec.ID,
			Status:    TaskStatusPending,
			CreatedAt: now,
		})
	}
	if input == nil {
		input = NewContext()
	}
	return &WorkflowInstance{
		ID:                uuid.New().String(),
		DefinitionName:    def.Name,
		DefinitionVersion: def.Version,
		Handler:           def.Handler,
		Status:            InstanceStatusCreated,
		Context:           input.Clone(),
		Tasks:             tasks,
		CreatedAt:         now,
	}
}

// Task returns the runtime for a task ID, or nil.
func (w *WorkflowInstance) Task(id string) *TaskRuntime {
	for i := range w.Tasks {
		if w.Tasks[i].TaskID == id {
			return &w.Tasks[i]
		}
	}
	return nil
}

// AllCompleted reports whether every task reached completed.
func (w *WorkflowInstance) AllCompleted() bool {
	if len(w.Tasks) == 0 {
		return false
	}
	for i := range w.Tasks {
		if w.Tasks[i].Status != TaskStatusCompleted {
			return false
		}
	}
	return true
}

// ExecutionTime returns the run duration, or zero before completion.
func (w *WorkflowInstance) ExecutionTime() time.Duration {
	if w.StartedAt == nil || w.CompletedAt == nil {
		return 0
	}
	return w.CompletedAt.Sub(*w.StartedAt)
}
