package models

import "time"

// TaskStatus represents the current state of a task within an instance.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning indicates the task is executing.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusSkipped indicates the task was not run because a
	// dependency failed.
	TaskStatusSkipped TaskStatus = "skipped"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusRunning, TaskStatusCompleted,
		TaskStatusFailed, TaskStatusSkipped:
		return true
	default:
		return false
	}
}

// Terminal returns true once the task can no longer change state.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusSkipped:
		return true
	default:
		return false
	}
}

// TaskSpec is the declarative description of one task in a workflow
// definition. Specs are immutable once the definition is loaded.
type TaskSpec struct {
	// ID uniquely identifies the task within its definition.
	ID string `json:"id" yaml:"id"`
	// Name is the display name of the task.
	Name string `json:"name" yaml:"name"`
	// Agent is the capability role required to run this task
	// (e.g. "researcher", "writer").
	Agent string `json:"agent" yaml:"agent"`
	// DescriptionTemplate is the prompt template rendered against the
	// execution context using {{name}} placeholders.
	DescriptionTemplate string `json:"description_template" yaml:"description_template"`
	// DependsOn lists task IDs that must complete before this task runs.
	DependsOn []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// TaskResult carries the output of one dispatched task.
type TaskResult struct {
	// Content is the generated text output.
	Content string `json:"content"`
	// AgentName identifies the agent that produced the output.
	AgentName string `json:"agent_name,omitempty"`
	// Strategy names the dispatch strategy used (explicit, role,
	// profile, placeholder).
	Strategy string `json:"strategy,omitempty"`
	// TokensIn is the number of prompt tokens consumed.
	TokensIn int64 `json:"tokens_in,omitempty"`
	// TokensOut is the number of completion tokens produced.
	TokensOut int64 `json:"tokens_out,omitempty"`
	// CostUSD is the estimated cost of the provider call.
	CostUSD float64 `json:"cost_usd,omitempty"`
}

// TaskRuntime tracks the execution state of one task inside a workflow
// instance. Runtimes are created when the instance is built and mutated
// only by the orchestrator; they are never removed, only terminally marked.
type TaskRuntime struct {
	// TaskID references the TaskSpec this runtime belongs to.
	TaskID string `json:"task_id"`
	// Status is the current task state.
	Status TaskStatus `json:"status"`
	// Result is the task output, empty until completion.
	Result string `json:"result,omitempty"`
	// Error contains the failure message if the task failed.
	Error string `json:"error,omitempty"`
	// TokensUsed is the total tokens consumed by the task's agent call.
	TokensUsed int64 `json:"tokens_used,omitempty"`
	// CostUSD is the estimated cost of the task's agent call.
	CostUSD float64 `json:"cost_usd,omitempty"`
	// CreatedAt is when the runtime was built from the definition.
	CreatedAt time.Time `json:"created_at"`
	// StartedAt is when the task entered the running state.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is when the task reached a terminal state.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
