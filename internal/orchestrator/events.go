package orchestrator

import (
	"time"
)

// EventType represents the kind of orchestrator event.
type EventType string

const (
	// EventWorkflowStarted indicates instance execution has begun.
	EventWorkflowStarted EventType = "workflow_started"
	// EventWorkflowCompleted indicates every task completed.
	EventWorkflowCompleted EventType = "workflow_completed"
	// EventWorkflowFailed indicates the run ended with at least one failure.
	EventWorkflowFailed EventType = "workflow_failed"
	// EventTaskQueued indicates a task's dependencies are satisfied.
	EventTaskQueued EventType = "task_queued"
	// EventTaskStarted indicates a task has started execution.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed.
	EventTaskFailed EventType = "task_failed"
	// EventTaskSkipped indicates a task was skipped because a dependency failed.
	EventTaskSkipped EventType = "task_skipped"
)

// Event is emitted by the orchestrator as an instance progresses.
// Subscribers such as the CLI progress printer consume these.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// InstanceID identifies the workflow instance.
	InstanceID string
	// TaskID is the ID of the related task, if applicable.
	TaskID string
	// Agent names the agent handling the task, if applicable.
	Agent string
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// TokensUsed is the tokens consumed by the task, for completion events.
	TokensUsed int64
	// CostUSD is the estimated cost of the task, for completion events.
	CostUSD float64
	// Duration is the task's elapsed execution time.
	Duration time.Duration
}
