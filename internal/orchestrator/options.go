package orchestrator

import "time"

// FailurePolicy controls how the orchestrator reacts to a failed task.
type FailurePolicy int

const (
	// FailFast stops scheduling as soon as any task fails. Pending tasks
	// are marked skipped and in-flight work is cancelled.
	FailFast FailurePolicy = iota
	// BestEffort keeps executing branches that do not depend on the
	// failed task. Only the failed task's dependents are skipped.
	BestEffort
)

// String returns the policy name for logs and summaries.
func (p FailurePolicy) String() string {
	switch p {
	case FailFast:
		return "fail_fast"
	case BestEffort:
		return "best_effort"
	default:
		return "unknown"
	}
}

// ParseFailurePolicy maps a config string to a policy. Unrecognized
// values fall back to FailFast, the safe default.
func ParseFailurePolicy(s string) FailurePolicy {
	if s == "best_effort" {
		return BestEffort
	}
	return FailFast
}

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	policy          FailurePolicy
	taskTimeout     time.Duration
	workflowTimeout time.Duration
	emitter         *EventEmitter
	debugLog        func(format string, args ...interface{})
}

// WithFailurePolicy sets how task failures affect the rest of the run.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *orchestratorOptions) { o.policy = p }
}

// WithTaskTimeout bounds each task's agent call. Zero means no per-task
// deadline beyond the workflow timeout.
func WithTaskTimeout(d time.Duration) Option {
	return func(o *orchestratorOptions) { o.taskTimeout = d }
}

// WithWorkflowTimeout bounds the whole run. Zero means unbounded.
func WithWorkflowTimeout(d time.Duration) Option {
	return func(o *orchestratorOptions) { o.workflowTimeout = d }
}

// WithEmitter sets the event emitter progress events are delivered to.
func WithEmitter(e *EventEmitter) Option {
	return func(o *orchestratorOptions) { o.emitter = e }
}

// WithDebugLog sets the debug logging function.
func WithDebugLog(fn func(format string, args ...interface{})) Option {
	return func(o *orchestratorOptions) { o.debugLog = fn }
}
