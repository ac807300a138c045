package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/inkwell-ai/inkwell/internal/profile"
	"github.com/inkwell-ai/inkwell/pkg/models"
)

// Dispatch strategies, recorded on every task result so a run can always
// explain which path chose its agent.
const (
	// StrategyExplicit means the task's agent name was bound directly in
	// the dispatcher's agent table.
	StrategyExplicit = "explicit"
	// StrategyRole means a profile was found filling the task's role.
	StrategyRole = "role"
	// StrategyProfile means a profile matched the task's agent by name.
	StrategyProfile = "profile"
	// StrategyPlaceholder means nothing matched and the deterministic
	// fallback ran.
	StrategyPlaceholder = "placeholder"
)

// ExecutionError is returned when a task's agent call failed after all
// retry attempts. The orchestrator maps it to a task failure.
type ExecutionError struct {
	// TaskID is the task that failed.
	TaskID string
	// Agent is the agent name the task was dispatched to.
	Agent string
	// Attempts is how many times the call was tried.
	Attempts int
	// Err is the final underlying error.
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("task %s (agent %s) failed after %d attempts: %v", e.TaskID, e.Agent, e.Attempts, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Dispatcher resolves which agent handles each task and shapes the
// provider call. Resolution priority: explicit agent table, then role
// lookup, then profile name lookup, then the placeholder strategy.
type Dispatcher struct {
	provider    Provider
	placeholder Provider
	agents      map[string]*profile.Agent
	profiles    *profile.Repository
	tools       ToolInvoker
	retry       RetryPolicy
	debugLog    func(format string, args ...interface{})
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAgentTable binds agent names directly, taking priority over any
// profile lookup.
func WithAgentTable(agents map[string]*profile.Agent) DispatcherOption {
	return func(d *Dispatcher) { d.agents = agents }
}

// WithProfiles sets the profile repository used for role and name lookups.
func WithProfiles(repo *profile.Repository) DispatcherOption {
	return func(d *Dispatcher) { d.profiles = repo }
}

// WithTools sets the invoker that serves tool markup in responses.
func WithTools(invoker ToolInvoker) DispatcherOption {
	return func(d *Dispatcher) { d.tools = invoker }
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p RetryPolicy) DispatcherOption {
	return func(d *Dispatcher) { d.retry = p }
}

// WithDispatcherDebugLog sets the debug logging function.
func WithDispatcherDebugLog(fn func(format string, args ...interface{})) DispatcherOption {
	return func(d *Dispatcher) {
		if fn != nil {
			d.debugLog = fn
		}
	}
}

// NewDispatcher creates a dispatcher around a provider. A nil provider
// sends every task to the placeholder provider.
func NewDispatcher(provider Provider, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		provider:    provider,
		placeholder: NewPlaceholderProvider(),
		retry:       DefaultRetryPolicy(),
		debugLog:    func(format string, args ...interface{}) {},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// resolve picks the agent for a task and names the strategy that found it.
// The placeholder fallback returns a nil profile.
func (d *Dispatcher) resolve(task models.TaskSpec) (*profile.Agent, string) {
	if agent, ok := d.agents[task.Agent]; ok {
		return agent, StrategyExplicit
	}
	if d.profiles != nil && task.Agent != "" {
		if agent, ok := d.profiles.ByRole(task.Agent); ok {
			return agent, StrategyRole
		}
		if agent, ok := d.profiles.ByName(task.Agent); ok {
			return agent, StrategyProfile
		}
	}
	return nil, StrategyPlaceholder
}

// Execute runs one task's rendered prompt against the resolved agent,
// retrying transient provider failures with backoff. Tool markup in the
// response is resolved before the result is returned.
func (d *Dispatcher) Execute(ctx context.Context, task models.TaskSpec, prompt string, wfCtx models.Context) (*models.TaskResult, error) {
	agent, strategy := d.resolve(task)
	d.debugLog("[agent] task %s resolved via %s strategy", task.ID, strategy)

	req := GenerateRequest{Prompt: prompt}
	agentName := PlaceholderName
	if agent != nil {
		agentName = agent.Name
		req.Model = agent.Model
		req.MaxTokens = agent.MaxTokens
		req.System = systemPrompt(agent)
	}

	provider := d.provider
	if provider == nil || strategy == StrategyPlaceholder {
		provider = d.placeholder
	}

	var result *GenerateResult
	var err error
	attempts := 0
	for attempts < d.retry.MaxAttempts {
		attempts++
		result, err = provider.Generate(ctx, req)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if attempts < d.retry.MaxAttempts {
			delay := d.retry.Backoff(attempts)
			log.Printf("[agent] task %s attempt %d failed, retrying in %s: %v", task.ID, attempts, delay, err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}
	}
	if err != nil {
		return nil, &ExecutionError{TaskID: task.ID, Agent: agentName, Attempts: attempts, Err: err}
	}

	content := ProcessToolMarkup(ctx, result.Content, d.tools)
	return &models.TaskResult{
		Content:   content,
		AgentName: agentName,
		Strategy:  strategy,
		TokensIn:  result.TokensIn,
		TokensOut: result.TokensOut,
		CostUSD:   result.CostUSD,
	}, nil
}

// systemPrompt assembles the provider system prompt from a profile.
func systemPrompt(agent *profile.Agent) string {
	prompt := agent.SystemPrompt
	if prompt == "" && agent.Goal != "" {
		prompt = fmt.Sprintf("You are %s. Your goal: %s", agent.Name, agent.Goal)
	}
	return prompt
}
