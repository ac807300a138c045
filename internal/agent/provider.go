// Package agent dispatches workflow tasks to LLM-backed agents: it
// resolves which agent handles a task, shapes the provider call, and
// post-processes tool markup in the response.
package agent

import "context"

// GenerateRequest is one text generation call to a provider.
type GenerateRequest struct {
	// Model overrides the provider's default model when set.
	Model string
	// System is the system prompt priming the agent's specialty.
	System string
	// Prompt is the rendered task description.
	Prompt string
	// MaxTokens bounds the completion size. Zero means provider default.
	MaxTokens int64
}

// GenerateResult is the provider's response with usage accounting.
type GenerateResult struct {
	// Content is the generated text.
	Content string
	// Model is the model that served the request.
	Model string
	// TokensIn is the number of prompt tokens consumed.
	TokensIn int64
	// TokensOut is the number of completion tokens produced.
	TokensOut int64
	// CostUSD is the estimated cost of the call.
	CostUSD float64
}

// Provider generates text for agent calls. Implementations must be safe
// for concurrent use; the orchestrator dispatches parallel tasks.
type Provider interface {
	// Name identifies the provider in logs and results.
	Name() string
	// Generate performs one completion call.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}
