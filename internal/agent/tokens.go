package agent

import (
	"strings"
	"sync"
)

// modelPricing is USD per million tokens.
type modelPricing struct {
	input  float64
	output float64
}

// pricing maps model-name substrings to prices. Approximate and should
// be updated as pricing changes.
var pricing = map[string]modelPricing{
	"opus":   {15.0, 75.0},
	"sonnet": {3.0, 15.0},
	"haiku":  {0.80, 4.0},
}

// defaultPricing is used when the model is not recognized.
var defaultPricing = modelPricing{3.0, 15.0}

// EstimateCost estimates the USD cost of a call from its token usage.
func EstimateCost(model string, tokensIn, tokensOut int64) float64 {
	p := defaultPricing
	lower := strings.ToLower(model)
	for name, mp := range pricing {
		if strings.Contains(lower, name) {
			p = mp
			break
		}
	}
	return float64(tokensIn)/1_000_000*p.input + float64(tokensOut)/1_000_000*p.output
}

// TokenTracker accumulates token usage across provider calls.
type TokenTracker struct {
	mu        sync.Mutex
	inputTok  int64
	outputTok int64
	cost      float64
	calls     int
}

// NewTokenTracker creates a new token tracker.
func NewTokenTracker() *TokenTracker {
	return &TokenTracker{}
}

// Add records usage from one call.
func (t *TokenTracker) Add(input, output int64, cost float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.cost += cost
	t.calls++
}

// Total returns the total input and output tokens tracked.
func (t *TokenTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// Cost returns the accumulated estimated cost in USD.
func (t *TokenTracker) Cost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cost
}

// Calls returns the number of provider calls made.
func (t *TokenTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Reset clears all tracked usage.
func (t *TokenTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok = 0
	t.outputTok = 0
	t.cost = 0
	t.calls = 0
}
