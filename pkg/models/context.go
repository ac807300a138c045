package models

import (
	"fmt"
	"sort"
	"strings"
)

// OutputKeySuffix is appended to a task ID to form the context key
// under which that task's output is stored.
const OutputKeySuffix = "_output"

// KeyFinalOutput holds the selected deliverable text. It shares the
// output suffix but is not a task output; TaskOutputs skips it.
const KeyFinalOutput = "final_output"

// Context is the accumulating key/value store for one workflow execution.
// It carries input variables and completed task outputs. A Context belongs
// to exactly one instance and is append-only during execution.
type Context map[string]any

// NewContext returns an empty context.
func NewContext() Context {
	return make(Context)
}

// Clone returns a shallow copy. Task outputs and variables are treated as
// immutable values, so a shallow copy is enough to isolate instances.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge copies every entry of other into the context and returns it.
func (c Context) Merge(other Context) Context {
	for k, v := range other {
		c[k] = v
	}
	return c
}

// Set stores a value and returns the context for chaining.
func (c Context) Set(key string, value any) Context {
	c[key] = value
	return c
}

// Has reports whether a key is present with a non-nil value.
func (c Context) Has(key string) bool {
	v, ok := c[key]
	return ok && v != nil
}

// String returns the value as a string, or the fallback if absent.
// Non-string values are formatted with fmt.
func (c Context) String(key, fallback string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Int returns the value as an int, or the fallback if absent or not numeric.
func (c Context) Int(key string, fallback int) int {
	v, ok := c[key]
	if !ok || v == nil {
		return fallback
	}
	if n, ok := toFloat(v); ok {
		return int(n)
	}
	return fallback
}

// Float returns the value as a float64, or the fallback.
func (c Context) Float(key string, fallback float64) float64 {
	v, ok := c[key]
	if !ok || v == nil {
		return fallback
	}
	if n, ok := toFloat(v); ok {
		return n
	}
	return fallback
}

// Bool returns the value as a bool, or the fallback.
func (c Context) Bool(key string, fallback bool) bool {
	v, ok := c[key]
	if !ok || v == nil {
		return fallback
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

// StringSlice returns the value as a []string, or nil if absent.
// Multiline strings are split into one item per non-empty line,
// matching how list inputs arrive from form fields.
func (c Context) StringSlice(key string) []string {
	v, ok := c[key]
	if !ok || v == nil {
		return nil
	}
	if items, ok := toStringSlice(v); ok {
		return items
	}
	if s, ok := v.(string); ok {
		var out []string
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				out = append(out, line)
			}
		}
		return out
	}
	return nil
}

// OutputKey returns the context key for a task's output.
func OutputKey(taskID string) string {
	return taskID + OutputKeySuffix
}

// TaskOutputs returns every "<task_id>_output" entry, keyed by task ID.
func (c Context) TaskOutputs() map[string]string {
	out := make(map[string]string)
	for k, v := range c {
		if k == KeyFinalOutput || !strings.HasSuffix(k, OutputKeySuffix) {
			continue
		}
		if s, ok := v.(string); ok {
			out[strings.TrimSuffix(k, OutputKeySuffix)] = s
		}
	}
	return out
}

// Keys returns the context keys in sorted order.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
