package agent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// toolPattern matches [tool_name] args [/tool_name] markup in responses.
// Names are lowercase identifiers; args run to the closing tag.
var toolPattern = regexp.MustCompile(`\[([a-z][a-z0-9_]*)\]([\s\S]*?)\[/([a-z][a-z0-9_]*)\]`)

// ToolFunc executes one tool invocation.
type ToolFunc func(ctx context.Context, args string) (string, error)

// ToolInvoker resolves tool invocations found in agent responses.
type ToolInvoker interface {
	// Invoke runs the named tool with its raw argument text.
	Invoke(ctx context.Context, name, args string) (string, error)
}

// ToolRegistry is a thread-safe name-to-function tool table.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]ToolFunc
}

var _ ToolInvoker = (*ToolRegistry)(nil)

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]ToolFunc)}
}

// Register binds a tool function to a name.
func (r *ToolRegistry) Register(name string, fn ToolFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = fn
}

// Invoke runs a registered tool.
func (r *ToolRegistry) Invoke(ctx context.Context, name, args string) (string, error) {
	r.mu.RLock()
	fn, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	return fn(ctx, strings.TrimSpace(args))
}

// Names returns the registered tool names, sorted.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProcessToolMarkup finds tool invocations in content and replaces each
// with its result wrapped in [name RESULT]...[/name RESULT]. Mismatched
// tags are left untouched; failed or unknown tools are replaced with an
// error marker so the text never silently loses an invocation.
func ProcessToolMarkup(ctx context.Context, content string, invoker ToolInvoker) string {
	if invoker == nil {
		return content
	}
	return toolPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := toolPattern.FindStringSubmatch(match)
		name, args, closing := groups[1], groups[2], groups[3]
		if name != closing {
			return match
		}
		result, err := invoker.Invoke(ctx, name, args)
		if err != nil {
			log.Printf("[agent] tool %s failed: %v", name, err)
			return fmt.Sprintf("[%s ERROR] %v [/%s ERROR]", name, err, name)
		}
		return fmt.Sprintf("[%s RESULT]\n%s\n[/%s RESULT]", name, result, name)
	})
}
