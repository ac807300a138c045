// Package template renders {{name}} placeholders in task description
// templates against a workflow execution context.
package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

// placeholderPattern matches {{ name }} placeholders. Anything between the
// braces is treated as an opaque key after trimming whitespace; expressions
// such as {{word_count * 0.15}} are NOT evaluated and simply fail to
// resolve unless a context key with that literal name exists. Handlers are
// expected to pre-compute derived values into plain keys instead.
var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// RenderError reports unresolved placeholders from a strict render.
type RenderError struct {
	// Missing lists the placeholder names that had no context value.
	Missing []string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("unresolved template placeholders: %s", strings.Join(e.Missing, ", "))
}

// Render substitutes placeholders from vars into tmpl. Unresolved
// placeholders render as the empty string. The function is pure: it never
// mutates vars, and identical inputs always produce identical output.
func Render(tmpl string, vars models.Context) string {
	out, _ := render(tmpl, vars)
	return out
}

// RenderStrict behaves like Render but returns a *RenderError naming every
// unresolved placeholder instead of silently dropping them.
func RenderStrict(tmpl string, vars models.Context) (string, error) {
	out, missing := render(tmpl, vars)
	if len(missing) > 0 {
		return out, &RenderError{Missing: missing}
	}
	return out, nil
}

func render(tmpl string, vars models.Context) (string, []string) {
	if tmpl == "" || !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	missingSet := make(map[string]bool)
	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		value, ok := vars[name]
		if !ok || value == nil {
			missingSet[name] = true
			return ""
		}
		return stringify(value)
	})

	if len(missingSet) == 0 {
		return out, nil
	}
	missing := make([]string, 0, len(missingSet))
	for name := range missingSet {
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return out, missing
}

// Placeholders returns the distinct placeholder names in tmpl, in order of
// first appearance.
func Placeholders(tmpl string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, match := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		name := strings.TrimSpace(match[1])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// stringify formats context values the way form inputs expect: booleans as
// true/false, string slices joined by newlines, everything else via fmt.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []string:
		return strings.Join(v, "\n")
	default:
		return fmt.Sprintf("%v", v)
	}
}
