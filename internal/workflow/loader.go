package workflow

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

//go:embed definitions/*.yaml
var builtinFS embed.FS

// ParseDefinition decodes and validates a workflow definition from YAML
// (JSON is a YAML subset, so JSON documents load too).
func ParseDefinition(data []byte) (*models.WorkflowDefinition, error) {
	var def models.WorkflowDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadDefinition reads a definition from a YAML file on disk.
func LoadDefinition(path string) (*models.WorkflowDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition %s: %w", path, err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// LoadDir loads every *.yaml definition in a directory, keyed by handler
// type. A missing directory is not an error; it simply contributes nothing.
func LoadDir(dir string) (map[string]*models.WorkflowDefinition, error) {
	defs := make(map[string]*models.WorkflowDefinition)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return defs, nil
		}
		return nil, fmt.Errorf("read definitions dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		def, err := LoadDefinition(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs[def.Handler] = def
	}
	return defs, nil
}

// Builtins returns the definitions shipped with the binary, keyed by
// handler type.
func Builtins() (map[string]*models.WorkflowDefinition, error) {
	entries, err := builtinFS.ReadDir("definitions")
	if err != nil {
		return nil, fmt.Errorf("read builtin definitions: %w", err)
	}
	defs := make(map[string]*models.WorkflowDefinition, len(entries))
	for _, entry := range entries {
		data, err := builtinFS.ReadFile("definitions/" + entry.Name())
		if err != nil {
			return nil, err
		}
		def, err := ParseDefinition(data)
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", entry.Name(), err)
		}
		defs[def.Handler] = def
	}
	return defs, nil
}

// DefaultRegistry builds a registry with the built-in handlers, optionally
// overlaid with definitions loaded from dir. It returns the registry and
// the definitions it registered, keyed by handler type.
func DefaultRegistry(dir string) (*Registry, map[string]*models.WorkflowDefinition, error) {
	defs, err := Builtins()
	if err != nil {
		return nil, nil, err
	}
	if dir != "" {
		loaded, err := LoadDir(dir)
		if err != nil {
			return nil, nil, err
		}
		for handler, def := range loaded {
			defs[handler] = def
		}
	}

	reg := NewRegistry()
	for handler, def := range defs {
		reg.Register(handler, handlerFor(handler, def))
	}
	return reg, defs, nil
}

// handlerFor picks the concrete handler implementation for a workflow
// type. Types without specialized behavior get the base hooks.
func handlerFor(handler string, def *models.WorkflowDefinition) Handler {
	switch handler {
	case "enhanced_article":
		return NewArticleHandler(def)
	case "premium_newsletter":
		return NewNewsletterHandler(def)
	default:
		return &BaseHandler{Definition: def}
	}
}

// HandlerTypes lists the handler types with specialized implementations.
func HandlerTypes() []string {
	types := []string{"enhanced_article", "premium_newsletter"}
	sort.Strings(types)
	return types
}
