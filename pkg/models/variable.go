package models

import (
	"fmt"
	"strconv"
)

// VariableType declares the type of a workflow input variable.
type VariableType string

const (
	// VariableString is a free-form text value.
	VariableString VariableType = "string"
	// VariableNumber is a numeric value (stored as float64 or int).
	VariableNumber VariableType = "number"
	// VariableBoolean is a true/false value.
	VariableBoolean VariableType = "boolean"
	// VariableArray is a list of string values.
	VariableArray VariableType = "array"
)

// Valid returns true if the type is a known value.
func (t VariableType) Valid() bool {
	switch t {
	case VariableString, VariableNumber, VariableBoolean, VariableArray:
		return true
	default:
		return false
	}
}

// VariableSpec describes one input variable of a workflow definition.
// Specs are fixed at definition load time.
type VariableSpec struct {
	// Name is the context key this variable binds to.
	Name string `json:"name" yaml:"name"`
	// Type is the declared variable type.
	Type VariableType `json:"type" yaml:"type"`
	// Required indicates the variable must be present in the input context.
	Required bool `json:"required" yaml:"required"`
	// Default is the value injected when the input omits the variable.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`
	// Description explains the variable for operators.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Min bounds the value: minimum length for strings and arrays,
	// minimum value for numbers. Nil means unbounded.
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	// Max bounds the value the same way Min does.
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Validate checks a concrete value against the spec's type and bounds.
func (v VariableSpec) Validate(value any) error {
	if value == nil {
		if v.Required {
			return fmt.Errorf("variable %s is required", v.Name)
		}
		return nil
	}

	switch v.Type {
	case VariableString:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("variable %s must be a string", v.Name)
		}
		if v.Min != nil && float64(len(s)) < *v.Min {
			return fmt.Errorf("variable %s must be at least %d characters", v.Name, int(*v.Min))
		}
		if v.Max != nil && float64(len(s)) > *v.Max {
			return fmt.Errorf("variable %s must be at most %d characters", v.Name, int(*v.Max))
		}
	case VariableNumber:
		n, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("variable %s must be a number", v.Name)
		}
		if v.Min != nil && n < *v.Min {
			return fmt.Errorf("variable %s must be at least %v", v.Name, *v.Min)
		}
		if v.Max != nil && n > *v.Max {
			return fmt.Errorf("variable %s must be at most %v", v.Name, *v.Max)
		}
	case VariableBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("variable %s must be a boolean", v.Name)
		}
	case VariableArray:
		items, ok := toStringSlice(value)
		if !ok {
			return fmt.Errorf("variable %s must be an array", v.Name)
		}
		if v.Min != nil && float64(len(items)) < *v.Min {
			return fmt.Errorf("variable %s must have at least %d items", v.Name, int(*v.Min))
		}
		if v.Max != nil && float64(len(items)) > *v.Max {
			return fmt.Errorf("variable %s must have at most %d items", v.Name, int(*v.Max))
		}
	default:
		return fmt.Errorf("variable %s has unknown type %q", v.Name, v.Type)
	}

	return nil
}

// toFloat converts numeric values of any width to float64.
func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toStringSlice normalizes []string and []any values.
func toStringSlice(value any) ([]string, bool) {
	switch items := value.(type) {
	case []string:
		return items, true
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				s = fmt.Sprintf("%v", item)
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
