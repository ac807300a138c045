package models

import (
	"reflect"
	"testing"
)

func TestContextTypedGetters(t *testing.T) {
	ctx := NewContext().
		Set("topic", "fintech trends").
		Set("target_word_count", 1200).
		Set("include_sources", true)

	if got := ctx.String("topic", ""); got != "fintech trends" {
		t.Errorf("String: got %q", got)
	}
	if got := ctx.Int("target_word_count", 0); got != 1200 {
		t.Errorf("Int: got %d", got)
	}
	if got := ctx.Bool("include_sources", false); !got {
		t.Error("Bool: got false")
	}
	if got := ctx.String("missing", "fallback"); got != "fallback" {
		t.Errorf("String fallback: got %q", got)
	}
	if got := ctx.Int("topic", 7); got != 7 {
		t.Errorf("Int on non-numeric: got %d", got)
	}
}

func TestContextCloneIsolation(t *testing.T) {
	ctx := NewContext().Set("a", 1)
	clone := ctx.Clone()
	clone.Set("b", 2)

	if ctx.Has("b") {
		t.Error("mutation of clone leaked into original")
	}
}

func TestContextStringSliceFromMultiline(t *testing.T) {
	ctx := NewContext().Set("premium_sources", "https://a.com\n\n https://b.com \n")
	got := ctx.StringSlice("premium_sources")
	want := []string{"https://a.com", "https://b.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestContextTaskOutputs(t *testing.T) {
	ctx := NewContext().
		Set("topic", "x").
		Set(OutputKey("task1_brief"), "brief text").
		Set(OutputKey("task3_content"), "article text")

	outputs := ctx.TaskOutputs()
	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(outputs))
	}
	if outputs["task1_brief"] != "brief text" {
		t.Errorf("got %q", outputs["task1_brief"])
	}
}

func TestContextTaskOutputsSkipsFinalOutputKey(t *testing.T) {
	ctx := NewContext().
		Set(OutputKey("task3_content"), "article text").
		Set(KeyFinalOutput, "article text")

	outputs := ctx.TaskOutputs()
	if len(outputs) != 1 {
		t.Fatalf("expected 1 output, got %d: %v", len(outputs), outputs)
	}
	if _, ok := outputs["final"]; ok {
		t.Error("the selected deliverable must not appear as a task named final")
	}
}
