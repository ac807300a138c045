package orchestrator

import (
	"errors"
	"testing"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

func chainTasks() []models.TaskSpec {
	return []models.TaskSpec{
		{ID: "a", Agent: "writer", DescriptionTemplate: "first"},
		{ID: "b", Agent: "writer", DescriptionTemplate: "second", DependsOn: []string{"a"}},
		{ID: "c", Agent: "writer", DescriptionTemplate: "third", DependsOn: []string{"b"}},
	}
}

func TestGraphBuildChain(t *testing.T) {
	g := NewGraph()
	if err := g.Build(chainTasks()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Size() != 3 {
		t.Errorf("Size() = %d, want 3", g.Size())
	}
	if g.HasCycle() {
		t.Error("chain reported as cyclic")
	}
}

func TestGraphBuildUnknownDependency(t *testing.T) {
	g := NewGraph()
	err := g.Build([]models.TaskSpec{
		{ID: "a", DependsOn: []string{"ghost"}},
	})
	if err == nil {
		t.Fatal("expected error for unknown dependency")
	}
}

func TestGraphBuildDetectsCycle(t *testing.T) {
	g := NewGraph()
	err := g.Build([]models.TaskSpec{
		{ID: "a", DependsOn: []string{"b"}},
		{ID: "b", DependsOn: []string{"a"}},
	})
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
}

func TestGraphBuildDetectsLongCycle(t *testing.T) {
	g := NewGraph()
	err := g.Build([]models.TaskSpec{
		{ID: "a", DependsOn: []string{"c"}},
		{ID: "b", DependsOn: []string{"a"}},
		{ID: "c", DependsOn: []string{"b"}},
	})
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
}

func TestGraphTopologicalSort(t *testing.T) {
	g := NewGraph()
	if err := g.Build(chainTasks()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort: %v", err)
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	if !(pos["a"] < pos["b"] && pos["b"] < pos["c"]) {
		t.Errorf("order %v violates dependencies", order)
	}
}

func TestGraphReadyProgression(t *testing.T) {
	g := NewGraph()
	tasks := []models.TaskSpec{
		{ID: "a"},
		{ID: "b"},
		{ID: "c", DependsOn: []string{"a", "b"}},
	}
	if err := g.Build(tasks); err != nil {
		t.Fatalf("Build: %v", err)
	}

	ready := g.GetReady()
	if len(ready) != 2 {
		t.Fatalf("initial ready set = %v, want a and b", ready)
	}

	g.MarkComplete("a")
	for _, id := range g.GetReady() {
		if id == "c" {
			t.Fatal("c ready with b incomplete")
		}
	}

	g.MarkComplete("b")
	ready = g.GetReady()
	if len(ready) != 1 || ready[0] != "c" {
		t.Errorf("ready after a,b = %v, want [c]", ready)
	}
}

func TestGraphDependents(t *testing.T) {
	g := NewGraph()
	if err := g.Build(chainTasks()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	direct := g.Dependents("a")
	if len(direct) != 1 || direct[0] != "b" {
		t.Errorf("Dependents(a) = %v, want [b]", direct)
	}

	transitive := g.TransitiveDependents("a")
	if len(transitive) != 2 || transitive[0] != "b" || transitive[1] != "c" {
		t.Errorf("TransitiveDependents(a) = %v, want [b c]", transitive)
	}
	if got := g.TransitiveDependents("c"); len(got) != 0 {
		t.Errorf("TransitiveDependents(c) = %v, want empty", got)
	}
}
