package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

// fakeExecutor returns canned outputs per task and records execution
// order. It is safe for concurrent use.
type fakeExecutor struct {
	mu      sync.Mutex
	order   []string
	prompts map[string]string
	fail    map[string]error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		prompts: make(map[string]string),
		fail:    make(map[string]error),
	}
}

func (f *fakeExecutor) Execute(ctx context.Context, task models.TaskSpec, prompt string, wfCtx models.Context) (*models.TaskResult, error) {
	f.mu.Lock()
	f.order = append(f.order, task.ID)
	f.prompts[task.ID] = prompt
	f.mu.Unlock()

	if err := f.fail[task.ID]; err != nil {
		return nil, err
	}
	return &models.TaskResult{
		Content:   "output of " + task.ID,
		AgentName: task.Agent,
		TokensIn:  10,
		TokensOut: 20,
		CostUSD:   0.01,
	}, nil
}

func (f *fakeExecutor) executed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

func chainDefinition() *models.WorkflowDefinition {
	return &models.WorkflowDefinition{
		Name:      "chain",
		Version:   "1.0",
		Handler:   "test",
		FinalTask: "c",
		Tasks: []models.TaskSpec{
			{ID: "a", Agent: "writer", DescriptionTemplate: "start"},
			{ID: "b", Agent: "writer", DescriptionTemplate: "use {{a_output}}", DependsOn: []string{"a"}},
			{ID: "c", Agent: "writer", DescriptionTemplate: "use {{a_output}} and {{b_output}}", DependsOn: []string{"b"}},
		},
	}
}

func TestRunChainInOrder(t *testing.T) {
	def := chainDefinition()
	exec := newFakeExecutor()
	orch := New(exec)
	instance := models.NewInstance(def, models.NewContext())

	if err := orch.Run(context.Background(), instance, def, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	order := exec.executed()
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("execution order = %v, want [a b c]", order)
	}
	if instance.Status != models.InstanceStatusCompleted {
		t.Errorf("instance status = %s, want completed", instance.Status)
	}
	for _, id := range []string{"a", "b", "c"} {
		if got := instance.Task(id).Status; got != models.TaskStatusCompleted {
			t.Errorf("task %s status = %s", id, got)
		}
	}
}

func TestRunDependencyOutputsVisible(t *testing.T) {
	def := chainDefinition()
	exec := newFakeExecutor()
	orch := New(exec)
	instance := models.NewInstance(def, models.NewContext())

	if err := orch.Run(context.Background(), instance, def, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := exec.prompts["b"]; got != "use output of a" {
		t.Errorf("prompt for b = %q", got)
	}
	if got := exec.prompts["c"]; got != "use output of a and output of b" {
		t.Errorf("prompt for c = %q", got)
	}
	if got := instance.Context.String(models.OutputKey("c"), ""); got != "output of c" {
		t.Errorf("c_output = %q", got)
	}
}

func TestRunCycleRejectedBeforeExecution(t *testing.T) {
	def := &models.WorkflowDefinition{
		Name:    "cyclic",
		Version: "1.0",
		Handler: "test",
		Tasks: []models.TaskSpec{
			{ID: "a", DependsOn: []string{"b"}},
			{ID: "b", DependsOn: []string{"a"}},
		},
	}
	exec := newFakeExecutor()
	orch := New(exec)
	instance := models.NewInstance(def, models.NewContext())

	err := orch.Run(context.Background(), instance, def, nil)
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
	if instance.Status != models.InstanceStatusCreated {
		t.Errorf("instance left created state: %s", instance.Status)
	}
	if len(exec.executed()) != 0 {
		t.Errorf("tasks executed despite cycle: %v", exec.executed())
	}
}

func TestRunFailFastSkipsDependents(t *testing.T) {
	def := chainDefinition()
	exec := newFakeExecutor()
	exec.fail["b"] = errors.New("provider unavailable")
	orch := New(exec, WithFailurePolicy(FailFast))
	instance := models.NewInstance(def, models.NewContext())

	if err := orch.Run(context.Background(), instance, def, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if instance.Status != models.InstanceStatusFailed {
		t.Errorf("instance status = %s, want failed", instance.Status)
	}
	if got := instance.Task("b").Status; got != models.TaskStatusFailed {
		t.Errorf("task b status = %s, want failed", got)
	}
	if got := instance.Task("c").Status; got != models.TaskStatusSkipped {
		t.Errorf("task c status = %s, want skipped", got)
	}
	for _, id := range exec.executed() {
		if id == "c" {
			t.Error("skipped task c was executed")
		}
	}
	if instance.Result == nil || !strings.Contains(instance.Result.ErrorMessage, "provider unavailable") {
		t.Errorf("failure not surfaced in result: %+v", instance.Result)
	}
}

func TestRunBestEffortContinuesIndependentBranch(t *testing.T) {
	def := &models.WorkflowDefinition{
		Name:    "diamond",
		Version: "1.0",
		Handler: "test",
		Tasks: []models.TaskSpec{
			{ID: "a", DescriptionTemplate: "a"},
			{ID: "b", DescriptionTemplate: "b", DependsOn: []string{"a"}},
			{ID: "c", DescriptionTemplate: "c", DependsOn: []string{"a"}},
			{ID: "d", DescriptionTemplate: "d", DependsOn: []string{"b"}},
		},
	}
	exec := newFakeExecutor()
	exec.fail["b"] = errors.New("boom")
	orch := New(exec, WithFailurePolicy(BestEffort))
	instance := models.NewInstance(def, models.NewContext())

	if err := orch.Run(context.Background(), instance, def, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := instance.Task("c").Status; got != models.TaskStatusCompleted {
		t.Errorf("independent task c status = %s, want completed", got)
	}
	if got := instance.Task("d").Status; got != models.TaskStatusSkipped {
		t.Errorf("dependent task d status = %s, want skipped", got)
	}
	if instance.Status != models.InstanceStatusFailed {
		t.Errorf("instance status = %s, want failed", instance.Status)
	}
}

type recordingPostProcessor struct {
	mu    sync.Mutex
	tasks []string
}

func (r *recordingPostProcessor) PostProcessTask(taskID, output string, ctx models.Context) models.Context {
	r.mu.Lock()
	r.tasks = append(r.tasks, taskID)
	r.mu.Unlock()
	return ctx.Set("processed_"+taskID, true)
}

func TestRunInvokesPostProcessor(t *testing.T) {
	def := chainDefinition()
	exec := newFakeExecutor()
	orch := New(exec)
	post := &recordingPostProcessor{}
	instance := models.NewInstance(def, models.NewContext())

	if err := orch.Run(context.Background(), instance, def, post); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(post.tasks) != 3 {
		t.Errorf("post-processor called %d times, want 3", len(post.tasks))
	}
	if !instance.Context.Bool("processed_b", false) {
		t.Error("post-processor context change lost")
	}
}

func TestRunEmitsLifecycleEvents(t *testing.T) {
	def := chainDefinition()
	exec := newFakeExecutor()
	emitter := NewEventEmitter(64)
	orch := New(exec, WithEmitter(emitter))
	instance := models.NewInstance(def, models.NewContext())

	if err := orch.Run(context.Background(), instance, def, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	emitter.Close()

	counts := make(map[EventType]int)
	for event := range emitter.Events() {
		counts[event.Type]++
		if event.InstanceID != instance.ID {
			t.Errorf("event %s has instance %q", event.Type, event.InstanceID)
		}
	}
	if counts[EventWorkflowStarted] != 1 || counts[EventWorkflowCompleted] != 1 {
		t.Errorf("workflow events = %v", counts)
	}
	if counts[EventTaskStarted] != 3 || counts[EventTaskCompleted] != 3 {
		t.Errorf("task events = %v", counts)
	}
}

func TestRunParallelWave(t *testing.T) {
	tasks := make([]models.TaskSpec, 0, 5)
	for i := 0; i < 4; i++ {
		tasks = append(tasks, models.TaskSpec{
			ID:                  fmt.Sprintf("leaf%d", i),
			DescriptionTemplate: "independent",
		})
	}
	tasks = append(tasks, models.TaskSpec{
		ID:                  "join",
		DescriptionTemplate: "combine",
		DependsOn:           []string{"leaf0", "leaf1", "leaf2", "leaf3"},
	})
	def := &models.WorkflowDefinition{Name: "fanin", Version: "1.0", Handler: "test", Tasks: tasks}

	exec := newFakeExecutor()
	orch := New(exec)
	instance := models.NewInstance(def, models.NewContext())

	if err := orch.Run(context.Background(), instance, def, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	order := exec.executed()
	if len(order) != 5 {
		t.Fatalf("executed %d tasks, want 5", len(order))
	}
	if order[len(order)-1] != "join" {
		t.Errorf("join ran before all leaves: %v", order)
	}
	if instance.Status != models.InstanceStatusCompleted {
		t.Errorf("instance status = %s", instance.Status)
	}
}

func TestRunCancelledContext(t *testing.T) {
	def := chainDefinition()
	exec := newFakeExecutor()
	orch := New(exec)
	instance := models.NewInstance(def, models.NewContext())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := orch.Run(ctx, instance, def, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if instance.Status != models.InstanceStatusFailed {
		t.Errorf("instance status = %s, want failed", instance.Status)
	}
	if len(exec.executed()) != 0 {
		t.Errorf("tasks executed after cancellation: %v", exec.executed())
	}
}

func TestEventEmitterDropsWhenFull(t *testing.T) {
	emitter := NewEventEmitter(1)
	emitter.Emit(Event{Type: EventTaskStarted})
	emitter.Emit(Event{Type: EventTaskStarted}) // buffer full, dropped after timeout

	if got := emitter.DroppedCount(); got != 1 {
		t.Errorf("DroppedCount() = %d, want 1", got)
	}
}
