package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

func sampleInstance(t *testing.T, name string) *models.WorkflowInstance {
	t.Helper()
	def := &models.WorkflowDefinition{
		Name:    name,
		Version: "1.0",
		Handler: "enhanced_article",
		Tasks: []models.TaskSpec{
			{ID: "task1", Agent: "writer", DescriptionTemplate: "write"},
		},
	}
	input := models.NewContext()
	input.Set("topic", "solar power")
	return models.NewInstance(def, input)
}

// roundTrip exercises the InstanceStore contract against any implementation.
func roundTrip(t *testing.T, s InstanceStore) {
	t.Helper()

	instance := sampleInstance(t, "wf_one")
	instance.Status = models.InstanceStatusCompleted
	instance.Result = &models.WorkflowResult{
		FinalOutput:   "the article",
		TaskOutputs:   map[string]string{"task1": "the article"},
		ExecutionTime: 1.5,
	}
	if err := s.SaveInstance(instance); err != nil {
		t.Fatalf("SaveInstance: %v", err)
	}

	got, err := s.GetInstance(instance.ID)
	if err != nil {
		t.Fatalf("GetInstance: %v", err)
	}
	if got.ID != instance.ID || got.Status != models.InstanceStatusCompleted {
		t.Errorf("loaded instance = %s/%s", got.ID, got.Status)
	}
	if got.Result == nil || got.Result.FinalOutput != "the article" {
		t.Errorf("result not persisted: %+v", got.Result)
	}
	if got.Context.String("topic", "") != "solar power" {
		t.Errorf("context not persisted: %v", got.Context)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].TaskID != "task1" {
		t.Errorf("task runtimes not persisted: %+v", got.Tasks)
	}

	if _, err := s.GetInstance("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	roundTrip(t, s)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "inkwell.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	roundTrip(t, db)
}

func TestSQLiteSaveIsUpsert(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "inkwell.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	instance := sampleInstance(t, "wf_upsert")
	if err := db.SaveInstance(instance); err != nil {
		t.Fatalf("first save: %v", err)
	}
	instance.Status = models.InstanceStatusFailed
	if err := db.SaveInstance(instance); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := db.GetInstance(instance.ID)
	if err != nil {
		t.Fatalf("GetInstance: %v", err)
	}
	if got.Status != models.InstanceStatusFailed {
		t.Errorf("status after upsert = %s", got.Status)
	}

	all, err := db.ListInstances(0)
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ListInstances returned %d, want 1", len(all))
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkwell.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	instance := sampleInstance(t, "wf_durable")
	if err := db.SaveInstance(instance); err != nil {
		t.Fatalf("SaveInstance: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetInstance(instance.ID); err != nil {
		t.Errorf("instance lost across reopen: %v", err)
	}
}

func TestListInstancesOrderAndLimit(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	for i, name := range []string{"wf_a", "wf_b", "wf_c"} {
		instance := sampleInstance(t, name)
		instance.CreatedAt = time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		if err := s.SaveInstance(instance); err != nil {
			t.Fatalf("SaveInstance: %v", err)
		}
	}

	got, err := s.ListInstances(2)
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].DefinitionName != "wf_c" || got[1].DefinitionName != "wf_b" {
		t.Errorf("order = %s, %s", got[0].DefinitionName, got[1].DefinitionName)
	}
}

func TestSavedInstanceIsolatedFromLaterMutation(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	instance := sampleInstance(t, "wf_iso")
	if err := s.SaveInstance(instance); err != nil {
		t.Fatalf("SaveInstance: %v", err)
	}
	instance.Context.Set("topic", "mutated")

	got, err := s.GetInstance(instance.ID)
	if err != nil {
		t.Fatalf("GetInstance: %v", err)
	}
	if got.Context.String("topic", "") != "solar power" {
		t.Error("saved snapshot mutated through caller's reference")
	}
}
