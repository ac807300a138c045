package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

// MemoryStore keeps instances in memory. Instances are stored as JSON
// snapshots, so later mutation of a saved instance never leaks into the
// store.
type MemoryStore struct {
	mu        sync.RWMutex
	instances map[string][]byte
}

var _ InstanceStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{instances: make(map[string][]byte)}
}

// SaveInstance snapshots the instance by ID.
func (s *MemoryStore) SaveInstance(instance *models.WorkflowInstance) error {
	payload, err := json.Marshal(instance)
	if err != nil {
		return fmt.Errorf("marshal instance %s: %w", instance.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[instance.ID] = payload
	return nil
}

// GetInstance returns the instance with the given ID.
func (s *MemoryStore) GetInstance(id string) (*models.WorkflowInstance, error) {
	s.mu.RLock()
	payload, ok := s.instances[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var instance models.WorkflowInstance
	if err := json.Unmarshal(payload, &instance); err != nil {
		return nil, fmt.Errorf("unmarshal instance %s: %w", id, err)
	}
	return &instance, nil
}

// ListInstances returns instances newest first.
func (s *MemoryStore) ListInstances(limit int) ([]*models.WorkflowInstance, error) {
	s.mu.RLock()
	payloads := make([][]byte, 0, len(s.instances))
	for _, payload := range s.instances {
		payloads = append(payloads, payload)
	}
	s.mu.RUnlock()

	instances := make([]*models.WorkflowInstance, 0, len(payloads))
	for _, payload := range payloads {
		var instance models.WorkflowInstance
		if err := json.Unmarshal(payload, &instance); err != nil {
			return nil, fmt.Errorf("unmarshal instance: %w", err)
		}
		instances = append(instances, &instance)
	}
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].CreatedAt.After(instances[j].CreatedAt)
	})
	if limit > 0 && len(instances) > limit {
		instances = instances[:limit]
	}
	return instances, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
