// Package store persists workflow instances. It provides an SQLite
// implementation for durable history and an in-memory implementation for
// tests and one-shot runs.
package store

import (
	"errors"
	"io"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

// ErrNotFound indicates no instance exists with the requested ID.
var ErrNotFound = errors.New("instance not found")

// InstanceStore persists workflow instances. Implementations must be
// safe for concurrent use.
type InstanceStore interface {
	io.Closer
	// SaveInstance inserts or replaces an instance by ID.
	SaveInstance(instance *models.WorkflowInstance) error
	// GetInstance returns the instance with the given ID, or ErrNotFound.
	GetInstance(id string) (*models.WorkflowInstance, error)
	// ListInstances returns instances newest first, up to limit.
	// A non-positive limit returns all.
	ListInstances(limit int) ([]*models.WorkflowInstance, error)
}
