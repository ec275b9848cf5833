package storage

import (
	"context"
	"errors"

	"tasklist/internal/models"
)

// ErrNotFound is returned when no task carries the requested id.
var ErrNotFound = errors.New("task not found")

// Repository keeps the canonical task collection in insertion order.
type Repository interface {
	Insert(ctx context.Context, t models.Task) error
	Get(ctx context.Context, id string) (models.Task, error)
	Update(ctx context.Context, t models.Task) error
	Delete(ctx context.Context, id string) error
	// List returns every task in the order it was inserted.
	List(ctx context.Context) ([]models.Task, error)
	Close() error
}
