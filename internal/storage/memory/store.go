package memory

import (
	"context"
	"fmt"
	"sync"

	"tasklist/internal/models"
	"tasklist/internal/storage"
)

// Store is a slice-backed repository for the lifetime of the process.
type Store struct {
	mu    sync.RWMutex
	tasks []models.Task
	index map[string]int
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

func (s *Store) Insert(ctx context.Context, t models.Task) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[t.ID]; ok {
		return fmt.Errorf("duplicate task id %q", t.ID)
	}
	s.index[t.ID] = len(s.tasks)
	s.tasks = append(s.tasks, t)
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Task, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	return s.tasks[i], nil
}

func (s *Store) Update(ctx context.Context, t models.Task) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[t.ID]
	if !ok {
		return storage.ErrNotFound
	}
	s.tasks[i] = t
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return storage.ErrNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.tasks); j++ {
		s.index[s.tasks[j].ID] = j
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// Close drops every task.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil
	s.index = make(map[string]int)
	return nil
}
