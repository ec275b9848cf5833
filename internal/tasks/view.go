package tasks

import (
	"context"
	"fmt"
	"slices"
	"time"

	"tasklist/internal/models"
)

// Snapshot is everything a view needs to render, read under one lock.
type Snapshot struct {
	Tasks        []models.Task      `json:"tasks"`
	Total        int                `json:"total"`
	Completed    int                `json:"completed"`
	Draft        models.Draft       `json:"draft"`
	EditingID    string             `json:"editing_id,omitempty"`
	Preferences  models.Preferences `json:"preferences"`
	Notification string             `json:"notification"`
	Revision     uint64             `json:"revision"`
}

// DerivedView returns the tasks matching the filter, ordered by due date.
// Canonical storage keeps its insertion order.
func (s *Store) DerivedView(ctx context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return derive(all, s.prefs), nil
}

// CompletedCount counts done tasks in canonical storage on every call.
func (s *Store) CompletedCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.list(ctx)
	if err != nil {
		return 0, err
	}
	return countDone(all), nil
}

// Snapshot captures the derived view and the surrounding form state.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.list(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Tasks:        derive(all, s.prefs),
		Total:        len(all),
		Completed:    countDone(all),
		Draft:        s.draft,
		EditingID:    s.editingID,
		Preferences:  s.prefs,
		Notification: s.Notification(),
		Revision:     s.revision,
	}, nil
}

func (s *Store) list(ctx context.Context) ([]models.Task, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return all, nil
}

type keyed struct {
	task  models.Task
	due   time.Time
	dated bool
}

// derive filters then stably sorts by due date. Undated tasks go last in
// either direction and keep their insertion order.
func derive(all []models.Task, prefs models.Preferences) []models.Task {
	rows := make([]keyed, 0, len(all))
	for _, t := range all {
		if !prefs.Filter.Matches(t) {
			continue
		}
		k := keyed{task: t}
		if due, err := models.ParseDate(t.DueDate); err == nil {
			k.due, k.dated = due, true
		}
		rows = append(rows, k)
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		switch {
		case a.dated && !b.dated:
			return -1
		case !a.dated && b.dated:
			return 1
		case !a.dated && !b.dated:
			return 0
		}
		c := a.due.Compare(b.due)
		if prefs.Sort == models.SortDescending {
			c = -c
		}
		return c
	})

	out := make([]models.Task, len(rows))
	for i, r := range rows {
		out[i] = r.task
	}
	return out
}

func countDone(all []models.Task) int {
	n := 0
	for _, t := range all {
		if t.Done {
			n++
		}
	}
	return n
}
