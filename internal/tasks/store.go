package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tasklist/internal/models"
	"tasklist/internal/storage"
)

// Notifier shows one transient message at a time.
type Notifier interface {
	Notify(msg string)
	Current() string
	Stop()
}

// Option customizes a Store.
type Option func(*Store)

// WithClock sets the source of "today" used for the draft's default due date.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator used for new tasks.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) { s.nextID = next }
}

// Store owns the task collection together with the form draft, edit mode
// and view preferences. One mutex serializes every intent.
type Store struct {
	mu       sync.Mutex
	repo     storage.Repository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	nextID   func() string

	draft     models.Draft
	editingID string
	prefs     models.Preferences
	revision  uint64
}

// New constructs a store with an empty draft and default preferences on top of repo.
func New(repo storage.Repository, notifier Notifier, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		nextID:   uuid.NewString,
		prefs:    models.DefaultPreferences(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.draft = s.blankDraft()
	return s
}

// Close cancels the pending notification and releases the repository.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Stop()
	}
	return s.repo.Close()
}

// Add appends a new pending task built from d and resets the draft.
func (s *Store) Add(ctx context.Context, d models.Draft) (models.Task, error) {
	if err := validateDraft(d); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := models.Task{ID: s.nextID(), Done: false}
	applyDraft(&t, d)
	if err := s.repo.Insert(ctx, t); err != nil {
		return models.Task{}, fmt.Errorf("add task: %w", err)
	}

	s.draft = s.blankDraft()
	s.changed()
	s.notify(models.NotifyAdded)
	s.logger.Debug("task added", slog.String("id", t.ID), slog.String("title", t.Title))
	return t, nil
}

// BeginEdit loads the task into the draft and marks it as being edited.
func (s *Store) BeginEdit(ctx context.Context, id string) (models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.get(ctx, id)
	if err != nil {
		return models.Draft{}, err
	}

	s.draft = models.DraftOf(t)
	s.editingID = id
	s.changed()
	s.logger.Debug("task edit started", slog.String("id", id))
	return s.draft, nil
}

// CancelEdit leaves edit mode without touching the task.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editingID == "" {
		return
	}
	s.editingID = ""
	s.draft = s.blankDraft()
	s.changed()
}

// CommitEdit overwrites the edited task's fields with d, keeping its done flag.
func (s *Store) CommitEdit(ctx context.Context, d models.Draft) (models.Task, error) {
	if err := validateDraft(d); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editingID == "" {
		return models.Task{}, ErrNotEditing
	}
	t, err := s.get(ctx, s.editingID)
	if err != nil {
		return models.Task{}, err
	}

	applyDraft(&t, d)
	if err := s.repo.Update(ctx, t); err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}

	s.editingID = ""
	s.draft = s.blankDraft()
	s.changed()
	s.notify(models.NotifyUpdated)
	s.logger.Debug("task updated", slog.String("id", t.ID))
	return t, nil
}

// Remove deletes a task. Removing the edited task also ends edit mode.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	if id == s.editingID {
		s.editingID = ""
		s.draft = s.blankDraft()
	}
	s.changed()
	s.notify(models.NotifyDeleted)
	s.logger.Debug("task removed", slog.String("id", id))
	return nil
}

// ToggleDone flips the done flag of a task.
func (s *Store) ToggleDone(ctx context.Context, id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	t.Done = !t.Done
	if err := s.repo.Update(ctx, t); err != nil {
		return models.Task{}, fmt.Errorf("toggle task: %w", err)
	}

	s.changed()
	s.notify(models.NotifyStatusUpdated)
	s.logger.Debug("task status toggled", slog.String("id", id), slog.Bool("done", t.Done))
	return t, nil
}

// SetSort changes the due date order of the derived view.
func (s *Store) SetSort(direction models.SortDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.Sort == direction {
		return
	}
	s.prefs.Sort = direction
	s.changed()
}

// SetFilter changes which tasks the derived view shows.
func (s *Store) SetFilter(filter models.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.Filter == filter {
		return
	}
	s.prefs.Filter = filter
	s.changed()
}

// Preferences returns the current sort and filter.
func (s *Store) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Draft returns the form buffer.
func (s *Store) Draft() models.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the form buffer as the user types. It is not validated.
func (s *Store) SetDraft(d models.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = d
	s.changed()
}

// Editing returns the id of the task in edit mode, if any.
func (s *Store) Editing() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID, s.editingID != ""
}

// Notification returns the transient message currently shown.
func (s *Store) Notification() string {
	if s.notifier == nil {
		return ""
	}
	return s.notifier.Current()
}

// Revision increases on every state change so a view can tell whether to re-render.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Get returns a single task from canonical storage.
func (s *Store) Get(ctx context.Context, id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx, id)
}

func (s *Store) get(ctx context.Context, id string) (models.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Store) blankDraft() models.Draft {
	return models.Draft{DueDate: models.FormatDate(s.now())}
}

func (s *Store) changed() {
	s.revision++
}

func (s *Store) notify(msg string) {
	if s.notifier != nil {
		s.notifier.Notify(msg)
	}
}

func applyDraft(t *models.Task, d models.Draft) {
	t.Title = strings.TrimSpace(d.Title)
	t.Description = strings.TrimSpace(d.Description)
	t.Status = strings.TrimSpace(d.Status)
	t.DueDate = strings.TrimSpace(d.DueDate)
}
