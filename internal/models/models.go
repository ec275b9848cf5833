package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the DD-MM-YYYY format used for both storing and displaying due dates.
const DateLayout = "02-01-2006"

// Task represents a single card in the task list.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
	Done        bool   `json:"done"`
}

// Draft holds the editable fields of a task while the form is being filled in.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
}

// Blank reports whether every editable field is empty after trimming whitespace.
func (d Draft) Blank() bool {
	return strings.TrimSpace(d.Title) == "" &&
		strings.TrimSpace(d.Description) == "" &&
		strings.TrimSpace(d.Status) == "" &&
		strings.TrimSpace(d.DueDate) == ""
}

// DraftOf copies the editable fields of t into a draft.
func DraftOf(t Task) Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		DueDate:     t.DueDate,
	}
}

// FormatDate renders a calendar date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a DD-MM-YYYY string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// SortDirection orders the derived view by due date.
type SortDirection string

const (
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// ParseSortDirection accepts the long and short spelling of each direction.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Filter restricts the derived view by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts a filter name, case-insensitively.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterCompleted:
		return FilterCompleted, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Matches reports whether t belongs in a view restricted by f.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Done
	case FilterCompleted:
		return t.Done
	default:
		return true
	}
}

// Preferences groups the sort and filter choices applied to the derived view.
type Preferences struct {
	Sort   SortDirection `json:"sort"`
	Filter Filter        `json:"filter"`
}

// DefaultPreferences sorts by descending due date and shows every task.
func DefaultPreferences() Preferences {
	return Preferences{Sort: SortDescending, Filter: FilterAll}
}

// Notification texts shown to the user after a successful intent.
const (
	NotifyAdded         = "Task added successfully!"
	NotifyUpdated       = "Task updated successfully!"
	NotifyDeleted       = "Item Deleted Successfully"
	NotifyStatusUpdated = "Task status updated successfully!"
)
