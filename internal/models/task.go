package models

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyInput is returned when task text is blank after trimming.
var ErrEmptyInput = errors.New("task text is required")

// Task represents a single to-do item.
type Task struct {
	ID        int64     `json:"id" yaml:"id" toml:"id"`
	Text      string    `json:"text" yaml:"text" toml:"text"`
	Completed bool      `json:"completed" yaml:"completed" toml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if t.ID == 0 {
		return errors.New("id is required")
	}

	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyInput
	}

	return nil
}

// NormalizeText trims raw user input and rejects blank text.
func NormalizeText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}

// Collection is the ordered list of all tasks, oldest first.
type Collection []Task

// Validate checks every task and that ids are unique.
func (c Collection) Validate() error {
	seen := make(map[int64]struct{}, len(c))
	for i := range c {
		if err := c[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[c[i].ID]; dup {
			return errors.New("duplicate task id")
		}
		seen[c[i].ID] = struct{}{}
	}
	return nil
}

// Index returns the position of the task with the given id, or -1.
func (c Collection) Index(id int64) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// MaxID returns the largest id in the collection, or 0 when empty.
func (c Collection) MaxID() int64 {
	var max int64
	for i := range c {
		if c[i].ID > max {
			max = c[i].ID
		}
	}
	return max
}

// CompletedCount returns the number of completed tasks.
func (c Collection) CompletedCount() int {
	n := 0
	for i := range c {
		if c[i].Completed {
			n++
		}
	}
	return n
}

// Filter selects which tasks are displayed.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted}

// ParseFilter converts a query or flag value to a Filter, defaulting to all.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterPending:
		return FilterPending
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Matches reports whether the task is visible under the filter.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Label returns the display name of the filter.
func (f Filter) Label() string {
	switch f {
	case FilterPending:
		return "Pending"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}
