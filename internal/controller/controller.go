// Package controller maps user actions onto repository operations and
// computes the next UI state.
package controller

import (
	"context"
	"errors"
	"fmt"

	"tasklist/internal/models"
)

// Tasks is the set of repository operations the controller drives.
type Tasks interface {
	Get(ctx context.Context, id int64) (models.Task, bool)
	AddTask(ctx context.Context, raw string) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ToggleComplete(ctx context.Context, id int64, completed bool) error
	EditTask(ctx context.Context, id int64, raw string) error
	ClearCompleted(ctx context.Context) (int, error)
}

// Action is a single user action.
type Action interface {
	action()
}

// AddTask appends a new task with the given text.
type AddTask struct{ Text string }

// DeleteTask removes a task.
type DeleteTask struct{ ID int64 }

// ToggleTask sets the completion flag of a task.
type ToggleTask struct {
	ID        int64
	Completed bool
}

// OpenEdit opens the edit surface for a task.
type OpenEdit struct{ ID int64 }

// ConfirmEdit commits the edit surface with the given text.
type ConfirmEdit struct{ Text string }

// CancelEdit closes the edit surface without saving.
type CancelEdit struct{}

// ClearCompleted removes every completed task.
type ClearCompleted struct{}

// SetFilter switches the active filter.
type SetFilter struct{ Filter models.Filter }

func (AddTask) action() {}
func (DeleteTask) action() {}
func (ToggleTask) action() {}
func (OpenEdit) action() {}
func (ConfirmEdit) action() {}
func (CancelEdit) action() {}
func (ClearCompleted) action() {}
func (SetFilter) action() {}

// Controller dispatches actions against a task repository.
type Controller struct {
	tasks Tasks
}

// New creates a Controller.
func New(tasks Tasks) *Controller {
	return &Controller{tasks: tasks}
}

// Dispatch performs one action and returns the next state. Blank input and
// unknown task ids are absorbed into the returned state; only storage
// failures are returned as errors, in which case st is returned unchanged.
func (c *Controller) Dispatch(ctx context.Context, st State, a Action) (State, error) {
	switch a := a.(type) {
	case AddTask:
		if _, err := c.tasks.AddTask(ctx, a.Text); err != nil {
			if errors.Is(err, models.ErrEmptyInput) {
				return st.withInvalid(InvalidAdd), nil
			}
			return st, err
		}
		return st.withInvalid(InvalidNone), nil

	case DeleteTask:
		if err := c.tasks.DeleteTask(ctx, a.ID); err != nil {
			return st, err
		}
		next := st.withInvalid(InvalidNone)
		if next.EditingID == a.ID {
			next = next.idle()
		}
		return next, nil

	case ToggleTask:
		if err := c.tasks.ToggleComplete(ctx, a.ID, a.Completed); err != nil {
			return st, err
		}
		return st.withInvalid(InvalidNone), nil

	case OpenEdit:
		task, ok := c.tasks.Get(ctx, a.ID)
		if !ok {
			return st, nil
		}
		return st.withEditing(task.ID, task.Text).withInvalid(InvalidNone), nil

	case ConfirmEdit:
		if !st.Editing() {
			return st, nil
		}
		if err := c.tasks.EditTask(ctx, st.EditingID, a.Text); err != nil {
			if errors.Is(err, models.ErrEmptyInput) {
				return st.withInvalid(InvalidEdit), nil
			}
			return st, err
		}
		return st.idle().withInvalid(InvalidNone), nil

	case CancelEdit:
		return st.idle().withInvalid(InvalidNone), nil

	case ClearCompleted:
		if _, err := c.tasks.ClearCompleted(ctx); err != nil {
			return st, err
		}
		next := st.withInvalid(InvalidNone)
		if next.Editing() {
			if _, ok := c.tasks.Get(ctx, next.EditingID); !ok {
				next = next.idle()
			}
		}
		return next, nil

	case SetFilter:
		return st.withFilter(models.ParseFilter(string(a.Filter))).withInvalid(InvalidNone), nil

	default:
		return st, fmt.Errorf("unknown action %T", a)
	}
}

// Restore completes a state decoded from a request: the draft is reloaded
// from the task being edited, and a state editing a task that no longer
// exists falls back to idle.
func (c *Controller) Restore(ctx context.Context, st State) State {
	if !st.Editing() {
		return st.idle()
	}
	task, ok := c.tasks.Get(ctx, st.EditingID)
	if !ok {
		return st.idle()
	}
	return st.withEditing(task.ID, task.Text)
}
