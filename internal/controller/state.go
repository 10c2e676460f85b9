package controller

import (
	"net/url"
	"strconv"

	"tasklist/internal/models"
)

// Invalid marks which input was rejected for being blank.
type Invalid string

const (
	InvalidNone Invalid = ""
	InvalidAdd  Invalid = "add"
	InvalidEdit Invalid = "edit"
)

// State is the UI state between actions. It is a value: transitions return
// a new State and never modify the receiver.
type State struct {
	Filter    models.Filter
	EditingID int64 // 0 when idle
	Draft     string
	Invalid   Invalid
}

// Idle returns the initial state.
func Idle() State {
	return State{Filter: models.FilterAll}
}

// Editing reports whether a task is open in the edit surface.
func (s State) Editing() bool {
	return s.EditingID != 0
}

func (s State) withFilter(f models.Filter) State {
	s.Filter = f
	return s
}

func (s State) withEditing(id int64, draft string) State {
	s.EditingID = id
	s.Draft = draft
	return s
}

func (s State) idle() State {
	s.EditingID = 0
	s.Draft = ""
	return s
}

func (s State) withInvalid(inv Invalid) State {
	s.Invalid = inv
	return s
}

// Query encodes the state as URL query parameters. The draft is not
// encoded; it is reloaded from the task when the state is restored.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Filter != "" && s.Filter != models.FilterAll {
		q.Set("filter", string(s.Filter))
	}
	if s.Editing() {
		q.Set("edit", strconv.FormatInt(s.EditingID, 10))
	}
	if s.Invalid != InvalidNone {
		q.Set("invalid", string(s.Invalid))
	}
	return q
}

// StateFromQuery decodes a state previously encoded with Query. Unknown or
// malformed values fall back to their idle defaults.
func StateFromQuery(q url.Values) State {
	s := Idle().withFilter(models.ParseFilter(q.Get("filter")))
	if id, err := strconv.ParseInt(q.Get("edit"), 10, 64); err == nil && id > 0 {
		s.EditingID = id
	}
	switch Invalid(q.Get("invalid")) {
	case InvalidAdd:
		s.Invalid = InvalidAdd
	case InvalidEdit:
		s.Invalid = InvalidEdit
	}
	return s
}
