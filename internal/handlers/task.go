package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tasklist/internal/controller"
	"tasklist/internal/models"
	"tasklist/internal/view"
)

// AddTask appends a task from the "text" form field.
func (h *Handlers) AddTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	h.dispatch(w, r, controller.AddTask{Text: r.PostFormValue("text")})
}

// DeleteTask deletes a task.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	h.dispatch(w, r, controller.DeleteTask{ID: id})
}

// ToggleTask sets the completion status of a task from the "completed" form field.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	completed, err := strconv.ParseBool(r.PostFormValue("completed"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "completed must be true or false")
		return
	}

	h.dispatch(w, r, controller.ToggleTask{ID: id, Completed: completed})
}

// OpenEdit opens the edit surface for a task.
func (h *Handlers) OpenEdit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	h.dispatch(w, r, controller.OpenEdit{ID: id})
}

// ConfirmEdit saves the "text" form field as the new text of a task.
func (h *Handlers) ConfirmEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	// The path names the task being edited, whatever the query says.
	st, err := h.ctrl.Dispatch(ctx, requestState(r), controller.OpenEdit{ID: id})
	if err != nil {
		respondServerError(w, err)
		return
	}

	next, err := h.ctrl.Dispatch(ctx, st, controller.ConfirmEdit{Text: r.PostFormValue("text")})
	if err != nil {
		respondServerError(w, err)
		return
	}

	redirectTo(w, r, next)
}

// CancelEdit closes the edit surface without saving.
func (h *Handlers) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, controller.CancelEdit{})
}

// ClearCompleted removes every completed task.
func (h *Handlers) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, controller.ClearCompleted{})
}

// TaskListResponse is the JSON body of GET /api/tasks.
type TaskListResponse struct {
	Filter models.Filter     `json:"filter"`
	Tasks  models.Collection `json:"tasks"`
	Stats  view.Stats        `json:"stats"`
}

// ListTasks returns the tasks visible under the "filter" query parameter and
// statistics for the whole list.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := models.ParseFilter(r.URL.Query().Get("filter"))
	c := h.repo.List(ctx)

	resp := TaskListResponse{
		Filter: filter,
		Tasks:  view.Visible(c, filter),
		Stats:  view.ComputeStats(c),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		respondServerError(w, err)
	}
}
