package handlers

import (
	"net/http"

	"tasklist/internal/view"
)

// Home renders the task list for the filter and edit state in the query string.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	st := h.ctrl.Restore(ctx, requestState(r))
	page := view.Render(h.repo.List(ctx), st)

	h.render(w, "home.html", page)
}
