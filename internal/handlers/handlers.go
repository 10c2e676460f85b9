package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tasklist/internal/controller"
	"tasklist/internal/repository"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	repo      *repository.Repository
	ctrl      *controller.Controller
	templates *template.Template
}

// New creates a new Handlers instance.
func New(repo *repository.Repository, tmpl *template.Template) *Handlers {
	return &Handlers{
		repo:      repo,
		ctrl:      controller.New(repo),
		templates: tmpl,
	}
}

// Routes registers every page, action and API route on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Handle("/static/*", http.StripPrefix("/static/", StaticHandler()))

	// Page
	r.Get("/", h.Home)

	// Actions
	r.Post("/tasks", h.AddTask)
	r.Post("/tasks/clear-completed", h.ClearCompleted)
	r.Post("/tasks/{id}/toggle", h.ToggleTask)
	r.Post("/tasks/{id}/delete", h.DeleteTask)
	r.Get("/tasks/{id}/edit", h.OpenEdit)
	r.Post("/tasks/{id}/edit", h.ConfirmEdit)
	r.Post("/edit/cancel", h.CancelEdit)

	// API
	r.Get("/api/tasks", h.ListTasks)
}

// parseID extracts and parses an integer ID from URL parameters.
func parseID(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	return strconv.ParseInt(idStr, 10, 64)
}

// requestState decodes the UI state carried in the request's query string.
func requestState(r *http.Request) controller.State {
	return controller.StateFromQuery(r.URL.Query())
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func respondServerError(w http.ResponseWriter, err error) {
	log.Printf("internal server error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// redirectTo sends the browser back to the page for st.
func redirectTo(w http.ResponseWriter, r *http.Request, st controller.State) {
	target := "/"
	if q := st.Query().Encode(); q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		// For testing without templates
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		respondServerError(w, err)
	}
}

// dispatch runs one controller action for the request and redirects to the
// resulting state.
func (h *Handlers) dispatch(w http.ResponseWriter, r *http.Request, action controller.Action) {
	next, err := h.ctrl.Dispatch(r.Context(), requestState(r), action)
	if err != nil {
		respondServerError(w, err)
		return
	}
	redirectTo(w, r, next)
}
