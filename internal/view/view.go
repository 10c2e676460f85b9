// Package view turns a task collection and UI state into a displayable page.
// Render is pure: it never reads or writes storage.
package view

import (
	"html/template"

	"tasklist/internal/controller"
	"tasklist/internal/models"
)

// EmptyState tells the page which placeholder, if any, replaces the listing.
type EmptyState string

const (
	EmptyNone    EmptyState = ""
	EmptyNoTasks EmptyState = "no-tasks"
	EmptyNoMatch EmptyState = "no-match"
)

// Message returns the placeholder text.
func (e EmptyState) Message() string {
	switch e {
	case EmptyNoTasks:
		return "No tasks yet. Add one above!"
	case EmptyNoMatch:
		return "Nothing here yet!"
	default:
		return ""
	}
}

// Stats summarizes the whole collection regardless of filter.
type Stats struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Pending int `json:"pending"`
	Percent int `json:"percent"`
}

// ComputeStats counts tasks and rounds the completion percentage half up.
func ComputeStats(c models.Collection) Stats {
	total := len(c)
	done := c.CompletedCount()
	return Stats{
		Total:   total,
		Done:    done,
		Pending: total - done,
		Percent: percent(done, total),
	}
}

// percent returns round(done/total*100) using integer arithmetic so that
// exact halves always round up.
func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*done + total) / (2 * total)
}

// Item is one visible task.
type Item struct {
	models.Task
	Editing bool
}

// FilterTab describes one filter button.
type FilterTab struct {
	Filter models.Filter
	Label  string
	Active bool
	Count  int
	Href   template.URL
}

// Page is everything needed to display the task list.
type Page struct {
	Title   string
	Filter  models.Filter
	Tabs    []FilterTab
	Items   []Item
	Empty   EmptyState
	Stats   Stats
	Editing *models.Task
	Draft   string

	InvalidAdd  bool
	InvalidEdit bool

	state controller.State
}

// Render builds the page for collection c under state st.
func Render(c models.Collection, st controller.State) Page {
	filter := models.ParseFilter(string(st.Filter))

	p := Page{
		Title:       "My Tasks",
		Filter:      filter,
		Stats:       ComputeStats(c),
		InvalidAdd:  st.Invalid == controller.InvalidAdd,
		InvalidEdit: st.Invalid == controller.InvalidEdit,
		state:       controller.State{Filter: filter, EditingID: st.EditingID},
	}

	for _, f := range models.Filters {
		p.Tabs = append(p.Tabs, FilterTab{
			Filter: f,
			Label:  f.Label(),
			Active: f == filter,
			Count:  len(Visible(c, f)),
			Href:   hrefFor(controller.State{Filter: f}),
		})
	}

	for i := range c {
		if st.Editing() && c[i].ID == st.EditingID {
			task := c[i]
			p.Editing = &task
			p.Draft = st.Draft
		}
		if !filter.Matches(c[i]) {
			continue
		}
		p.Items = append(p.Items, Item{Task: c[i], Editing: st.EditingID == c[i].ID})
	}

	switch {
	case len(c) == 0:
		p.Empty = EmptyNoTasks
	case len(p.Items) == 0:
		p.Empty = EmptyNoMatch
	}

	return p
}

// Visible returns the tasks of c that match f, in collection order.
func Visible(c models.Collection, f models.Filter) models.Collection {
	out := make(models.Collection, 0, len(c))
	for i := range c {
		if f.Matches(c[i]) {
			out = append(out, c[i])
		}
	}
	return out
}

// URL returns path with the page's filter and edit state attached, so a
// form posted to it comes back to the same view.
func (p Page) URL(path string) template.URL {
	if q := p.state.Query().Encode(); q != "" {
		return template.URL(path + "?" + q)
	}
	return template.URL(path)
}

// HomeURL is the page URL without the edit surface open.
func (p Page) HomeURL() template.URL {
	return hrefFor(controller.State{Filter: p.Filter})
}

func hrefFor(st controller.State) template.URL {
	if q := st.Query().Encode(); q != "" {
		return template.URL("/?" + q)
	}
	return "/"
}
