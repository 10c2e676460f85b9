package repository

import (
	"context"
	"sync"
	"time"

	"tasklist/internal/models"
)

// CollectionStore loads and saves the whole task collection.
type CollectionStore interface {
	Load(ctx context.Context) models.Collection
	Save(ctx context.Context, c models.Collection) error
}

// Repository implements task operations as read-mutate-write cycles over
// the full collection. It keeps no task state between calls.
type Repository struct {
	store CollectionStore
	now   func() time.Time

	mu     sync.Mutex
	lastID int64
}

// New creates a Repository backed by store.
func New(store CollectionStore) *Repository {
	return &Repository{store: store, now: time.Now}
}

// List returns the current collection.
func (r *Repository) List(ctx context.Context) models.Collection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Load(ctx)
}

// Get returns the task with the given id.
func (r *Repository) Get(ctx context.Context, id int64) (models.Task, bool) {
	c := r.List(ctx)
	if i := c.Index(id); i >= 0 {
		return c[i], true
	}
	return models.Task{}, false
}

// AddTask appends a new task. Blank text returns models.ErrEmptyInput and
// leaves the collection unchanged.
func (r *Repository) AddTask(ctx context.Context, raw string) (models.Task, error) {
	text, err := models.NormalizeText(raw)
	if err != nil {
		return models.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.store.Load(ctx)
	now := r.now()
	task := models.Task{
		ID:        r.nextID(c, now),
		Text:      text,
		Completed: false,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
	}

	if err := r.store.Save(ctx, append(c, task)); err != nil {
		return models.Task{}, err
	}
	r.lastID = task.ID
	return task, nil
}

// DeleteTask removes the task with the given id. Unknown ids are ignored.
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	return r.update(ctx, func(c models.Collection) models.Collection {
		i := c.Index(id)
		if i < 0 {
			return c
		}
		return append(c[:i], c[i+1:]...)
	})
}

// ToggleComplete sets the completion flag of the task with the given id.
func (r *Repository) ToggleComplete(ctx context.Context, id int64, completed bool) error {
	return r.update(ctx, func(c models.Collection) models.Collection {
		if i := c.Index(id); i >= 0 {
			c[i].Completed = completed
		}
		return c
	})
}

// EditTask replaces the text of the task with the given id. Blank text
// returns models.ErrEmptyInput and leaves the collection unchanged.
func (r *Repository) EditTask(ctx context.Context, id int64, raw string) error {
	text, err := models.NormalizeText(raw)
	if err != nil {
		return err
	}

	return r.update(ctx, func(c models.Collection) models.Collection {
		if i := c.Index(id); i >= 0 {
			c[i].Text = text
		}
		return c
	})
}

// ClearCompleted removes every completed task and reports how many were removed.
func (r *Repository) ClearCompleted(ctx context.Context) (int, error) {
	removed := 0
	err := r.update(ctx, func(c models.Collection) models.Collection {
		kept := make(models.Collection, 0, len(c))
		for _, t := range c {
			if t.Completed {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		return kept
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *Repository) update(ctx context.Context, mutate func(models.Collection) models.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.store.Load(ctx)
	return r.store.Save(ctx, mutate(c))
}

// nextID returns the creation time in milliseconds, bumped past every id in
// c and every id this repository has handed out.
func (r *Repository) nextID(c models.Collection, now time.Time) int64 {
	id := now.UnixMilli()
	if max := c.MaxID(); id <= max {
		id = max + 1
	}
	if id <= r.lastID {
		id = r.lastID + 1
	}
	return id
}
