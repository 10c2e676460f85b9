package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"tasklist/internal/models"
)

// DefaultTasksKey is the key the task collection is stored under.
const DefaultTasksKey = "tasks"

// TaskStore reads and writes the whole task collection as one JSON blob.
type TaskStore struct {
	kv  Store
	key string
}

// NewTaskStore creates a TaskStore over kv. An empty key selects DefaultTasksKey.
func NewTaskStore(kv Store, key string) *TaskStore {
	if key == "" {
		key = DefaultTasksKey
	}
	return &TaskStore{kv: kv, key: key}
}

// Load returns the stored collection. Missing, unreadable or malformed data
// yields an empty collection; the failure is logged and never returned.
func (s *TaskStore) Load(ctx context.Context) models.Collection {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("failed to read %q, using empty task list: %v", s.key, err)
		}
		return models.Collection{}
	}

	c, err := decodeCollection(raw)
	if err != nil {
		log.Printf("discarding stored %q, using empty task list: %v", s.key, err)
		return models.Collection{}
	}
	return c
}

// Save serializes the full collection and overwrites the stored value.
func (s *TaskStore) Save(ctx context.Context, c models.Collection) error {
	if c == nil {
		c = models.Collection{}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

func decodeCollection(raw string) (models.Collection, error) {
	var c models.Collection
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	// "null" decodes without error but is not a collection.
	if c == nil {
		return nil, errors.New("stored value is not a task list")
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}
	return c, nil
}
