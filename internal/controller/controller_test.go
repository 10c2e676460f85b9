package controller

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/models"
	"tasklist/internal/repository"
	"tasklist/internal/store"
)

func setupController(t *testing.T, texts ...string) (*Controller, *repository.Repository, []models.Task) {
	t.Helper()
	kv, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	repo := repository.New(store.NewTaskStore(kv, ""))
	ctx := context.Background()
	tasks := make([]models.Task, 0, len(texts))
	for _, text := range texts {
		task, err := repo.AddTask(ctx, text)
		require.NoError(t, err)
		tasks = append(tasks, task)
	}
	return New(repo), repo, tasks
}

func TestEditFlow(t *testing.T) {
	c, repo, tasks := setupController(t, "first", "second")
	ctx := context.Background()
	target := tasks[1]

	st := Idle()
	assert.False(t, st.Editing())

	st, err := c.Dispatch(ctx, st, OpenEdit{ID: target.ID})
	require.NoError(t, err)
	assert.Equal(t, target.ID, st.EditingID)
	assert.Equal(t, "second", st.Draft)

	st, err = c.Dispatch(ctx, st, ConfirmEdit{Text: "  new text "})
	require.NoError(t, err)
	assert.False(t, st.Editing())
	assert.Empty(t, st.Draft)

	got, ok := repo.Get(ctx, target.ID)
	require.True(t, ok)
	assert.Equal(t, "new text", got.Text)
}

func TestConfirmEdit_EmptyStaysEditing(t *testing.T) {
	c, repo, tasks := setupController(t, "keep")
	ctx := context.Background()

	st, err := c.Dispatch(ctx, Idle(), OpenEdit{ID: tasks[0].ID})
	require.NoError(t, err)

	next, err := c.Dispatch(ctx, st, ConfirmEdit{Text: "   "})
	require.NoError(t, err)
	assert.Equal(t, tasks[0].ID, next.EditingID)
	assert.Equal(t, "keep", next.Draft)
	assert.Equal(t, InvalidEdit, next.Invalid)

	got, _ := repo.Get(ctx, tasks[0].ID)
	assert.Equal(t, "keep", got.Text)

	// The previous state value is untouched.
	assert.Equal(t, InvalidNone, st.Invalid)
}

func TestCancelEdit_DiscardsDraft(t *testing.T) {
	c, repo, tasks := setupController(t, "original")
	ctx := context.Background()

	st, _ := c.Dispatch(ctx, Idle(), OpenEdit{ID: tasks[0].ID})
	st, err := c.Dispatch(ctx, st, CancelEdit{})
	require.NoError(t, err)
	assert.False(t, st.Editing())
	assert.Empty(t, st.Draft)

	got, _ := repo.Get(ctx, tasks[0].ID)
	assert.Equal(t, "original", got.Text)
}

func TestOpenEdit_SwitchesTarget(t *testing.T) {
	c, _, tasks := setupController(t, "a", "b")
	ctx := context.Background()

	st, _ := c.Dispatch(ctx, Idle(), OpenEdit{ID: tasks[0].ID})
	st, err := c.Dispatch(ctx, st, OpenEdit{ID: tasks[1].ID})
	require.NoError(t, err)
	assert.Equal(t, tasks[1].ID, st.EditingID)
	assert.Equal(t, "b", st.Draft)
}

func TestOpenEdit_UnknownIDIsIgnored(t *testing.T) {
	c, _, _ := setupController(t, "a")

	st, err := c.Dispatch(context.Background(), Idle(), OpenEdit{ID: 42})
	require.NoError(t, err)
	assert.Equal(t, Idle(), st)
}

func TestConfirmEdit_WhileIdleIsIgnored(t *testing.T) {
	c, repo, tasks := setupController(t, "a")
	ctx := context.Background()

	st, err := c.Dispatch(ctx, Idle(), ConfirmEdit{Text: "b"})
	require.NoError(t, err)
	assert.Equal(t, Idle(), st)

	got, _ := repo.Get(ctx, tasks[0].ID)
	assert.Equal(t, "a", got.Text)
}

func TestAddTask_EmptyMarksInvalid(t *testing.T) {
	c, repo, _ := setupController(t)
	ctx := context.Background()

	st, err := c.Dispatch(ctx, Idle(), AddTask{Text: "  "})
	require.NoError(t, err)
	assert.Equal(t, InvalidAdd, st.Invalid)
	assert.Empty(t, repo.List(ctx))

	st, err = c.Dispatch(ctx, st, AddTask{Text: "real"})
	require.NoError(t, err)
	assert.Equal(t, InvalidNone, st.Invalid)
	assert.Len(t, repo.List(ctx), 1)
}

func TestDeleteTask_ClosesEditOfDeletedTask(t *testing.T) {
	c, repo, tasks := setupController(t, "a", "b")
	ctx := context.Background()

	st, _ := c.Dispatch(ctx, Idle(), OpenEdit{ID: tasks[0].ID})
	st, err := c.Dispatch(ctx, st, DeleteTask{ID: tasks[0].ID})
	require.NoError(t, err)
	assert.False(t, st.Editing())
	assert.Len(t, repo.List(ctx), 1)

	st, _ = c.Dispatch(ctx, st, OpenEdit{ID: tasks[1].ID})
	st, err = c.Dispatch(ctx, st, DeleteTask{ID: 999})
	require.NoError(t, err)
	assert.Equal(t, tasks[1].ID, st.EditingID)
}

func TestToggleAndClearCompleted(t *testing.T) {
	c, repo, tasks := setupController(t, "a", "b", "c")
	ctx := context.Background()

	st := Idle()
	var err error
	for _, task := range tasks[1:] {
		st, err = c.Dispatch(ctx, st, ToggleTask{ID: task.ID, Completed: true})
		require.NoError(t, err)
	}

	st, _ = c.Dispatch(ctx, st, OpenEdit{ID: tasks[2].ID})
	st, err = c.Dispatch(ctx, st, ClearCompleted{})
	require.NoError(t, err)
	assert.False(t, st.Editing())

	remaining := repo.List(ctx)
	require.Len(t, remaining, 1)
	assert.Equal(t, "a", remaining[0].Text)
}

func TestSetFilter_PreservedAcrossActions(t *testing.T) {
	c, _, tasks := setupController(t, "a")
	ctx := context.Background()

	st, err := c.Dispatch(ctx, Idle(), SetFilter{Filter: models.FilterCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.FilterCompleted, st.Filter)

	st, _ = c.Dispatch(ctx, st, ToggleTask{ID: tasks[0].ID, Completed: true})
	assert.Equal(t, models.FilterCompleted, st.Filter)

	st, _ = c.Dispatch(ctx, st, SetFilter{Filter: "nonsense"})
	assert.Equal(t, models.FilterAll, st.Filter)
}

type failingTasks struct{ Tasks }

func (failingTasks) DeleteTask(ctx context.Context, id int64) error {
	return errors.New("store offline")
}

func TestDispatch_StorageErrorKeepsState(t *testing.T) {
	c := New(failingTasks{})
	st := Idle().withFilter(models.FilterPending)

	next, err := c.Dispatch(context.Background(), st, DeleteTask{ID: 1})
	assert.Error(t, err)
	assert.Equal(t, st, next)
}

func TestStateQueryRoundTrip(t *testing.T) {
	st := State{Filter: models.FilterPending, EditingID: 1700000000001, Invalid: InvalidEdit}

	q := st.Query()
	assert.Equal(t, "pending", q.Get("filter"))
	assert.Equal(t, "1700000000001", q.Get("edit"))

	assert.Equal(t, st, StateFromQuery(q))
	assert.Empty(t, Idle().Query().Encode())
}

func TestStateFromQuery_Malformed(t *testing.T) {
	q := url.Values{"filter": {"weird"}, "edit": {"abc"}, "invalid": {"boom"}}
	assert.Equal(t, Idle(), StateFromQuery(q))
}

func TestRestore(t *testing.T) {
	c, _, tasks := setupController(t, "draft source")
	ctx := context.Background()

	st := c.Restore(ctx, State{Filter: models.FilterAll, EditingID: tasks[0].ID})
	assert.Equal(t, "draft source", st.Draft)

	st = c.Restore(ctx, State{Filter: models.FilterAll, EditingID: 12345})
	assert.False(t, st.Editing())
}
