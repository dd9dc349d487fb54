package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/microblog/internal/models"
)

func TestTaskProgress(t *testing.T) {
	db := newTestDB(t)
	u := createUsers(t, NewPostgresUserRepository(db), "mirko")[0]
	repo := NewPostgresTaskRepository(db)

	require.NoError(t, repo.CreateTask(&models.Task{ID: "t-1", Name: "export_posts", Description: "Exporting posts...", UserID: u.ID}))

	running, err := repo.TaskInProgress(u.ID, "export_posts")
	require.NoError(t, err)
	assert.Equal(t, "t-1", running.ID)

	require.NoError(t, repo.SetTaskProgress("t-1", 50))
	task, err := repo.GetTask("t-1")
	require.NoError(t, err)
	assert.Equal(t, 50, task.Progress)
	assert.False(t, task.Complete)

	require.NoError(t, repo.SetTaskProgress("t-1", 120))
	task, err = repo.GetTask("t-1")
	require.NoError(t, err)
	assert.Equal(t, 100, task.Progress)
	assert.True(t, task.Complete)

	_, err = repo.TaskInProgress(u.ID, "export_posts")
	assert.ErrorIs(t, err, ErrNotFound)
	tasks, err := repo.TasksInProgress(u.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	assert.ErrorIs(t, repo.SetTaskProgress("missing", 10), ErrNotFound)
}
