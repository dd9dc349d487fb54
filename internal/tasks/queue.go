// Package tasks runs long user-requested jobs on a Redis-backed queue.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/internal/repositories"
)

// QueueName is the Redis list jobs are pushed to.
const QueueName = "microblog-tasks"

const ExportPosts = "export_posts"

var ErrTaskRunning = errors.New("task already in progress")

// Job is the payload stored on the queue.
type Job struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID uint   `json:"user_id"`
}

type Queue struct {
	rdb   *redis.Client
	tasks repositories.TaskRepository
}

func NewQueue(rdb *redis.Client, tasks repositories.TaskRepository) *Queue {
	return &Queue{rdb: rdb, tasks: tasks}
}

// Enqueue records a Task row for the user and pushes the job. A user can only
// have one running task per name.
func (q *Queue) Enqueue(ctx context.Context, name string, userID uint, description string) (*models.Task, error) {
	_, err := q.tasks.TaskInProgress(userID, name)
	switch {
	case err == nil:
		return nil, ErrTaskRunning
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		UserID:      userID,
	}
	if err := q.tasks.CreateTask(task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	payload, err := json.Marshal(Job{ID: task.ID, Name: name, UserID: userID})
	if err != nil {
		return nil, err
	}
	if err := q.rdb.LPush(ctx, QueueName, payload).Err(); err != nil {
		// nothing will ever pick the row up
		_ = q.tasks.SetTaskProgress(task.ID, 100)
		return nil, fmt.Errorf("enqueue %s: %w", name, err)
	}
	return task, nil
}
