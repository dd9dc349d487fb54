package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/microblog/internal/metrics"
	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/internal/repositories"
)

// Handler runs one job. progress reports completion in percent.
type Handler func(ctx context.Context, job Job, progress func(int)) error

type Worker struct {
	rdb           *redis.Client
	tasks         repositories.TaskRepository
	notifications repositories.NotificationRepository
	handlers      map[string]Handler
	pollTimeout   time.Duration
}

func NewWorker(rdb *redis.Client, tasks repositories.TaskRepository, notifications repositories.NotificationRepository) *Worker {
	return &Worker{
		rdb:           rdb,
		tasks:         tasks,
		notifications: notifications,
		handlers:      map[string]Handler{},
		pollTimeout:   5 * time.Second,
	}
}

func (w *Worker) Handle(name string, h Handler) {
	w.handlers[name] = h
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	logrus.WithField("queue", QueueName).Info("Task worker started")
	for {
		if _, err := w.ProcessNext(ctx); err != nil {
			if ctx.Err() != nil {
				logrus.Info("Task worker stopped")
				return nil
			}
			logrus.WithError(err).Error("Task queue unavailable")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}
}

// ProcessNext waits up to the poll timeout for a job and runs it. It reports
// whether a job was taken off the queue.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	res, err := w.rdb.BRPop(ctx, w.pollTimeout, QueueName).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		logrus.WithError(err).WithField("payload", res[1]).Error("Dropping malformed job")
		return true, nil
	}
	w.run(ctx, job)
	return true, nil
}

func (w *Worker) run(ctx context.Context, job Job) {
	log := logrus.WithFields(logrus.Fields{"task_id": job.ID, "task": job.Name, "user_id": job.UserID})

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			log.WithError(err).Error("Unhandled exception in task")
		}
		metrics.TaskProcessed(job.Name, err == nil)
		w.setProgress(job, 100)
	}()

	h, ok := w.handlers[job.Name]
	if !ok {
		err = fmt.Errorf("no handler for task %q", job.Name)
		return
	}
	log.Info("Running task")
	err = h(ctx, job, func(p int) { w.setProgress(job, p) })
}

func (w *Worker) setProgress(job Job, progress int) {
	if err := w.tasks.SetTaskProgress(job.ID, progress); err != nil {
		logrus.WithError(err).WithField("task_id", job.ID).Warn("failed to record task progress")
	}
	_, err := w.notifications.AddNotification(job.UserID, models.NotificationTaskProgress, map[string]any{
		"task_id":  job.ID,
		"progress": min(progress, 100),
	})
	if err != nil {
		logrus.WithError(err).WithField("task_id", job.ID).Warn("failed to notify task progress")
	}
}
