package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/microblog/internal/i18n"
	"github.com/anonto42/microblog/internal/repositories"
	"github.com/anonto42/microblog/internal/tasks"
)

// TaskHandler starts background jobs. queue is nil when Redis is not configured.
type TaskHandler struct {
	queue          *tasks.Queue
	taskRepository repositories.TaskRepository
}

func NewTaskHandler(queue *tasks.Queue, taskRepo repositories.TaskRepository) *TaskHandler {
	return &TaskHandler{queue: queue, taskRepository: taskRepo}
}

func (h *TaskHandler) RegisterTaskRoutes(g *echo.Group) {
	g.POST("/export_posts", h.ExportPosts)
	g.GET("/tasks", h.TasksInProgress)
}

// ExportPosts queues an email archive of the current user's posts.
func (h *TaskHandler) ExportPosts(c echo.Context) error {
	if h.queue == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, i18n.T(c, i18n.MsgTasksDisabled))
	}

	task, err := h.queue.Enqueue(c.Request().Context(), tasks.ExportPosts, getUserIDFromContext(c), i18n.T(c, i18n.MsgExporting))
	if err != nil {
		if errors.Is(err, tasks.ErrTaskRunning) {
			return echo.NewHTTPError(http.StatusConflict, i18n.T(c, i18n.MsgExportRunning))
		}
		return internalError(c, err)
	}
	return success(c, http.StatusAccepted, task.Description, task)
}

func (h *TaskHandler) TasksInProgress(c echo.Context) error {
	running, err := h.taskRepository.TasksInProgress(getUserIDFromContext(c))
	if err != nil {
		return internalError(c, err)
	}
	return success(c, http.StatusOK, "", echo.Map{"tasks": running})
}
