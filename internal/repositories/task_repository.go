package repositories

import (
	"github.com/anonto42/microblog/internal/models"
	"gorm.io/gorm"
)

type TaskRepository interface {
	CreateTask(task *models.Task) error
	GetTask(id string) (*models.Task, error)
	TasksInProgress(userID uint) ([]models.Task, error)
	TaskInProgress(userID uint, name string) (*models.Task, error)
	SetTaskProgress(id string, progress int) error
}

type postgresTaskRepository struct {
	db *gorm.DB
}

func NewPostgresTaskRepository(db *gorm.DB) TaskRepository {
	return &postgresTaskRepository{db: db}
}

func (r *postgresTaskRepository) CreateTask(task *models.Task) error {
	return r.db.Create(task).Error
}

func (r *postgresTaskRepository) GetTask(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

func (r *postgresTaskRepository) TasksInProgress(userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("user_id = ? AND complete = ?", userID, false).Find(&tasks).Error
	return tasks, err
}

// TaskInProgress returns ErrNotFound when the user has no running task with that name.
func (r *postgresTaskRepository) TaskInProgress(userID uint, name string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("user_id = ? AND name = ? AND complete = ?", userID, name, false).First(&task).Error; err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

// SetTaskProgress records progress; 100 or more marks the task complete.
func (r *postgresTaskRepository) SetTaskProgress(id string, progress int) error {
	if progress > 100 {
		progress = 100
	}
	updates := map[string]any{"progress": progress}
	if progress >= 100 {
		updates["complete"] = true
	}
	res := r.db.Model(&models.Task{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
