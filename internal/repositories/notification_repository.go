package repositories

import (
	"encoding/json"
	"time"

	"github.com/anonto42/microblog/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	AddNotification(userID uint, name string, payload any) (*models.Notification, error)
	NotificationsSince(userID uint, since float64) ([]models.Notification, error)
}

type postgresNotificationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db, now: time.Now}
}

// AddNotification replaces the user's notification of the same name.
func (r *postgresNotificationRepository) AddNotification(userID uint, name string, payload any) (*models.Notification, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	n := &models.Notification{
		Name:        name,
		UserID:      userID,
		Timestamp:   float64(r.now().UnixNano()) / 1e9,
		PayloadJSON: string(data),
	}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND name = ?", userID, name).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Create(n).Error
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *postgresNotificationRepository) NotificationsSince(userID uint, since float64) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ? AND timestamp > ?", userID, since).
		Order("timestamp ASC").
		Find(&notifications).Error
	return notifications, err
}
