package repositories

import (
	"time"

	"github.com/anonto42/microblog/internal/models"
	"gorm.io/gorm"
)

type MessageRepository interface {
	SendMessage(msg *models.Message) error
	ReceivedMessages(userID uint, page, perPage int) ([]models.Message, int64, error)
	NewMessageCount(user *models.User) (int64, error)
	MarkMessagesRead(userID uint, at time.Time) error
}

type postgresMessageRepository struct {
	db *gorm.DB
}

func NewPostgresMessageRepository(db *gorm.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) SendMessage(msg *models.Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	return r.db.Create(msg).Error
}

func (r *postgresMessageRepository) ReceivedMessages(userID uint, page, perPage int) ([]models.Message, int64, error) {
	var messages []models.Message
	var total int64

	if err := r.db.Model(&models.Message{}).Where("recipient_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	off, limit := offset(page, perPage)
	err := r.db.Preload("Author").
		Where("recipient_id = ?", userID).
		Order("timestamp DESC").Order("id DESC").
		Offset(off).Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

// NewMessageCount counts messages received after the user last opened their inbox.
func (r *postgresMessageRepository) NewMessageCount(user *models.User) (int64, error) {
	lastRead := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	if user.LastMessageReadTime != nil {
		lastRead = user.LastMessageReadTime.UTC()
	}
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND timestamp > ?", user.ID, lastRead).
		Count(&count).Error
	return count, err
}

func (r *postgresMessageRepository) MarkMessagesRead(userID uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("last_message_read_time", at.UTC()).Error
}
