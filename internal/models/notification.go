package models

import "encoding/json"

const (
	NotificationUnreadMessageCount = "unread_message_count"
	NotificationTaskProgress       = "task_progress"
	NotificationNewFollower        = "new_follower"
)

// Notification is the latest value of a named per-user signal. Timestamp is unix seconds.
type Notification struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"size:128;index"`
	UserID      uint    `json:"user_id" gorm:"index"`
	Timestamp   float64 `json:"timestamp" gorm:"index"`
	PayloadJSON string  `json:"-" gorm:"type:text"`
}

func (n *Notification) Payload() (any, error) {
	var v any
	if n.PayloadJSON == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(n.PayloadJSON), &v); err != nil {
		return nil, err
	}
	return v, nil
}

type NotificationView struct {
	Name      string  `json:"name"`
	Data      any     `json:"data"`
	Timestamp float64 `json:"timestamp"`
}
