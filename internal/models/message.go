package models

import "time"

// Message is a private message between two users.
type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SenderID    uint      `json:"sender_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	Body        string    `json:"body" gorm:"size:140"`
	Timestamp   time.Time `json:"timestamp" gorm:"index"`
	Author      User      `json:"-" gorm:"foreignKey:SenderID"`
	Recipient   User      `json:"-" gorm:"foreignKey:RecipientID"`
}

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,notblank,max=140"`
}

type MessageView struct {
	Message
	Author UserCompact `json:"author"`
}

func MessageViews(messages []Message) []MessageView {
	out := make([]MessageView, len(messages))
	for i := range messages {
		out[i] = MessageView{Message: messages[i], Author: messages[i].Author.ToCompact()}
	}
	return out
}
