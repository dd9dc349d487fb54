package models

// Task tracks a background job started by a user.
type Task struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"size:128;index"`
	Description string `json:"description" gorm:"size:128"`
	UserID      uint   `json:"user_id" gorm:"index"`
	Complete    bool   `json:"complete" gorm:"default:false"`
	Progress    int    `json:"progress" gorm:"default:0"`
}
