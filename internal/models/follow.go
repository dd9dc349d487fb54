package models

import "time"

// Follow is a row of the followers association table: FollowerID follows FollowedID.
type Follow struct {
	FollowerID uint      `json:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint      `json:"followed_id" gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "followers"
}
