package models

import "time"

// Post is a short message authored by one user.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Body      string    `json:"body" gorm:"size:140"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Author    User      `json:"-" gorm:"foreignKey:UserID"`
	Language  string    `json:"language,omitempty" gorm:"size:5"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Body string `json:"body" validate:"required,notblank,max=140"`
}

// PostView is a post together with its author block.
type PostView struct {
	Post
	Author UserCompact `json:"author"`
}

func (p *Post) View() PostView {
	return PostView{Post: *p, Author: p.Author.ToCompact()}
}

func PostViews(posts []Post) []PostView {
	out := make([]PostView, len(posts))
	for i := range posts {
		out[i] = posts[i].View()
	}
	return out
}
