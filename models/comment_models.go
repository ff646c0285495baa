package models

import "time"

// CreateCommentRequest defines the structure for creating a new comment.
type CreateCommentRequest struct {
	Comment string `json:"comment"`
}

// Comment is a remark left on an event.
type Comment struct {
	ID        int64     `json:"id" db:"comment_id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Comment   string    `json:"comment" db:"comment"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	UserName   string `json:"user_name" db:"user_name"`
	EventTitle string `json:"event_title" db:"event_title"`
}
