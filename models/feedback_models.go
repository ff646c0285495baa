package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a post-event rating with an optional remark.
type Feedback struct {
	ID        int64     `json:"id" db:"feedback_id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	UserName string `json:"user_name" db:"user_name"`
}

// CreateFeedbackRequest defines the structure for rating an event.
type CreateFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// FeedbackSummary is the feedback list of an event with its average rating.
type FeedbackSummary struct {
	EventID       int64      `json:"event_id"`
	AverageRating float64    `json:"average_rating"`
	Count         int        `json:"count"`
	Feedback      []Feedback `json:"feedback"`
}
