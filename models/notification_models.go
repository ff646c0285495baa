package models

import "time"

// Notification types raised by the rules engine.
const (
	NotifyStatusChanged        = "event_status_changed"
	NotifyEventComment         = "event_comment"
	NotifyEventContribution    = "event_contribution"
	NotifyContributionReviewed = "contribution_reviewed"
)

// Notification represents a notification in the system
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`       // Who receives the notification
	Type      string    `json:"type" db:"type"`             // event_status_changed, event_comment, etc.
	Title     string    `json:"title" db:"title"`           // Short title
	Message   string    `json:"message" db:"message"`       // Detailed message
	RelatedID *int64    `json:"related_id" db:"related_id"` // ID of the event or contribution concerned
	ActorID   *int64    `json:"actor_id" db:"actor_id"`     // Who triggered the notification
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NotificationCount represents unread notification count
type NotificationCount struct {
	UnreadCount int `json:"unread_count"`
}
