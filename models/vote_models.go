package models

import "time"

// Vote records one user's support for an event.
type Vote struct {
	ID        int64     `json:"id" db:"vote_id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// VoteResult defines the structure for the vote toggle response.
type VoteResult struct {
	EventID       int64 `json:"event_id"`
	Voted         bool  `json:"voted"`          // True if the user now votes for the event
	VoteCount     int   `json:"vote_count"`     // Total number of votes after the toggle
	PointsAwarded int   `json:"points_awarded"` // 0 when the award was skipped or failed
}
