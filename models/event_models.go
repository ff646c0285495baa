package models

import (
	"fmt"
	"strings"
	"time"
)

// EventStatus is a stage of the event lifecycle.
type EventStatus string

const (
	StatusProposed  EventStatus = "proposed"
	StatusApproved  EventStatus = "approved"
	StatusFunded    EventStatus = "funded"
	StatusScheduled EventStatus = "scheduled"
	StatusCompleted EventStatus = "completed"
	StatusCancelled EventStatus = "cancelled"
)

// EventStatuses lists every status in lifecycle order.
var EventStatuses = []EventStatus{
	StatusProposed, StatusApproved, StatusFunded, StatusScheduled, StatusCompleted, StatusCancelled,
}

// ParseEventStatus maps an external string onto an EventStatus, failing on unknown input.
func ParseEventStatus(s string) (EventStatus, error) {
	st := EventStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown event status %q", s)
	}
	return st, nil
}

func (s EventStatus) Valid() bool {
	for _, known := range EventStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s EventStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s EventStatus) String() string { return string(s) }

// next holds the single forward successor of each non-terminal status.
var next = map[EventStatus]EventStatus{
	StatusProposed:  StatusApproved,
	StatusApproved:  StatusFunded,
	StatusFunded:    StatusScheduled,
	StatusScheduled: StatusCompleted,
}

// Event is a proposed campus activity.
type Event struct {
	ID             int64       `json:"id" db:"event_id"`
	Title          string      `json:"title" db:"title"`
	Description    string      `json:"description" db:"description"`
	Category       string      `json:"category" db:"category"`
	Status         EventStatus `json:"status" db:"status"`
	ProposerID     int64       `json:"proposer_id" db:"proposer_id"`
	BudgetEstimate float64     `json:"budget_estimate" db:"budget_estimate"`
	TotalFunds     float64     `json:"total_funds" db:"total_funds"`
	TargetFunds    float64     `json:"target_funds" db:"target_funds"`
	EventDate      time.Time   `json:"event_date" db:"event_date"`
	Location       string      `json:"location" db:"location"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`

	// Computed by the listing query, never written back.
	ProposerName string `json:"proposer_name" db:"proposer_name"`
	VoteCount    int    `json:"vote_count" db:"vote_count"`
	CommentCount int    `json:"comment_count" db:"comment_count"`
}

// FundingPercentage is total/target as a percentage. It is 0 when there is no
// target and is not clamped, so overfunded events exceed 100.
func (e Event) FundingPercentage() float64 {
	if e.TargetFunds == 0 {
		return 0
	}
	return e.TotalFunds / e.TargetFunds * 100
}

func (e Event) IsFullyFunded() bool { return e.TotalFunds >= e.TargetFunds }

func (e Event) CanBeApproved() bool  { return e.Status == StatusProposed }
func (e Event) CanBeFunded() bool    { return e.Status == StatusApproved }
func (e Event) CanBeScheduled() bool { return e.Status == StatusFunded }

// CanTransitionTo reports whether moving to target follows the forward-only
// lifecycle. Cancellation is allowed from any non-terminal status.
func (e Event) CanTransitionTo(target EventStatus) bool {
	if e.Status.Terminal() || !target.Valid() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	return next[e.Status] == target
}

// CreateEventRequest defines the structure for proposing a new event.
type CreateEventRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	ProposerID     int64     `json:"-"`
	BudgetEstimate float64   `json:"budget_estimate"`
	TargetFunds    float64   `json:"target_funds"`
	EventDate      time.Time `json:"event_date"`
	Location       string    `json:"location"`
}

// EventFilter narrows an event listing. Zero fields are ignored.
type EventFilter struct {
	Status     EventStatus
	Category   string
	ProposerID int64
	Limit      int
}

// EventPatch is a partial update; nil fields are left untouched.
type EventPatch struct {
	Title       *string
	Description *string
	Category    *string
	Status      *EventStatus
	TotalFunds  *float64
	TargetFunds *float64
	EventDate   *time.Time
	Location    *string
}

// Empty reports whether the patch would change nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Status == nil &&
		p.TotalFunds == nil && p.TargetFunds == nil && p.EventDate == nil && p.Location == nil
}

// StatusUpdateRequest is the body of a status change.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// FundingUpdateRequest is the body of a manual funding write.
type FundingUpdateRequest struct {
	TotalFunds float64 `json:"total_funds"`
}

// EventResponse adds the derived funding figures for clients.
type EventResponse struct {
	Event
	FundingPercentage float64 `json:"funding_percentage"`
	FullyFunded       bool    `json:"fully_funded"`
}

func NewEventResponse(e Event) EventResponse {
	return EventResponse{Event: e, FundingPercentage: e.FundingPercentage(), FullyFunded: e.IsFullyFunded()}
}

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Category string `json:"category" db:"category"`
	Count    int    `json:"count" db:"count"`
}
