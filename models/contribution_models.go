package models

import (
	"fmt"
	"strings"
	"time"
)

// ContributionType is what a contributor is pledging.
type ContributionType string

const (
	ContributionSkill    ContributionType = "skill"
	ContributionResource ContributionType = "resource"
	ContributionFund     ContributionType = "fund"
)

func ParseContributionType(s string) (ContributionType, error) {
	t := ContributionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown contribution type %q", s)
	}
	return t, nil
}

func (t ContributionType) Valid() bool {
	switch t {
	case ContributionSkill, ContributionResource, ContributionFund:
		return true
	}
	return false
}

func (t ContributionType) String() string { return string(t) }

// ContributionStatus is the review state of a contribution.
type ContributionStatus string

const (
	ContributionPending  ContributionStatus = "pending"
	ContributionApproved ContributionStatus = "approved"
	ContributionRejected ContributionStatus = "rejected"
)

func ParseContributionStatus(s string) (ContributionStatus, error) {
	st := ContributionStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown contribution status %q", s)
	}
	return st, nil
}

func (s ContributionStatus) Valid() bool {
	switch s {
	case ContributionPending, ContributionApproved, ContributionRejected:
		return true
	}
	return false
}

func (s ContributionStatus) String() string { return string(s) }

// Contribution is a pledge of skill, resource or funds toward an event.
type Contribution struct {
	ID        int64              `json:"id" db:"contribution_id"`
	EventID   int64              `json:"event_id" db:"event_id"`
	UserID    int64              `json:"user_id" db:"user_id"`
	Type      ContributionType   `json:"type" db:"type"`
	Details   string             `json:"details" db:"details"`
	Amount    float64            `json:"amount" db:"amount"` // only meaningful for fund contributions
	Status    ContributionStatus `json:"status" db:"status"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`

	UserName   string `json:"user_name" db:"user_name"`
	EventTitle string `json:"event_title" db:"event_title"`
}

func (c Contribution) IsFund() bool     { return c.Type == ContributionFund }
func (c Contribution) IsSkill() bool    { return c.Type == ContributionSkill }
func (c Contribution) IsResource() bool { return c.Type == ContributionResource }

func (c Contribution) IsApproved() bool { return c.Status == ContributionApproved }
func (c Contribution) IsPending() bool  { return c.Status == ContributionPending }
func (c Contribution) IsRejected() bool { return c.Status == ContributionRejected }

// CreateContributionRequest defines the structure for pledging to an event.
type CreateContributionRequest struct {
	Type    string  `json:"type"`
	Details string  `json:"details"`
	Amount  float64 `json:"amount"`
}

// ContributionStatusRequest is the body of an admin review decision.
type ContributionStatusRequest struct {
	Status string `json:"status"`
}
