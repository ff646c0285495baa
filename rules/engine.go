// Package rules holds the domain decisions: who may do what, the event
// lifecycle, vote toggling, point awards and funding aggregation. It talks to
// the store through Store and pushes live updates through Publisher.
package rules

import (
	"context"

	"campus-events/config"
	"campus-events/database"
	"campus-events/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (models.User, bool, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	AddPoints(ctx context.Context, userID int64, delta int) (bool, error)
	GetUserStats(ctx context.Context, userID int64) (models.UserStats, bool, error)
}

type EventStore interface {
	CreateEvent(ctx context.Context, e models.Event) (int64, error)
	GetEvent(ctx context.Context, id int64) (models.Event, bool, error)
	ListEvents(ctx context.Context, f models.EventFilter) ([]models.Event, error)
	UpdateEventStatus(ctx context.Context, id int64, status models.EventStatus) (bool, error)
	UpdateEventFunding(ctx context.Context, id int64, total float64) (bool, error)
	CountEventsByCategory(ctx context.Context) ([]models.CategoryCount, error)
}

type VoteStore interface {
	HasVoted(ctx context.Context, eventID, userID int64) (bool, error)
	AddVote(ctx context.Context, eventID, userID int64) (int64, error)
	RemoveVote(ctx context.Context, eventID, userID int64) (bool, error)
	CountVotes(ctx context.Context, eventID int64) (int, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, c models.Comment) (int64, error)
	GetComment(ctx context.Context, id int64) (models.Comment, bool, error)
	ListComments(ctx context.Context, eventID int64) ([]models.Comment, error)
}

type ContributionStore interface {
	CreateContribution(ctx context.Context, c models.Contribution) (int64, error)
	GetContribution(ctx context.Context, id int64) (models.Contribution, bool, error)
	ListContributionsByEvent(ctx context.Context, eventID int64) ([]models.Contribution, error)
	ListContributionsByUser(ctx context.Context, userID int64) ([]models.Contribution, error)
	UpdateContributionStatus(ctx context.Context, id int64, status models.ContributionStatus) (bool, error)
	SumApprovedFunds(ctx context.Context, eventID int64) (float64, error)
}

type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f models.Feedback) (int64, error)
	GetFeedback(ctx context.Context, id int64) (models.Feedback, bool, error)
	ListFeedback(ctx context.Context, eventID int64) ([]models.Feedback, error)
	AverageRating(ctx context.Context, eventID int64) (float64, int, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n models.Notification) (int64, error)
	ListNotifications(ctx context.Context, userID int64, limit int) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID int64) (int, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID int64) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
}

// Store is everything the engine needs from persistence.
type Store interface {
	UserStore
	EventStore
	VoteStore
	CommentStore
	ContributionStore
	FeedbackStore
	NotificationStore
}

var _ Store = (*database.Gateway)(nil)

// Message types pushed to clients.
const (
	MsgEventVoteUpdated = "event_vote_updated"
	MsgPointsUpdated    = "points_updated"
	MsgNotification     = "notification"
	MsgUnreadCount      = "unread_count"
)

// Publisher delivers live updates to connected clients. Delivery is best
// effort and must not block.
type Publisher interface {
	Broadcast(msgType string, payload interface{})
	SendToUser(userID int64, msgType string, payload interface{})
}

type nopPublisher struct{}

func (nopPublisher) Broadcast(string, interface{})         {}
func (nopPublisher) SendToUser(int64, string, interface{}) {}

// Engine applies the domain rules on top of a Store.
type Engine struct {
	store Store
	rules config.Rules
	pub   Publisher
}

// New builds an engine. pub may be nil when nobody listens for live updates.
func New(store Store, rules config.Rules, pub Publisher) *Engine {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &Engine{store: store, rules: rules, pub: pub}
}

// Rules returns the point amounts and flags in force.
func (e *Engine) Rules() config.Rules { return e.rules }
