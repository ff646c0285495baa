package rules

import (
	"context"

	"campus-events/metrics"

	log "github.com/sirupsen/logrus"
)

// Actions points are awarded for.
const (
	ActionVote         = "vote"
	ActionContribution = "contribution"
	ActionComment      = "comment"
	ActionFeedback     = "feedback"
	ActionProposal     = "proposal"
)

// PointsUpdate is pushed to a user after an award.
type PointsUpdate struct {
	UserID        int64  `json:"user_id"`
	Action        string `json:"action"`
	PointsAwarded int    `json:"points_awarded"`
}

func (e *Engine) pointsFor(action string) int {
	p := e.rules.Points
	switch action {
	case ActionVote:
		return p.Vote
	case ActionContribution:
		return p.Contribution
	case ActionComment:
		return p.Comment
	case ActionFeedback:
		return p.Feedback
	case ActionProposal:
		return p.Proposal
	}
	return 0
}

// award credits the user for action and returns the points written. It runs
// after the primary write has succeeded and never undoes it: a failed award
// is logged and reported as 0.
func (e *Engine) award(ctx context.Context, userID int64, action string) int {
	points := e.pointsFor(action)
	if points <= 0 {
		return 0
	}

	ok, err := e.store.AddPoints(ctx, userID, points)
	if err != nil || !ok {
		log.WithFields(log.Fields{"user_id": userID, "action": action, "points": points}).
			WithError(err).Error("Failed to award points")
		metrics.RecordPointAwardFailure(action)
		return 0
	}

	metrics.RecordPoints(action, points)
	e.pub.SendToUser(userID, MsgPointsUpdated, PointsUpdate{UserID: userID, Action: action, PointsAwarded: points})
	return points
}
