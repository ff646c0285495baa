package rules

import (
	"context"
	"fmt"

	"campus-events/database"
	"campus-events/metrics"
	"campus-events/models"

	log "github.com/sirupsen/logrus"
)

// VoteUpdate is broadcast to every client after a toggle.
type VoteUpdate struct {
	EventID   int64 `json:"event_id"`
	UserID    int64 `json:"user_id"`
	Voted     bool  `json:"voted"`
	VoteCount int   `json:"vote_count"`
}

// ToggleVote removes the user's vote if there is one and adds it otherwise.
// Adding a vote awards points; removing one does too while the vote-removal
// flag is on. A concurrent duplicate caught by the store counts as already
// voted and earns nothing.
func (e *Engine) ToggleVote(ctx context.Context, eventID, userID int64) (models.VoteResult, error) {
	if _, err := e.GetEvent(ctx, eventID); err != nil {
		return models.VoteResult{}, err
	}

	voted, err := e.store.HasVoted(ctx, eventID, userID)
	if err != nil {
		return models.VoteResult{}, fmt.Errorf("failed to check vote: %w", err)
	}

	result := models.VoteResult{EventID: eventID}
	if voted {
		removed, err := e.store.RemoveVote(ctx, eventID, userID)
		if err != nil {
			return models.VoteResult{}, fmt.Errorf("failed to remove vote: %w", err)
		}
		if removed && e.rules.Flags.AwardVoteRemoval {
			result.PointsAwarded = e.award(ctx, userID, ActionVote)
		}
	} else {
		_, err := e.store.AddVote(ctx, eventID, userID)
		switch {
		case database.IsConstraint(err) && e.votedAfterConflict(ctx, eventID, userID):
			log.WithFields(log.Fields{"event_id": eventID, "user_id": userID}).Info("Duplicate vote ignored")
		case err != nil:
			return models.VoteResult{}, fmt.Errorf("failed to add vote: %w", err)
		default:
			result.PointsAwarded = e.award(ctx, userID, ActionVote)
		}
		result.Voted = true
	}

	count, err := e.store.CountVotes(ctx, eventID)
	if err != nil {
		return models.VoteResult{}, fmt.Errorf("failed to count votes: %w", err)
	}
	result.VoteCount = count

	metrics.RecordVote(result.Voted)
	e.pub.Broadcast(MsgEventVoteUpdated, VoteUpdate{
		EventID: eventID, UserID: userID, Voted: result.Voted, VoteCount: count,
	})
	return result, nil
}

// votedAfterConflict tells a duplicate vote apart from other constraint
// failures, such as an unknown user.
func (e *Engine) votedAfterConflict(ctx context.Context, eventID, userID int64) bool {
	voted, err := e.store.HasVoted(ctx, eventID, userID)
	return err == nil && voted
}
