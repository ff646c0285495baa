package rules

import (
	"context"
	"fmt"
	"strings"

	"campus-events/models"
)

// AddFeedback stores a 1..5 rating with an optional remark and credits the
// author. Ratings are not limited to one per user.
func (e *Engine) AddFeedback(ctx context.Context, eventID, userID int64, rating int, comment string) (models.Feedback, int, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return models.Feedback{}, 0, invalid("rating", fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating))
	}
	if _, err := e.GetEvent(ctx, eventID); err != nil {
		return models.Feedback{}, 0, err
	}

	id, err := e.store.CreateFeedback(ctx, models.Feedback{
		EventID: eventID,
		UserID:  userID,
		Rating:  rating,
		Comment: strings.TrimSpace(comment),
	})
	if err != nil {
		return models.Feedback{}, 0, fmt.Errorf("failed to create feedback: %w", err)
	}
	f, ok, err := e.store.GetFeedback(ctx, id)
	if err != nil {
		return models.Feedback{}, 0, fmt.Errorf("failed to load feedback: %w", err)
	}
	if !ok {
		return models.Feedback{}, 0, notFound("feedback", id)
	}
	return f, e.award(ctx, userID, ActionFeedback), nil
}

// FeedbackSummary lists an event's feedback with the average rating.
func (e *Engine) FeedbackSummary(ctx context.Context, eventID int64) (models.FeedbackSummary, error) {
	if _, err := e.GetEvent(ctx, eventID); err != nil {
		return models.FeedbackSummary{}, err
	}
	list, err := e.store.ListFeedback(ctx, eventID)
	if err != nil {
		return models.FeedbackSummary{}, fmt.Errorf("failed to list feedback: %w", err)
	}
	avg, count, err := e.store.AverageRating(ctx, eventID)
	if err != nil {
		return models.FeedbackSummary{}, fmt.Errorf("failed to average ratings: %w", err)
	}
	return models.FeedbackSummary{EventID: eventID, AverageRating: avg, Count: count, Feedback: list}, nil
}
