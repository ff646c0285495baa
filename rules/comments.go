package rules

import (
	"context"
	"fmt"
	"strings"

	"campus-events/models"
)

// AddComment stores a non-blank comment and credits the author. The event's
// proposer is notified unless they wrote it.
func (e *Engine) AddComment(ctx context.Context, eventID, userID int64, text string) (models.Comment, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, 0, invalid("comment", "comment must not be empty")
	}
	ev, err := e.GetEvent(ctx, eventID)
	if err != nil {
		return models.Comment{}, 0, err
	}

	id, err := e.store.CreateComment(ctx, models.Comment{EventID: eventID, UserID: userID, Comment: text})
	if err != nil {
		return models.Comment{}, 0, fmt.Errorf("failed to create comment: %w", err)
	}
	c, ok, err := e.store.GetComment(ctx, id)
	if err != nil {
		return models.Comment{}, 0, fmt.Errorf("failed to load comment: %w", err)
	}
	if !ok {
		return models.Comment{}, 0, notFound("comment", id)
	}

	points := e.award(ctx, userID, ActionComment)
	if ev.ProposerID != userID {
		e.notify(ctx, models.Notification{
			UserID:    ev.ProposerID,
			Type:      models.NotifyEventComment,
			Title:     "New comment",
			Message:   fmt.Sprintf("%s commented on %q", c.UserName, ev.Title),
			RelatedID: &eventID,
			ActorID:   &userID,
		})
	}
	return c, points, nil
}

// ListComments returns an event's comments, newest first.
func (e *Engine) ListComments(ctx context.Context, eventID int64) ([]models.Comment, error) {
	if _, err := e.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	comments, err := e.store.ListComments(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
