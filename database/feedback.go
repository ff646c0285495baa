package database

import (
	"context"
	"database/sql"
	"errors"

	"campus-events/models"
)

const feedbackSelect = `
	SELECT f.feedback_id, f.event_id, f.user_id, f.rating, COALESCE(f.comment, '') AS comment,
		f.created_at, COALESCE(u.name, '') AS user_name
	FROM feedback f
	LEFT JOIN users u ON u.user_id = f.user_id`

// CreateFeedback stores a rating and returns its ID. Ratings outside 1..5 fail with ErrConstraint.
func (g *Gateway) CreateFeedback(ctx context.Context, f models.Feedback) (int64, error) {
	const op = "create feedback"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	var comment interface{}
	if f.Comment != "" {
		comment = f.Comment
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO feedback (event_id, user_id, rating, comment) VALUES (?, ?, ?, ?)`,
		f.EventID, f.UserID, f.Rating, comment)
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	return id, nil
}

func (g *Gateway) GetFeedback(ctx context.Context, id int64) (models.Feedback, bool, error) {
	const op = "get feedback"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return models.Feedback{}, false, err
	}

	var f models.Feedback
	if err := db.GetContext(ctx, &f, feedbackSelect+` WHERE f.feedback_id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Feedback{}, false, nil
		}
		return models.Feedback{}, false, wrap(ctx, op, err)
	}
	return f, true, nil
}

// ListFeedback returns an event's feedback, newest first.
func (g *Gateway) ListFeedback(ctx context.Context, eventID int64) ([]models.Feedback, error) {
	const op = "list feedback"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return nil, err
	}

	list := []models.Feedback{}
	if err := db.SelectContext(ctx, &list,
		feedbackSelect+` WHERE f.event_id = ? ORDER BY f.created_at DESC, f.feedback_id DESC`, eventID); err != nil {
		return nil, wrap(ctx, op, err)
	}
	return list, nil
}

// AverageRating returns the mean rating of an event and how many ratings it has.
// An event without feedback averages 0.
func (g *Gateway) AverageRating(ctx context.Context, eventID int64) (float64, int, error) {
	const op = "average rating"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, 0, err
	}

	var (
		avg   float64
		count int
	)
	if err := db.QueryRowxContext(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM feedback WHERE event_id = ?`, eventID).Scan(&avg, &count); err != nil {
		return 0, 0, wrap(ctx, op, err)
	}
	return avg, count, nil
}
