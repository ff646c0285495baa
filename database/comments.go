package database

import (
	"context"
	"database/sql"
	"errors"

	"campus-events/models"
)

const commentSelect = `
	SELECT c.comment_id, c.event_id, c.user_id, c.comment, c.timestamp,
		COALESCE(u.name, '') AS user_name,
		COALESCE(e.title, '') AS event_title
	FROM comments c
	LEFT JOIN users u ON u.user_id = c.user_id
	LEFT JOIN events e ON e.event_id = c.event_id`

// CreateComment stores a comment and returns its ID.
func (g *Gateway) CreateComment(ctx context.Context, c models.Comment) (int64, error) {
	const op = "create comment"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO comments (event_id, user_id, comment) VALUES (?, ?, ?)`,
		c.EventID, c.UserID, c.Comment)
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	return id, nil
}

func (g *Gateway) GetComment(ctx context.Context, id int64) (models.Comment, bool, error) {
	const op = "get comment"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return models.Comment{}, false, err
	}

	var c models.Comment
	if err := db.GetContext(ctx, &c, commentSelect+` WHERE c.comment_id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Comment{}, false, nil
		}
		return models.Comment{}, false, wrap(ctx, op, err)
	}
	return c, true, nil
}

// ListComments returns the comments on an event, newest first.
func (g *Gateway) ListComments(ctx context.Context, eventID int64) ([]models.Comment, error) {
	const op = "list comments"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return nil, err
	}

	comments := []models.Comment{}
	if err := db.SelectContext(ctx, &comments,
		commentSelect+` WHERE c.event_id = ? ORDER BY c.timestamp DESC, c.comment_id DESC`, eventID); err != nil {
		return nil, wrap(ctx, op, err)
	}
	return comments, nil
}
