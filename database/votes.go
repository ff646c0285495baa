package database

import (
	"context"
)

// HasVoted reports whether userID currently votes for eventID.
func (g *Gateway) HasVoted(ctx context.Context, eventID, userID int64) (bool, error) {
	const op = "check vote"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM votes WHERE event_id = ? AND user_id = ?)`, eventID, userID); err != nil {
		return false, wrap(ctx, op, err)
	}
	return exists, nil
}

// AddVote records a vote. A second vote by the same user fails with ErrConstraint.
func (g *Gateway) AddVote(ctx context.Context, eventID, userID int64) (int64, error) {
	const op = "add vote"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, `INSERT INTO votes (event_id, user_id) VALUES (?, ?)`, eventID, userID)
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	return id, nil
}

// RemoveVote withdraws a vote and reports whether there was one.
func (g *Gateway) RemoveVote(ctx context.Context, eventID, userID int64) (bool, error) {
	const op = "remove vote"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM votes WHERE event_id = ? AND user_id = ?`, eventID, userID)
	if err != nil {
		return false, wrap(ctx, op, err)
	}
	return affected(ctx, op, res)
}

// CountVotes returns the number of votes on an event.
func (g *Gateway) CountVotes(ctx context.Context, eventID int64) (int, error) {
	const op = "count votes"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM votes WHERE event_id = ?`, eventID); err != nil {
		return 0, wrap(ctx, op, err)
	}
	return n, nil
}
