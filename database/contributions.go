package database

import (
	"context"
	"database/sql"
	"errors"

	"campus-events/models"
)

const contributionSelect = `
	SELECT c.contribution_id, c.event_id, c.user_id, c.type, COALESCE(c.details, '') AS details,
		c.amount, c.status, c.created_at,
		COALESCE(u.name, '') AS user_name,
		COALESCE(e.title, '') AS event_title
	FROM contributions c
	LEFT JOIN users u ON u.user_id = c.user_id
	LEFT JOIN events e ON e.event_id = c.event_id`

// CreateContribution stores a pledge and returns its ID. An empty status is stored as pending.
func (g *Gateway) CreateContribution(ctx context.Context, c models.Contribution) (int64, error) {
	const op = "create contribution"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	if c.Status == "" {
		c.Status = models.ContributionPending
	}
	var details interface{}
	if c.Details != "" {
		details = c.Details
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO contributions (event_id, user_id, type, details, amount, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.EventID, c.UserID, c.Type, details, c.Amount, c.Status)
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	return id, nil
}

func (g *Gateway) GetContribution(ctx context.Context, id int64) (models.Contribution, bool, error) {
	const op = "get contribution"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return models.Contribution{}, false, err
	}

	var c models.Contribution
	if err := db.GetContext(ctx, &c, contributionSelect+` WHERE c.contribution_id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contribution{}, false, nil
		}
		return models.Contribution{}, false, wrap(ctx, op, err)
	}
	return c, true, nil
}

// ListContributionsByEvent returns an event's contributions, newest first.
func (g *Gateway) ListContributionsByEvent(ctx context.Context, eventID int64) ([]models.Contribution, error) {
	return g.listContributions(ctx, "list contributions by event", `c.event_id = ?`, eventID)
}

// ListContributionsByUser returns a user's contributions, newest first.
func (g *Gateway) ListContributionsByUser(ctx context.Context, userID int64) ([]models.Contribution, error) {
	return g.listContributions(ctx, "list contributions by user", `c.user_id = ?`, userID)
}

func (g *Gateway) listContributions(ctx context.Context, op, where string, arg int64) ([]models.Contribution, error) {
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return nil, err
	}

	list := []models.Contribution{}
	if err := db.SelectContext(ctx, &list,
		contributionSelect+` WHERE `+where+` ORDER BY c.created_at DESC, c.contribution_id DESC`, arg); err != nil {
		return nil, wrap(ctx, op, err)
	}
	return list, nil
}

// UpdateContributionStatus records a review decision.
func (g *Gateway) UpdateContributionStatus(ctx context.Context, id int64, status models.ContributionStatus) (bool, error) {
	const op = "update contribution status"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, `UPDATE contributions SET status = ? WHERE contribution_id = ?`, status, id)
	if err != nil {
		return false, wrap(ctx, op, err)
	}
	return affected(ctx, op, res)
}

// SumApprovedFunds totals the approved fund pledges of an event.
func (g *Gateway) SumApprovedFunds(ctx context.Context, eventID int64) (float64, error) {
	const op = "sum approved funds"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	var total float64
	if err := db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0) FROM contributions
		WHERE event_id = ? AND type = ? AND status = ?`,
		eventID, models.ContributionFund, models.ContributionApproved); err != nil {
		return 0, wrap(ctx, op, err)
	}
	return total, nil
}
