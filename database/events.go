package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"campus-events/models"
)

const eventSelect = `
	SELECT e.event_id, e.title, e.description, e.category, e.status, e.proposer_id,
		e.budget_estimate, e.total_funds, e.target_funds, e.event_date, e.location,
		e.created_at, e.updated_at,
		COALESCE(u.name, '') AS proposer_name,
		(SELECT COUNT(*) FROM votes v WHERE v.event_id = e.event_id) AS vote_count,
		(SELECT COUNT(*) FROM comments c WHERE c.event_id = e.event_id) AS comment_count
	FROM events e
	LEFT JOIN users u ON u.user_id = e.proposer_id`

// CreateEvent inserts e and returns its ID. An empty status is stored as proposed.
func (g *Gateway) CreateEvent(ctx context.Context, e models.Event) (int64, error) {
	const op = "create event"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	if e.Status == "" {
		e.Status = models.StatusProposed
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO events (title, description, category, status, proposer_id,
			budget_estimate, total_funds, target_funds, event_date, location)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Title, e.Description, e.Category, e.Status, e.ProposerID,
		e.BudgetEstimate, e.TotalFunds, e.TargetFunds, e.EventDate, e.Location)
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	return id, nil
}

// GetEvent returns one event with its derived counts.
func (g *Gateway) GetEvent(ctx context.Context, id int64) (models.Event, bool, error) {
	const op = "get event"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return models.Event{}, false, err
	}

	var e models.Event
	if err := db.GetContext(ctx, &e, eventSelect+` WHERE e.event_id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, false, nil
		}
		return models.Event{}, false, wrap(ctx, op, err)
	}
	return e, true, nil
}

// ListEvents returns events matching f, newest first.
func (g *Gateway) ListEvents(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	const op = "list events"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []interface{}
	)
	if f.Status != "" {
		where = append(where, "e.status = ?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where = append(where, "e.category = ?")
		args = append(args, f.Category)
	}
	if f.ProposerID != 0 {
		where = append(where, "e.proposer_id = ?")
		args = append(args, f.ProposerID)
	}

	query := eventSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY e.created_at DESC, e.event_id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	events := []models.Event{}
	if err := db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, wrap(ctx, op, err)
	}
	return events, nil
}

// UpdateEvent applies the non-nil fields of p. It reports whether a row changed;
// an empty patch changes nothing and does not reach the store.
func (g *Gateway) UpdateEvent(ctx context.Context, id int64, p models.EventPatch) (bool, error) {
	const op = "update event"
	if p.Empty() {
		return false, nil
	}

	var (
		set  []string
		args []interface{}
	)
	add := func(col string, v interface{}) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Category != nil {
		add("category", *p.Category)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.TotalFunds != nil {
		add("total_funds", *p.TotalFunds)
	}
	if p.TargetFunds != nil {
		add("target_funds", *p.TargetFunds)
	}
	if p.EventDate != nil {
		add("event_date", *p.EventDate)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `UPDATE events SET `+strings.Join(set, ", ")+` WHERE event_id = ?`, args...)
	if err != nil {
		return false, wrap(ctx, op, err)
	}
	return affected(ctx, op, res)
}

// UpdateEventStatus writes status without checking the lifecycle.
func (g *Gateway) UpdateEventStatus(ctx context.Context, id int64, status models.EventStatus) (bool, error) {
	return g.UpdateEvent(ctx, id, models.EventPatch{Status: &status})
}

// UpdateEventFunding overwrites the raised total of an event.
func (g *Gateway) UpdateEventFunding(ctx context.Context, id int64, total float64) (bool, error) {
	return g.UpdateEvent(ctx, id, models.EventPatch{TotalFunds: &total})
}

// CountEventsByCategory returns the number of events per category, largest first.
func (g *Gateway) CountEventsByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	const op = "count events by category"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return nil, err
	}

	counts := []models.CategoryCount{}
	if err := db.SelectContext(ctx, &counts, `
		SELECT category, COUNT(*) AS count
		FROM events
		GROUP BY category
		ORDER BY count DESC, category ASC`); err != nil {
		return nil, wrap(ctx, op, err)
	}
	return counts, nil
}
