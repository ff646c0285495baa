package database

import (
	"context"
	"database/sql"
	"errors"

	"campus-events/models"
)

const userColumns = `user_id, name, email, password_hash, role, points, created_at, updated_at`

// CreateUser inserts u and returns the new user ID. A reused email fails with ErrConstraint.
func (g *Gateway) CreateUser(ctx context.Context, u models.User) (int64, error) {
	const op = "create user"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, points) VALUES (?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Points)
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	return id, nil
}

// GetUserByID looks a user up by primary key.
func (g *Gateway) GetUserByID(ctx context.Context, id int64) (models.User, bool, error) {
	return g.getUser(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE user_id = ?`, id)
}

// GetUserByEmail looks a user up by their (unique) email.
func (g *Gateway) GetUserByEmail(ctx context.Context, email string) (models.User, bool, error) {
	return g.getUser(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (g *Gateway) getUser(ctx context.Context, op, query string, arg interface{}) (models.User, bool, error) {
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return models.User{}, false, err
	}

	var u models.User
	if err := db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, false, nil
		}
		return models.User{}, false, wrap(ctx, op, err)
	}
	return u, true, nil
}

// ListUsers returns every user, highest points first. Ties keep registration order.
func (g *Gateway) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "list users"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY points DESC, user_id ASC`); err != nil {
		return nil, wrap(ctx, op, err)
	}
	return users, nil
}

// AddPoints adds delta to the user's balance. It reports false when no such user exists.
func (g *Gateway) AddPoints(ctx context.Context, userID int64, delta int) (bool, error) {
	const op = "add points"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE users SET points = points + ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		delta, userID)
	if err != nil {
		return false, wrap(ctx, op, err)
	}
	return affected(ctx, op, res)
}

// CountUsers returns the number of registered users.
func (g *Gateway) CountUsers(ctx context.Context) (int, error) {
	const op = "count users"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, wrap(ctx, op, err)
	}
	return n, nil
}

// GetUserStats returns a user's points with their proposal and contribution counts.
func (g *Gateway) GetUserStats(ctx context.Context, userID int64) (models.UserStats, bool, error) {
	const op = "get user stats"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return models.UserStats{}, false, err
	}

	var s models.UserStats
	err = db.QueryRowxContext(ctx, `
		SELECT u.user_id, u.points,
			(SELECT COUNT(*) FROM events e WHERE e.proposer_id = u.user_id),
			(SELECT COUNT(*) FROM contributions c WHERE c.user_id = u.user_id)
		FROM users u
		WHERE u.user_id = ?`, userID).Scan(&s.UserID, &s.Points, &s.ProposedEvents, &s.Contributions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserStats{}, false, nil
		}
		return models.UserStats{}, false, wrap(ctx, op, err)
	}
	return s, true, nil
}

func affected(ctx context.Context, op string, res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap(ctx, op, err)
	}
	return n > 0, nil
}
