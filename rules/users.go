package rules

import (
	"context"
	"fmt"

	"campus-events/models"
)

// GetUser returns the user with the given ID.
func (e *Engine) GetUser(ctx context.Context, id int64) (models.User, error) {
	u, ok, err := e.store.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !ok {
		return models.User{}, notFound("user", id)
	}
	return u, nil
}

// ListUsers returns the leaderboard: points descending, ties by ID.
func (e *Engine) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := e.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (e *Engine) UserStats(ctx context.Context, userID int64) (models.UserStats, error) {
	stats, ok, err := e.store.GetUserStats(ctx, userID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to get user stats: %w", err)
	}
	if !ok {
		return models.UserStats{}, notFound("user", userID)
	}
	return stats, nil
}

// requireAdmin loads the acting user and fails with ErrForbidden unless they are an admin.
func (e *Engine) requireAdmin(ctx context.Context, actorID int64) (models.User, error) {
	actor, ok, err := e.store.GetUserByID(ctx, actorID)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load acting user: %w", err)
	}
	if !ok || !actor.IsAdmin() {
		return models.User{}, fmt.Errorf("user %d is not an admin: %w", actorID, ErrForbidden)
	}
	return actor, nil
}
