package database

import (
	"context"

	"campus-events/models"
)

// CreateNotification stores n for its recipient and returns its ID.
func (g *Gateway) CreateNotification(ctx context.Context, n models.Notification) (int64, error) {
	const op = "create notification"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO notifications (user_id, type, title, message, related_id, actor_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Type, n.Title, n.Message, n.RelatedID, n.ActorID)
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	return id, nil
}

// ListNotifications retrieves the latest notifications for a user.
func (g *Gateway) ListNotifications(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	const op = "list notifications"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return nil, err
	}

	list := []models.Notification{}
	if err := db.SelectContext(ctx, &list, `
		SELECT id, user_id, type, title, message, related_id, actor_id, COALESCE(is_read, FALSE) AS is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, limit); err != nil {
		return nil, wrap(ctx, op, err)
	}
	return list, nil
}

// CountUnreadNotifications returns how many notifications the user has not read.
func (g *Gateway) CountUnreadNotifications(ctx context.Context, userID int64) (int, error) {
	const op = "count unread notifications"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	var n int
	if err := db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE`, userID); err != nil {
		return 0, wrap(ctx, op, err)
	}
	return n, nil
}

// MarkNotificationRead marks one of the user's notifications as read.
// It reports false when the notification does not belong to the user.
func (g *Gateway) MarkNotificationRead(ctx context.Context, notificationID, userID int64) (bool, error) {
	const op = "mark notification read"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`, notificationID, userID)
	if err != nil {
		return false, wrap(ctx, op, err)
	}
	return affected(ctx, op, res)
}

// MarkAllNotificationsRead marks every unread notification of the user as read
// and returns how many changed.
func (g *Gateway) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	const op = "mark all notifications read"
	ctx, db, cancel, err := g.acquire(ctx, op)
	defer cancel()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = ? AND is_read = FALSE`, userID)
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap(ctx, op, err)
	}
	return n, nil
}
