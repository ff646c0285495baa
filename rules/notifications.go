package rules

import (
	"context"
	"fmt"
	"time"

	"campus-events/models"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 100
)

// notify stores n and pushes it to the recipient. Failures are logged and
// never affect the action that raised the notification.
func (e *Engine) notify(ctx context.Context, n models.Notification) {
	id, err := e.store.CreateNotification(ctx, n)
	if err != nil {
		log.WithFields(log.Fields{"user_id": n.UserID, "type": n.Type}).WithError(err).
			Warn("Failed to create notification")
		return
	}
	n.ID = id
	n.CreatedAt = time.Now().UTC()
	e.pub.SendToUser(n.UserID, MsgNotification, n)
}

// Notifications returns the user's latest notifications.
func (e *Engine) Notifications(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > MaxNotificationLimit {
		limit = DefaultNotificationLimit
	}
	list, err := e.store.ListNotifications(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (e *Engine) UnreadCount(ctx context.Context, userID int64) (models.NotificationCount, error) {
	n, err := e.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return models.NotificationCount{}, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return models.NotificationCount{UnreadCount: n}, nil
}

// MarkNotificationRead marks one of the user's notifications read and pushes
// the new unread count.
func (e *Engine) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	ok, err := e.store.MarkNotificationRead(ctx, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return notFound("notification", notificationID)
	}
	e.pushUnreadCount(ctx, userID)
	return nil
}

// MarkAllNotificationsRead clears the user's unread notifications.
func (e *Engine) MarkAllNotificationsRead(ctx context.Context, userID int64) error {
	if _, err := e.store.MarkAllNotificationsRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	e.pushUnreadCount(ctx, userID)
	return nil
}

func (e *Engine) pushUnreadCount(ctx context.Context, userID int64) {
	count, err := e.UnreadCount(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Failed to refresh unread count")
		return
	}
	e.pub.SendToUser(userID, MsgUnreadCount, count)
}
