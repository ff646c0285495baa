package api

import (
	"net/http"

	"campus-events/models"
)

// GetNotificationsHandler returns the latest notifications of the logged-in user.
func (h *Handlers) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.Engine.Notifications(r.Context(), userID, queryInt(r, "limit", 0))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetUnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	count, err := h.Engine.UnreadCount(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, count)
}

// MarkNotificationReadHandler marks one notification as read.
func (h *Handlers) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	notificationID, ok := pathID(w, r, "notificationID")
	if !ok {
		return
	}
	if err := h.Engine.MarkNotificationRead(r.Context(), userID, notificationID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// MarkAllNotificationsReadHandler marks all of the user's notifications as read.
func (h *Handlers) MarkAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.Engine.MarkAllNotificationsRead(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}
