package api

import (
	"net/http"

	"campus-events/models"
)

// CreateCommentHandler handles adding a comment to an event.
func (h *Handlers) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req models.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, points, err := h.Engine.AddComment(r.Context(), eventID, userID, req.Comment)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, struct {
		models.Comment
		PointsAwarded int `json:"points_awarded"`
	}{comment, points})
}

// ListCommentsHandler returns an event's comments, newest first.
func (h *Handlers) ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	comments, err := h.Engine.ListComments(r.Context(), eventID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respondJSON(w, http.StatusOK, comments)
}
