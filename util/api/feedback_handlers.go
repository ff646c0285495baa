package api

import (
	"net/http"

	"campus-events/models"
)

// CreateFeedbackHandler rates an event.
func (h *Handlers) CreateFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req models.CreateFeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fb, points, err := h.Engine.AddFeedback(r.Context(), eventID, userID, req.Rating, req.Comment)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, struct {
		models.Feedback
		PointsAwarded int `json:"points_awarded"`
	}{fb, points})
}

// ListFeedbackHandler returns an event's feedback with the average rating.
func (h *Handlers) ListFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	summary, err := h.Engine.FeedbackSummary(r.Context(), eventID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if summary.Feedback == nil {
		summary.Feedback = []models.Feedback{}
	}
	respondJSON(w, http.StatusOK, summary)
}
