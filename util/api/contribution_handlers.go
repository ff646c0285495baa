package api

import (
	"net/http"

	"campus-events/models"
)

// CreateContributionHandler pledges a skill, resource or funds to an event.
func (h *Handlers) CreateContributionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req models.CreateContributionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, points, err := h.Engine.AddContribution(r.Context(), eventID, userID, req.Type, req.Details, req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, struct {
		models.Contribution
		PointsAwarded int `json:"points_awarded"`
	}{c, points})
}

func (h *Handlers) ListContributionsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	list, err := h.Engine.ListContributions(r.Context(), eventID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Contribution{}
	}
	respondJSON(w, http.StatusOK, list)
}

// MyContributionsHandler lists the logged-in user's pledges across events.
func (h *Handlers) MyContributionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.Engine.UserContributions(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Contribution{}
	}
	respondJSON(w, http.StatusOK, list)
}

// UpdateContributionStatusHandler records an admin's review of a contribution.
func (h *Handlers) UpdateContributionStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	contributionID, ok := pathID(w, r, "contributionID")
	if !ok {
		return
	}
	var req models.ContributionStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.Engine.SetContributionStatus(r.Context(), userID, contributionID, req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !updated {
		http.Error(w, "Contribution not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"id": contributionID, "status": req.Status, "updated": true})
}
