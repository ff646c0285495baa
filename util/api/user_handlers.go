package api

import (
	"net/http"

	"campus-events/models"
)

// ListUsersHandler returns the points leaderboard.
func (h *Handlers) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Engine.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, models.NewUserResponse(u))
	}
	respondJSON(w, http.StatusOK, out)
}

// GetUserStatsHandler returns a user's points, proposals and contributions.
func (h *Handlers) GetUserStatsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	stats, err := h.Engine.UserStats(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// WhoAmIHandler returns the logged-in user.
func (h *Handlers) WhoAmIHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.Engine.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.NewUserResponse(user))
}
