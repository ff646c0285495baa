package api

import (
	"net/http"
)

// ToggleVoteHandler votes for an event, or withdraws the vote if the user already cast one.
func (h *Handlers) ToggleVoteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}

	result, err := h.Engine.ToggleVote(r.Context(), eventID, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
