package api

import (
	"net/http"
	"strconv"
	"strings"

	"campus-events/models"

	log "github.com/sirupsen/logrus"
)

func eventResponses(events []models.Event) []models.EventResponse {
	out := make([]models.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, models.NewEventResponse(e))
	}
	return out
}

// ListEventsHandler lists events, optionally filtered by status, category or proposer.
func (h *Handlers) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.EventFilter{
		Status:   models.EventStatus(strings.ToLower(strings.TrimSpace(q.Get("status")))),
		Category: strings.TrimSpace(q.Get("category")),
		Limit:    queryInt(r, "limit", 0),
	}
	if p := q.Get("proposer"); p != "" {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			http.Error(w, "Invalid proposer", http.StatusBadRequest)
			return
		}
		filter.ProposerID = id
	}

	events, err := h.Engine.ListEvents(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, eventResponses(events))
}

// RecentEventsHandler returns the newest events for the dashboard.
func (h *Handlers) RecentEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.Engine.RecentEvents(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, eventResponses(events))
}

// PendingEventsHandler is the approval queue.
func (h *Handlers) PendingEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.Engine.PendingEvents(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, eventResponses(events))
}

// CreateEventHandler proposes a new event on behalf of the logged-in user.
func (h *Handlers) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ProposerID = userID

	event, points, err := h.Engine.ProposeEvent(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	log.Printf("User %d proposed event %d", userID, event.ID)

	respondJSON(w, http.StatusCreated, struct {
		models.EventResponse
		PointsAwarded int `json:"points_awarded"`
	}{models.NewEventResponse(event), points})
}

// GetEventHandler returns one event with its funding figures.
func (h *Handlers) GetEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := h.Engine.GetEvent(r.Context(), eventID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.NewEventResponse(event))
}

// UpdateEventStatusHandler moves an event through its lifecycle. Admin only.
func (h *Handlers) UpdateEventStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req models.StatusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status := models.EventStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	updated, err := h.Engine.SetEventStatus(r.Context(), userID, eventID, status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondUpdatedEvent(w, r, eventID, updated)
}

// UpdateEventFundingHandler overwrites the raised total of an event. Admin only.
func (h *Handlers) UpdateEventFundingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req models.FundingUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.Engine.UpdateEventFunding(r.Context(), userID, eventID, req.TotalFunds)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondUpdatedEvent(w, r, eventID, updated)
}

func (h *Handlers) respondUpdatedEvent(w http.ResponseWriter, r *http.Request, eventID int64, updated bool) {
	if !updated {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}
	event, err := h.Engine.GetEvent(r.Context(), eventID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.NewEventResponse(event))
}

// CategoryCountsHandler returns how many events each category holds. Admin only.
func (h *Handlers) CategoryCountsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	counts, err := h.Engine.CategoryCounts(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}
