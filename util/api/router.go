package api

import (
	"context"
	"net/http"
	"time"

	"campus-events/metrics"
	"campus-events/middleware"

	"github.com/gorilla/mux"
)

const healthTimeout = 2 * time.Second

// NewRouter wires every endpoint. limiter guards the unauthenticated auth
// routes and may be nil.
func NewRouter(h *Handlers, limiter *middleware.RateLimiter) http.Handler {
	r := mux.NewRouter()
	auth := middleware.AuthMiddleware(h.Sessions, h.Store)
	protected := func(fn http.HandlerFunc) http.Handler { return auth(fn) }
	limited := func(fn http.HandlerFunc) http.Handler {
		if limiter == nil {
			return fn
		}
		return limiter.Handler(fn)
	}

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", h.WebSocketHandler)

	// Auth handlers
	r.Handle("/register", limited(h.RegisterHandler)).Methods(http.MethodPost)
	r.Handle("/login", limited(h.LoginHandler)).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.LogoutHandler).Methods(http.MethodPost)
	r.Handle("/whoami", protected(h.WhoAmIHandler)).Methods(http.MethodGet)

	// Event handlers
	r.Handle("/events", protected(h.ListEventsHandler)).Methods(http.MethodGet)
	r.Handle("/events", protected(h.CreateEventHandler)).Methods(http.MethodPost)
	r.Handle("/events/recent", protected(h.RecentEventsHandler)).Methods(http.MethodGet)
	r.Handle("/events/pending", protected(h.PendingEventsHandler)).Methods(http.MethodGet)
	r.Handle("/events/{eventID:[0-9]+}", protected(h.GetEventHandler)).Methods(http.MethodGet)
	r.Handle("/events/{eventID:[0-9]+}/status", protected(h.UpdateEventStatusHandler)).Methods(http.MethodPatch)
	r.Handle("/events/{eventID:[0-9]+}/funding", protected(h.UpdateEventFundingHandler)).Methods(http.MethodPatch)

	// Vote, comment, contribution and feedback handlers
	r.Handle("/events/{eventID:[0-9]+}/vote", protected(h.ToggleVoteHandler)).Methods(http.MethodPost)
	r.Handle("/events/{eventID:[0-9]+}/comments", protected(h.ListCommentsHandler)).Methods(http.MethodGet)
	r.Handle("/events/{eventID:[0-9]+}/comments", protected(h.CreateCommentHandler)).Methods(http.MethodPost)
	r.Handle("/events/{eventID:[0-9]+}/contributions", protected(h.ListContributionsHandler)).Methods(http.MethodGet)
	r.Handle("/events/{eventID:[0-9]+}/contributions", protected(h.CreateContributionHandler)).Methods(http.MethodPost)
	r.Handle("/contributions/{contributionID:[0-9]+}/status", protected(h.UpdateContributionStatusHandler)).Methods(http.MethodPatch)
	r.Handle("/events/{eventID:[0-9]+}/feedback", protected(h.ListFeedbackHandler)).Methods(http.MethodGet)
	r.Handle("/events/{eventID:[0-9]+}/feedback", protected(h.CreateFeedbackHandler)).Methods(http.MethodPost)

	// User handlers
	r.Handle("/users", protected(h.ListUsersHandler)).Methods(http.MethodGet)
	r.Handle("/users/me/contributions", protected(h.MyContributionsHandler)).Methods(http.MethodGet)
	r.Handle("/users/{userID:[0-9]+}/stats", protected(h.GetUserStatsHandler)).Methods(http.MethodGet)
	r.Handle("/analytics/categories", protected(h.CategoryCountsHandler)).Methods(http.MethodGet)

	// Notification handlers
	r.Handle("/notifications", protected(h.GetNotificationsHandler)).Methods(http.MethodGet)
	r.Handle("/notifications/unread-count", protected(h.GetUnreadCountHandler)).Methods(http.MethodGet)
	r.Handle("/notifications/mark-all-read", protected(h.MarkAllNotificationsReadHandler)).Methods(http.MethodPost)
	r.Handle("/notifications/{notificationID:[0-9]+}/read", protected(h.MarkNotificationReadHandler)).Methods(http.MethodPatch)

	r.Use(metrics.InstrumentHandler)
	return r
}

// HealthHandler reports whether the store answers a ping.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
