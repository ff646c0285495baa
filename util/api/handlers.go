package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"campus-events/database"
	"campus-events/middleware"
	"campus-events/rules"
	"campus-events/util"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Store is what the HTTP layer needs from persistence directly: session user
// checks and health probes. Everything else goes through the engine.
type Store interface {
	middleware.UserLookup
	Ping(ctx context.Context) error
}

// Handlers holds the dependencies shared by every endpoint.
type Handlers struct {
	Engine   *rules.Engine
	Store    Store
	Sessions *util.SessionStore
	Hub      *Hub

	// AllowedOrigins are the browser origins accepted on /ws.
	AllowedOrigins []string
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError maps a domain or storage error onto an HTTP status.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *rules.ValidationError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, rules.ErrInvalidCredentials):
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, rules.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, rules.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, rules.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, database.ErrConstraint):
		http.Error(w, "Conflicts with existing data", http.StatusConflict)
	case errors.Is(err, database.ErrConnectivity):
		log.WithField("request_id", middleware.RequestID(r.Context())).WithError(err).Error("Store unavailable")
		http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		log.WithField("request_id", middleware.RequestID(r.Context())).WithError(err).Error("Request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Error reading request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// currentUser returns the user set by AuthMiddleware, answering 401 itself when absent.
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in session context.", http.StatusUnauthorized)
	}
	return userID, ok
}

// pathID parses a numeric route variable, answering 400 itself when malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid "+name+" in URL path", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return v
	}
	return def
}
