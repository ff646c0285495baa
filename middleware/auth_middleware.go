package middleware

import (
	"context"
	"net/http"

	"campus-events/models"
	"campus-events/util"

	log "github.com/sirupsen/logrus"
)

// UserIDKey is the key used to store the UserID in the request context.
type UserIDKeyType string

const UserIDKey UserIDKeyType = "userID"

// UserLookup confirms that a session still belongs to an existing user.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (models.User, bool, error)
}

// AuthMiddleware checks for a valid session. If valid, it proceeds to the next handler.
// Otherwise, it returns an unauthorized error.
func AuthMiddleware(sessions *util.SessionStore, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sessions.UserIDFromRequest(r)
			if userID == 0 {
				log.Printf("AuthMiddleware: Unauthorized access attempt from %s to %s", r.RemoteAddr, r.URL.Path)
				http.Error(w, "Unauthorized: You must be logged in.", http.StatusUnauthorized)
				return
			}

			_, exists, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				log.Printf("Error checking session user %d: %v", userID, err)
				http.Error(w, "Server error processing authentication", http.StatusInternalServerError)
				return
			}
			if !exists {
				// User removed since login.
				sessions.Delete(util.Token(r))
				http.Error(w, "Unauthorized: You must be logged in.", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user set by AuthMiddleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok && userID != 0
}
