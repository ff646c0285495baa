package util

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"
)

const SessionCookieName = "session_token"

type session struct {
	userID  int64
	expires time.Time
}

// SessionStore holds active sessions in memory. Sessions expire after the
// configured TTL and do not survive a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session // token -> session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GenerateSessionToken creates a cryptographically secure random session token.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Create starts a session for the user and returns its token.
func (s *SessionStore) Create(userID int64) (string, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[token] = session{userID: userID, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

// UserID returns the user behind token, or 0 if the session is unknown or expired.
func (s *SessionStore) UserID(token string) int64 {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	if s.now().After(sess.expires) {
		s.Delete(token)
		return 0
	}
	return sess.userID
}

// Delete removes a session from the store.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for token, sess := range s.sessions {
		if now.After(sess.expires) {
			delete(s.sessions, token)
			n++
		}
	}
	return n
}

// Token returns the session token carried by the request cookie, if any.
func Token(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// UserIDFromRequest resolves the session cookie of r. It returns 0 when there
// is no valid session; the caller decides whether that is unauthorized.
func (s *SessionStore) UserIDFromRequest(r *http.Request) int64 {
	token := Token(r)
	if token == "" {
		return 0
	}
	return s.UserID(token)
}

// SetCookie writes the session cookie for token.
func (s *SessionStore) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(s.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
