package api

import (
	"net/http"

	"campus-events/models"
	"campus-events/util"

	log "github.com/sirupsen/logrus"
)

// RegisterHandler handles user registration and logs the new user in.
func (h *Handlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Engine.Register(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if token, err := h.Sessions.Create(user.ID); err != nil {
		log.Printf("Failed to create session for new user %d after registration: %v", user.ID, err)
	} else {
		h.Sessions.SetCookie(w, token)
		log.Printf("User %s (ID: %d) registered and session created.", user.Email, user.ID)
	}

	respondJSON(w, http.StatusCreated, models.NewUserResponse(user))
}

// LoginHandler handles user login.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Engine.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Email, err)
		respondError(w, r, err)
		return
	}

	token, err := h.Sessions.Create(user.ID)
	if err != nil {
		log.Printf("Failed to create session for user %d: %v", user.ID, err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	h.Sessions.SetCookie(w, token)

	respondJSON(w, http.StatusOK, models.NewUserResponse(user))
}

// LogoutHandler ends the current session.
func (h *Handlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if token := util.Token(r); token != "" {
		h.Sessions.Delete(token)
	}
	util.ClearCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
