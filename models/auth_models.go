package models

// RegisterRequest defines the structure for the registration request body.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"` // "student" or "faculty"; admins are seeded, not registered
}

// LoginRequest defines the structure for the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse defines the structure for the user data returned after registration/login.
type UserResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Points int    `json:"points"`
}

// NewUserResponse strips a User down to what clients may see.
func NewUserResponse(u User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Points: u.Points}
}
