package rules

import (
	"context"
	"fmt"
	"strings"

	"campus-events/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Register creates a student or faculty account. Admin accounts cannot be
// self-registered. A reused email fails with database.ErrConstraint.
func (e *Engine) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	role := models.RoleStudent
	if strings.TrimSpace(req.Role) != "" {
		r, err := models.ParseRole(req.Role)
		if err != nil {
			return models.User{}, invalid("role", err.Error())
		}
		role = r
	}
	if role == models.RoleAdmin {
		return models.User{}, invalid("role", "admin accounts cannot be self-registered")
	}
	if req.Password != req.ConfirmPassword {
		return models.User{}, invalid("confirm_password", "passwords do not match")
	}
	return e.createAccount(ctx, req.Name, req.Email, req.Password, role)
}

// CreateAdmin creates an administrator account.
func (e *Engine) CreateAdmin(ctx context.Context, name, email, password string) (models.User, error) {
	return e.createAccount(ctx, name, email, password, models.RoleAdmin)
}

func (e *Engine) createAccount(ctx context.Context, name, email, password string, role models.Role) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return models.User{}, invalid("name", "name is required")
	}
	if !validEmail(email) {
		return models.User{}, invalid("email", "a valid email address is required")
	}
	if len(password) < minPasswordLength {
		return models.User{}, invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := models.User{Name: name, Email: email, PasswordHash: string(hashedPassword), Role: role}
	id, err := e.store.CreateUser(ctx, u)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to register %s: %w", email, err)
	}

	created, ok, err := e.store.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load new user: %w", err)
	}
	if !ok {
		return models.User{}, notFound("user", id)
	}
	log.WithFields(log.Fields{"user_id": id, "role": role}).Info("User registered")
	return created, nil
}

// Login checks the credentials and returns the matching user.
func (e *Engine) Login(ctx context.Context, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	u, ok, err := e.store.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// validEmail is a shape check only: an @, a dot and more than five characters.
func validEmail(email string) bool {
	return len(email) > 5 && strings.Contains(email, "@") && strings.Contains(email, ".")
}
