// Package identity talks to the external authentication service.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrInvalidOrExpired is returned when a recovery link is rejected.
	ErrInvalidOrExpired   = errors.New("recovery link is invalid or has expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// ServiceError carries the message the identity service gave for a failure.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is an authenticated identity-service session.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         User   `json:"user"`
}

// Provider is the identity collaborator.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, name, email, password string) (*Session, error)
	SendRecoveryEmail(ctx context.Context, email string) error
	// VerifyRecoveryToken exchanges a recovery token hash for a short-lived session.
	VerifyRecoveryToken(ctx context.Context, tokenHash, linkType string) (*Session, error)
	// UpdatePassword sets a new password for the session's user.
	UpdatePassword(ctx context.Context, session *Session, newPassword string) error
}
