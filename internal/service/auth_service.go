package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"mindcare/internal/identity"
	"mindcare/internal/metrics"
	"mindcare/internal/records"
	"mindcare/internal/store"

	"go.uber.org/zap"
)

// ErrNotPracticeOwner rejects any identity other than the configured practitioner.
var ErrNotPracticeOwner = errors.New("this email does not have access to the practice")

type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginResponse struct {
	AccessToken string            `json:"accessToken"`
	ExpiresAt   time.Time         `json:"expiresAt"`
	User        store.UserSession `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	// CurrentSession returns the cached practitioner, if any.
	CurrentSession(ctx context.Context) (store.UserSession, bool, error)
	Tokens() *TokenIssuer
}

type authService struct {
	provider identity.Provider
	cache    *store.SessionCache
	tokens   *TokenIssuer
	m        *Mutator
	logger   *zap.Logger

	mu      sync.Mutex
	session *identity.Session
}

func NewAuthService(provider identity.Provider, cache *store.SessionCache, tokens *TokenIssuer, m *Mutator, logger *zap.Logger) AuthService {
	return &authService{provider: provider, cache: cache, tokens: tokens, m: m, logger: logger}
}

func (s *authService) Tokens() *TokenIssuer { return s.tokens }

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkOwner("sign_in", req.Email); err != nil {
		return nil, err
	}
	sess, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		metrics.IdentityFailures.WithLabelValues("sign_in").Inc()
		s.logger.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	return s.establish(ctx, req.Name, sess)
}

// Register creates the practitioner's identity and signs them in. Only the
// practice owner's email can register.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkOwner("sign_up", req.Email); err != nil {
		return nil, err
	}
	sess, err := s.provider.SignUp(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		metrics.IdentityFailures.WithLabelValues("sign_up").Inc()
		s.logger.Warn("Registration failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	return s.establish(ctx, req.Name, sess)
}

// checkOwner runs before any provider call so no other identity is created
// or signed in.
func (s *authService) checkOwner(op, email string) error {
	if normalizeEmail(email) == s.m.Owner() {
		return nil
	}
	metrics.IdentityFailures.WithLabelValues(op).Inc()
	s.logger.Warn("Sign-in refused for non-owner email", zap.String("op", op), zap.String("email", email))
	return ErrNotPracticeOwner
}

// establish caches the session, syncs the practitioner's display name and
// issues a token. The account email is never taken from a login.
func (s *authService) establish(ctx context.Context, name string, sess *identity.Session) (*LoginResponse, error) {
	name, email := strings.TrimSpace(name), s.m.Owner()
	user := store.UserSession{Name: name, Email: email, IsAuthenticated: true}
	if err := s.cache.Save(ctx, user); err != nil {
		s.logger.Error("Failed to cache user session", zap.Error(err))
		return nil, fmt.Errorf("cache session: %w", err)
	}

	err := s.m.Apply(ctx, "account_profile", func(st records.State, _ records.Env) (records.State, bool, error) {
		if st.Account.Name == name {
			return st, false, nil
		}
		next, err := st.UpdateProfile(records.ProfileUpdate{Name: name, Email: st.Account.Email})
		return next, err == nil, err
	})
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(email, name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	s.logger.Info("Practitioner signed in", zap.String("email", email))
	return &LoginResponse{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

func (s *authService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear user session", zap.Error(err))
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *authService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	if err := s.provider.SendRecoveryEmail(ctx, req.Email); err != nil {
		metrics.IdentityFailures.WithLabelValues("recover").Inc()
		s.logger.Error("Failed to send recovery email", zap.String("email", req.Email), zap.Error(err))
		return err
	}
	return nil
}

// ChangePassword re-authenticates with the current password before updating.
func (s *authService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	if err := checkNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	email := s.m.Owner()
	sess, err := s.provider.SignIn(ctx, email, req.CurrentPassword)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		return &ValidationError{Field: "currentPassword", Message: "is incorrect"}
	}
	if err != nil {
		metrics.IdentityFailures.WithLabelValues("sign_in").Inc()
		return err
	}
	if err := s.provider.UpdatePassword(ctx, sess, req.NewPassword); err != nil {
		metrics.IdentityFailures.WithLabelValues("update_password").Inc()
		s.logger.Warn("Password change rejected", zap.Error(err))
		return err
	}
	s.logger.Info("Password changed", zap.String("email", email))
	return nil
}

func (s *authService) CurrentSession(ctx context.Context) (store.UserSession, bool, error) {
	return s.cache.Restore(ctx)
}
