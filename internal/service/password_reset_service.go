package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"mindcare/internal/identity"
	"mindcare/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LinkState is the outcome of checking a recovery link.
type LinkState string

const (
	LinkNoToken          LinkState = "no-token"
	LinkInvalid          LinkState = "invalid"
	LinkInvalidOrExpired LinkState = "invalid-or-expired"
	LinkValid            LinkState = "valid"
	// LinkError means the identity service could not be reached.
	LinkError            LinkState = "error"
)

const recoveryLinkType = "recovery"

const resetSessionTTL = 15 * time.Minute

var ErrNoToken = errors.New("reset session missing or expired")

var linkMessages = map[LinkState]string{
	LinkNoToken:          "Acesse esta página através do link enviado por email",
	LinkInvalid:          "Link de recuperação inválido",
	LinkInvalidOrExpired: "Link de recuperação inválido ou expirado",
	LinkError:            "Erro ao verificar link de recuperação",
}

type LinkCheck struct {
	State      LinkState `json:"state"`
	Message    string    `json:"message,omitempty"`
	ResetToken string    `json:"resetToken,omitempty"`
}

type ResetPasswordRequest struct {
	ResetToken      string `json:"resetToken"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type PasswordResetService interface {
	CheckLink(ctx context.Context, token, linkType string) LinkCheck
	Reset(ctx context.Context, req ResetPasswordRequest) error
}

type pendingReset struct {
	session *identity.Session
	expires time.Time
}

type passwordResetService struct {
	provider identity.Provider
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]pendingReset

	// one provider call at a time
	inflight sync.Mutex
}

func NewPasswordResetService(provider identity.Provider, logger *zap.Logger) PasswordResetService {
	return &passwordResetService{
		provider: provider,
		logger:   logger,
		now:      time.Now,
		pending:  make(map[string]pendingReset),
	}
}

func (s *passwordResetService) CheckLink(ctx context.Context, token, linkType string) LinkCheck {
	switch {
	case token == "" || linkType == "":
		return LinkCheck{State: LinkNoToken, Message: linkMessages[LinkNoToken]}
	case linkType != recoveryLinkType:
		return LinkCheck{State: LinkInvalid, Message: linkMessages[LinkInvalid]}
	}

	s.inflight.Lock()
	sess, err := s.provider.VerifyRecoveryToken(ctx, token, linkType)
	s.inflight.Unlock()
	if err != nil {
		metrics.IdentityFailures.WithLabelValues("verify").Inc()
		if !errors.Is(err, identity.ErrInvalidOrExpired) {
			s.logger.Error("Recovery link verification failed", zap.Error(err))
			return LinkCheck{State: LinkError, Message: linkMessages[LinkError]}
		}
		return LinkCheck{State: LinkInvalidOrExpired, Message: linkMessages[LinkInvalidOrExpired]}
	}

	resetToken := uuid.NewString()
	s.mu.Lock()
	s.gc()
	s.pending[resetToken] = pendingReset{session: sess, expires: s.now().Add(resetSessionTTL)}
	s.mu.Unlock()
	return LinkCheck{State: LinkValid, ResetToken: resetToken}
}

// Reset validates the new password before touching the provider. The reset
// session is consumed only when the provider accepts the change.
func (s *passwordResetService) Reset(ctx context.Context, req ResetPasswordRequest) error {
	if err := checkNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}

	s.mu.Lock()
	p, ok := s.pending[req.ResetToken]
	if ok && !s.now().Before(p.expires) {
		delete(s.pending, req.ResetToken)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return ErrNoToken
	}

	s.inflight.Lock()
	err := s.provider.UpdatePassword(ctx, p.session, req.NewPassword)
	s.inflight.Unlock()
	if err != nil {
		metrics.IdentityFailures.WithLabelValues("update_password").Inc()
		s.logger.Warn("Password reset rejected", zap.Error(err))
		return err
	}

	s.mu.Lock()
	delete(s.pending, req.ResetToken)
	s.mu.Unlock()
	s.logger.Info("Password reset completed", zap.String("email", p.session.User.Email))
	return nil
}

// gc drops expired reset sessions. Caller holds s.mu.
func (s *passwordResetService) gc() {
	now := s.now()
	for k, p := range s.pending {
		if !now.Before(p.expires) {
			delete(s.pending, k)
		}
	}
}
