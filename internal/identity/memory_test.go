package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryProvider_SignUpSignIn(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(zap.NewNop())

	_, err := p.SignUp(ctx, "Ana", "ana@b.com", "secret1")
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "Ana", "ANA@b.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailTaken)

	s, err := p.SignIn(ctx, "ana@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", s.User.Name)

	_, err = p.SignIn(ctx, "ana@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMemoryProvider_RecoveryFlow(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(zap.NewNop())
	require.NoError(t, p.Seed("Dr. João Silva", "joao@mindcare.com", "old-pass"))

	token, ok := p.IssueRecoveryToken("joao@mindcare.com")
	require.True(t, ok)

	_, err := p.VerifyRecoveryToken(ctx, token, "signup")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)

	// the failed attempt above consumed the token
	token, _ = p.IssueRecoveryToken("joao@mindcare.com")
	s, err := p.VerifyRecoveryToken(ctx, token, "recovery")
	require.NoError(t, err)

	_, err = p.VerifyRecoveryToken(ctx, token, "recovery")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)

	require.NoError(t, p.UpdatePassword(ctx, s, "new-pass"))
	_, err = p.SignIn(ctx, "joao@mindcare.com", "new-pass")
	assert.NoError(t, err)
	_, err = p.SignIn(ctx, "joao@mindcare.com", "old-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMemoryProvider_RecoveryExpires(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(zap.NewNop())
	require.NoError(t, p.Seed("Ana", "ana@b.com", "secret1"))

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	token, _ := p.IssueRecoveryToken("ana@b.com")

	now = now.Add(2 * time.Hour)
	_, err := p.VerifyRecoveryToken(ctx, token, "recovery")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)

	_, ok := p.IssueRecoveryToken("nobody@b.com")
	assert.False(t, ok)
	assert.NoError(t, p.SendRecoveryEmail(ctx, "nobody@b.com"))
}
