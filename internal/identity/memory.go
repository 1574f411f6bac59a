package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const recoveryTTL = time.Hour

// MemoryProvider is an in-process identity service for local development.
// Recovery links are logged instead of emailed.
type MemoryProvider struct {
	mu       sync.Mutex
	users    map[string]memUser // by lower-cased email
	recovery map[string]recoveryToken
	sessions map[string]string // access token -> email
	now      func() time.Time
	logger   *zap.Logger
}

type memUser struct {
	id    string
	name  string
	email string
	hash  []byte
}

type recoveryToken struct {
	email   string
	expires time.Time
}

var _ Provider = (*MemoryProvider)(nil)

func NewMemoryProvider(logger *zap.Logger) *MemoryProvider {
	return &MemoryProvider{
		users:    make(map[string]memUser),
		recovery: make(map[string]recoveryToken),
		sessions: make(map[string]string),
		now:      time.Now,
		logger:   logger,
	}
}

// Seed registers a user directly. Used for the bootstrap practitioner.
func (p *MemoryProvider) Seed(name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[key(email)] = memUser{id: uuid.NewString(), name: name, email: email, hash: hash}
	return nil
}

func (p *MemoryProvider) SignIn(_ context.Context, email, password string) (*Session, error) {
	p.mu.Lock()
	u, ok := p.users[key(email)]
	p.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return p.openSession(u), nil
}

func (p *MemoryProvider) SignUp(_ context.Context, name, email, password string) (*Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	if _, exists := p.users[key(email)]; exists {
		p.mu.Unlock()
		return nil, ErrEmailTaken
	}
	u := memUser{id: uuid.NewString(), name: name, email: email, hash: hash}
	p.users[key(email)] = u
	p.mu.Unlock()
	return p.openSession(u), nil
}

// SendRecoveryEmail issues a token for known addresses. Unknown addresses
// succeed silently so callers cannot tell which accounts exist.
func (p *MemoryProvider) SendRecoveryEmail(_ context.Context, email string) error {
	token, ok := p.IssueRecoveryToken(email)
	if ok {
		p.logger.Info("Recovery link issued",
			zap.String("email", email),
			zap.String("link", "/alterar-senha?type=recovery&token="+token),
		)
	}
	return nil
}

// IssueRecoveryToken creates a recovery token hash for email.
func (p *MemoryProvider) IssueRecoveryToken(email string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.users[key(email)]; !ok {
		return "", false
	}
	token := uuid.NewString()
	p.recovery[token] = recoveryToken{email: email, expires: p.now().Add(recoveryTTL)}
	return token, true
}

// VerifyRecoveryToken consumes the token; a token works once.
func (p *MemoryProvider) VerifyRecoveryToken(_ context.Context, tokenHash, linkType string) (*Session, error) {
	p.mu.Lock()
	rt, ok := p.recovery[tokenHash]
	delete(p.recovery, tokenHash)
	u, known := p.users[key(rt.email)]
	p.mu.Unlock()

	if linkType != "recovery" || !ok || !known || p.now().After(rt.expires) {
		return nil, ErrInvalidOrExpired
	}
	return p.openSession(u), nil
}

func (p *MemoryProvider) UpdatePassword(_ context.Context, session *Session, newPassword string) error {
	if session == nil {
		return ErrInvalidOrExpired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return &ServiceError{Message: err.Error()}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	email, ok := p.sessions[session.AccessToken]
	if !ok {
		return &ServiceError{Status: 401, Message: "session not found"}
	}
	u := p.users[key(email)]
	u.hash = hash
	p.users[key(email)] = u
	return nil
}

func (p *MemoryProvider) openSession(u memUser) *Session {
	token := uuid.NewString()
	p.mu.Lock()
	p.sessions[token] = u.email
	p.mu.Unlock()
	return &Session{AccessToken: token, User: User{ID: u.id, Email: u.email, Name: u.name}}
}

func key(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
