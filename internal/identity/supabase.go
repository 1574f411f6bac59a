package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SupabaseProvider calls a GoTrue-compatible REST API under /auth/v1.
type SupabaseProvider struct {
	httpClient *resty.Client
	// verifyClient never retries: a recovery token is consumed on first use.
	verifyClient *resty.Client
	logger       *zap.Logger
}

var _ Provider = (*SupabaseProvider)(nil)

func NewSupabaseProvider(baseURL, apiKey string, logger *zap.Logger) *SupabaseProvider {
	client := newRestClient(baseURL, apiKey).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &SupabaseProvider{
		httpClient:   client,
		verifyClient: newRestClient(baseURL, apiKey),
		logger:       logger,
	}
}

func newRestClient(baseURL, apiKey string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", apiKey)
}

// apiError covers the error shapes the auth API returns.
type apiError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}

func (e *apiError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func serviceError(resp *resty.Response) *ServiceError {
	msg := ""
	if e, ok := resp.Error().(*apiError); ok && e != nil {
		msg = e.text()
	}
	if msg == "" {
		msg = fmt.Sprintf("identity service returned %d", resp.StatusCode())
	}
	return &ServiceError{Status: resp.StatusCode(), Message: msg}
}

func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/auth/v1/token")
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusUnauthorized:
		return nil, ErrInvalidCredentials
	case resp.IsError():
		return nil, serviceError(resp)
	}
	return &out, nil
}

func (p *SupabaseProvider) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	var out Session
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"email":    email,
			"password": password,
			"data":     map[string]string{"name": name},
		}).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/auth/v1/signup")
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusUnprocessableEntity {
			return nil, ErrEmailTaken
		}
		return nil, serviceError(resp)
	}
	if out.User.Email == "" {
		out.User.Email = email
	}
	out.User.Name = name
	return &out, nil
}

func (p *SupabaseProvider) SendRecoveryEmail(ctx context.Context, email string) error {
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email}).
		SetError(&apiError{}).
		Post("/auth/v1/recover")
	if err != nil {
		return fmt.Errorf("send recovery: %w", err)
	}
	if resp.IsError() {
		return serviceError(resp)
	}
	return nil
}

func (p *SupabaseProvider) VerifyRecoveryToken(ctx context.Context, tokenHash, linkType string) (*Session, error) {
	var out Session
	resp, err := p.verifyClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"token_hash": tokenHash, "type": linkType}).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/auth/v1/verify")
	if err != nil {
		return nil, fmt.Errorf("verify recovery token: %w", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return nil, serviceError(resp)
	}
	if resp.IsError() {
		p.logger.Warn("Recovery token rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("reason", serviceError(resp).Message),
		)
		return nil, ErrInvalidOrExpired
	}
	return &out, nil
}

func (p *SupabaseProvider) UpdatePassword(ctx context.Context, session *Session, newPassword string) error {
	if session == nil || session.AccessToken == "" {
		return ErrInvalidOrExpired
	}
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetAuthToken(session.AccessToken).
		SetBody(map[string]string{"password": newPassword}).
		SetError(&apiError{}).
		Put("/auth/v1/user")
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if resp.IsError() {
		return serviceError(resp)
	}
	return nil
}
