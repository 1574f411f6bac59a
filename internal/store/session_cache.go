package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// SessionKey is the fixed key holding the signed-in practitioner.
const SessionKey = "mindcare_user"

type UserSession struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

type SessionCache struct {
	kv KV
}

func NewSessionCache(kv KV) *SessionCache { return &SessionCache{kv: kv} }

func (c *SessionCache) Save(ctx context.Context, u UserSession) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, SessionKey, string(b), 0)
}

// Restore returns the cached session, or ok=false when nothing is stored.
func (c *SessionCache) Restore(ctx context.Context) (UserSession, bool, error) {
	raw, err := c.kv.Get(ctx, SessionKey)
	if errors.Is(err, ErrMiss) {
		return UserSession{}, false, nil
	}
	if err != nil {
		return UserSession{}, false, err
	}
	var u UserSession
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return UserSession{}, false, fmt.Errorf("decode %s: %w", SessionKey, err)
	}
	return u, true, nil
}

func (c *SessionCache) Clear(ctx context.Context) error {
	return c.kv.Delete(ctx, SessionKey)
}
