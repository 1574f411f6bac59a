package repository

import (
	"context"

	"mindcare/internal/records"
)

// StateRepository persists the practitioner's whole record set as one snapshot.
type StateRepository interface {
	// Load returns ok=false when nothing has been saved for owner yet.
	Load(ctx context.Context, owner string) (st records.State, ok bool, err error)
	Save(ctx context.Context, owner string, st records.State) error
}
