// Package records holds the clinic's application state. Transitions are
// methods on State that return a new State and never modify the receiver.
package records

import (
	"fmt"
	"time"

	"mindcare/internal/domain"

	"github.com/google/uuid"
)

// State is everything the practitioner owns. Slices keep creation order.
type State struct {
	Account   domain.Account          `json:"account"`
	Clients   []domain.Client         `json:"clients"`
	Sessions  []domain.Session        `json:"sessions"`
	Forms     []domain.ClinicalForm   `json:"forms"`
	Notes     []domain.Note           `json:"notes"`
	Evolution []domain.EvolutionEntry `json:"evolution"`
}

func NewState(account domain.Account) State {
	return State{Account: account}
}

// Env supplies the clock and identifiers used by transitions.
type Env struct {
	Now   func() time.Time
	NewID func() string
}

// DefaultEnv uses the wall clock and random UUIDs.
func DefaultEnv() Env {
	return Env{Now: time.Now, NewID: uuid.NewString}
}

// ValidationError is a rejected input; the state is left untouched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// Plan resolves the account's current plan.
func (s State) Plan() (domain.Plan, error) {
	return domain.LookupPlan(s.Account.Plan)
}

// appendNew never writes into a backing array another State may share.
func appendNew[T any](list []T, v T) []T {
	out := make([]T, len(list), len(list)+1)
	copy(out, list)
	return append(out, v)
}

func removeWhere[T any](list []T, drop func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

// replaceAt copies list and puts v at i.
func replaceAt[T any](list []T, i int, v T) []T {
	out := make([]T, len(list))
	copy(out, list)
	out[i] = v
	return out
}

func indexOf[T any](list []T, match func(T) bool) int {
	for i, v := range list {
		if match(v) {
			return i
		}
	}
	return -1
}

func filter[T any](list []T, keep func(T) bool) []T {
	var out []T
	for _, v := range list {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
