package records

import (
	"net/mail"
	"strings"

	"mindcare/internal/domain"
	"mindcare/internal/entitlement"
)

type ProfileUpdate struct {
	Name     string
	Email    string
	Timezone string
}

func (s State) UpdateProfile(in ProfileUpdate) (State, error) {
	name, email := strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	if name == "" {
		return s, invalid("name", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return s, invalid("email", "is not a valid address")
	}
	if in.Timezone != "" && !domain.KnownTimezone(in.Timezone) {
		return s, invalid("timezone", "unsupported timezone")
	}
	s.Account.Name = name
	s.Account.Email = email
	if in.Timezone != "" {
		s.Account.Timezone = in.Timezone
	}
	return s, nil
}

// ChangePlan switches tiers without re-checking existing records.
func (s State) ChangePlan(id domain.PlanID) (State, error) {
	acc, err := entitlement.UpgradePlan(s.Account, id)
	if err != nil {
		return s, err
	}
	acc.PlanStatus = domain.PlanStatusActive
	acc.CancellationReason = ""
	s.Account = acc
	return s, nil
}

func (s State) CancelSubscription(reason string) (State, error) {
	if strings.TrimSpace(reason) == "" {
		return s, invalid("reason", "is required")
	}
	s.Account.PlanStatus = domain.PlanStatusCancelled
	s.Account.CancellationReason = strings.TrimSpace(reason)
	return s, nil
}
