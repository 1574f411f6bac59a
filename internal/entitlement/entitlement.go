// Package entitlement answers what the active plan allows. Every function is
// pure: it reads the plan catalog and returns a value.
package entitlement

import (
	"errors"
	"fmt"

	"mindcare/internal/domain"
)

var ErrUnknownFeature = errors.New("unknown feature")

type Feature string

const (
	Scheduling Feature = "scheduling"
	Reminders  Feature = "reminders"
	Templates  Feature = "templates"
	Evolution  Feature = "evolution"
)

// DeniedError is returned when the plan does not include a feature.
type DeniedError struct {
	Plan    domain.PlanID
	Feature Feature
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("feature %q is not included in plan %q", e.Feature, e.Plan)
}

// LimitError is returned when the client cap of the plan is reached.
type LimitError struct {
	Plan  domain.PlanID
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("plan %q allows at most %d clients", e.Plan, e.Limit)
}

// FeatureEnabled looks up a boolean entitlement on plan.
func FeatureEnabled(plan domain.Plan, feature Feature) (bool, error) {
	f := plan.Features
	switch feature {
	case Scheduling:
		return f.Scheduling, nil
	case Reminders:
		return f.Reminders, nil
	case Templates:
		return f.Templates, nil
	case Evolution:
		return f.Evolution, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownFeature, feature)
}

// CanAddClient is true when the limit is unlimited or count is strictly below it.
func CanAddClient(plan domain.Plan, currentClientCount int) bool {
	limit := plan.Features.MaxClients
	return limit.Unlimited() || currentClientCount < limit.Max()
}

// Require returns a *DeniedError unless feature is enabled on plan.
func Require(plan domain.Plan, feature Feature) error {
	ok, err := FeatureEnabled(plan, feature)
	if err != nil {
		return err
	}
	if !ok {
		return &DeniedError{Plan: plan.ID, Feature: feature}
	}
	return nil
}

// RequireClientSlot returns a *LimitError when another client would exceed the plan.
func RequireClientSlot(plan domain.Plan, currentClientCount int) error {
	if CanAddClient(plan, currentClientCount) {
		return nil
	}
	return &LimitError{Plan: plan.ID, Limit: plan.Features.MaxClients.Max()}
}

// UpgradePlan replaces the account's plan. Existing records are not
// re-checked against the new limits; a downgrade can leave the account over
// its cap and only later CanAddClient calls see the tighter limit.
func UpgradePlan(account domain.Account, newPlanID domain.PlanID) (domain.Account, error) {
	if _, err := domain.LookupPlan(newPlanID); err != nil {
		return account, err
	}
	account.Plan = newPlanID
	return account, nil
}

// IsDenied reports whether err is an entitlement refusal of either kind.
func IsDenied(err error) bool {
	var d *DeniedError
	var l *LimitError
	return errors.As(err, &d) || errors.As(err, &l)
}
