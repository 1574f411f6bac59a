package service

import (
	"context"
	"fmt"
	"time"

	"mindcare/internal/calendar"
	"mindcare/internal/config"
	"mindcare/internal/domain"
	"mindcare/internal/records"
	"mindcare/internal/repository"

	"go.uber.org/zap"
)

// SeedAccount builds the first-start account from configuration. Billing is
// due one month after now.
func SeedAccount(p config.PracticeConfig, now time.Time) (domain.Account, error) {
	plan, err := domain.LookupPlan(domain.PlanID(p.Plan))
	if err != nil {
		return domain.Account{}, err
	}
	tz := p.Timezone
	if !domain.KnownTimezone(tz) {
		return domain.Account{}, fmt.Errorf("unsupported timezone %q", tz)
	}
	return domain.Account{
		Name:        p.Name,
		Email:       p.Email,
		Timezone:    tz,
		Plan:        plan.ID,
		PlanStatus:  domain.PlanStatusActive,
		NextBilling: calendar.DateOf(now.AddDate(0, 1, 0)),
	}, nil
}

// LoadStore restores the saved clinic state for owner, or seeds a fresh one.
func LoadStore(ctx context.Context, repo repository.StateRepository, p config.PracticeConfig, env records.Env, logger *zap.Logger) (*records.Store, error) {
	st, found, err := repo.Load(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("load clinic state: %w", err)
	}
	if found {
		logger.Info("Clinic state restored",
			zap.String("owner", p.Email),
			zap.Int("clients", len(st.Clients)),
			zap.Int("sessions", len(st.Sessions)),
		)
		return records.NewStore(st, env), nil
	}

	acc, err := SeedAccount(p, env.Now())
	if err != nil {
		return nil, err
	}
	logger.Info("No saved clinic state, starting fresh", zap.String("owner", p.Email), zap.String("plan", string(acc.Plan)))
	return records.NewStore(records.NewState(acc), env), nil
}
