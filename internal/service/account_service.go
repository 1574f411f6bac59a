package service

import (
	"context"
	"errors"

	"mindcare/internal/domain"
	"mindcare/internal/records"

	"go.uber.org/zap"
)

type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Timezone string `json:"timezone"`
}

type ChangePlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=start pro infinity"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// AccountResponse is the account plus its resolved plan.
type AccountResponse struct {
	Account domain.Account `json:"account"`
	Plan    domain.Plan    `json:"plan"`
	Clients int            `json:"clients"`
}

type AccountService interface {
	GetAccount(ctx context.Context) (*AccountResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*AccountResponse, error)
	ChangePlan(ctx context.Context, req ChangePlanRequest) (*AccountResponse, error)
	CancelSubscription(ctx context.Context, req CancelSubscriptionRequest) (*AccountResponse, error)
}

type accountService struct {
	m      *Mutator
	logger *zap.Logger
}

func NewAccountService(m *Mutator, logger *zap.Logger) AccountService {
	return &accountService{m: m, logger: logger}
}

func (s *accountService) GetAccount(_ context.Context) (*AccountResponse, error) {
	return accountResponse(s.m.Snapshot())
}

func (s *accountService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*AccountResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	err := s.m.Apply(ctx, "account_profile", func(st records.State, _ records.Env) (records.State, bool, error) {
		next, err := st.UpdateProfile(records.ProfileUpdate{Name: req.Name, Email: req.Email, Timezone: req.Timezone})
		return next, err == nil, err
	})
	if err != nil {
		return nil, err
	}
	return accountResponse(s.m.Snapshot())
}

// ChangePlan switches tiers. Existing records above a lower tier's limits are kept.
func (s *accountService) ChangePlan(ctx context.Context, req ChangePlanRequest) (*AccountResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var from domain.PlanID
	err := s.m.Apply(ctx, "account_plan", func(st records.State, _ records.Env) (records.State, bool, error) {
		from = st.Account.Plan
		next, err := st.ChangePlan(domain.PlanID(req.Plan))
		return next, err == nil, err
	})
	if errors.Is(err, domain.ErrUnknownPlan) {
		return nil, &ValidationError{Field: "plan", Message: "unknown plan"}
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("Plan changed", zap.String("from", string(from)), zap.String("to", req.Plan))
	return accountResponse(s.m.Snapshot())
}

func (s *accountService) CancelSubscription(ctx context.Context, req CancelSubscriptionRequest) (*AccountResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	err := s.m.Apply(ctx, "account_cancel", func(st records.State, _ records.Env) (records.State, bool, error) {
		next, err := st.CancelSubscription(req.Reason)
		return next, err == nil, err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Subscription cancelled")
	return accountResponse(s.m.Snapshot())
}

func accountResponse(st records.State) (*AccountResponse, error) {
	plan, err := st.Plan()
	if err != nil {
		return nil, err
	}
	return &AccountResponse{Account: st.Account, Plan: plan, Clients: len(st.Clients)}, nil
}
