package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mindcare/internal/domain"
	"mindcare/internal/records"
	"mindcare/internal/reminder"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	mu      sync.Mutex
	saves   int
	last    records.State
	owner   string
	failErr error
}

func (r *fakeRepo) Load(context.Context, string) (records.State, bool, error) {
	return records.State{}, false, nil
}

func (r *fakeRepo) Save(_ context.Context, owner string, st records.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.saves++
	r.owner = owner
	r.last = st
	return nil
}

func (r *fakeRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

type fakePublisher struct {
	sent []reminder.Reminder
	err  error
}

func (p *fakePublisher) PublishSessionReminder(_ context.Context, r reminder.Reminder) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, r)
	return nil
}

var errBoom = errors.New("boom")

func fixedEnv() records.Env {
	return envAt(time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC))
}

func envAt(now time.Time) records.Env {
	n := 0
	return records.Env{
		Now: func() time.Time { return now },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

type fixture struct {
	repo     *fakeRepo
	pub      *fakePublisher
	mutator  *Mutator
	clinic   ClinicService
	accounts AccountService
}

func newFixture(t *testing.T, plan domain.PlanID) *fixture {
	t.Helper()
	return newFixtureWithEnv(t, plan, fixedEnv())
}

func newFixtureWithEnv(t *testing.T, plan domain.PlanID, env records.Env) *fixture {
	t.Helper()
	acc := domain.Account{
		Name:       "Dr. João Silva",
		Email:      "joao@mindcare.com",
		Timezone:   "America/Sao_Paulo",
		Plan:       plan,
		PlanStatus: domain.PlanStatusActive,
	}
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	logger := zap.NewNop()
	m := NewMutator(records.NewStore(records.NewState(acc), env), repo, acc.Email, logger)
	return &fixture{
		repo:     repo,
		pub:      pub,
		mutator:  m,
		clinic:   NewClinicService(m, pub, logger),
		accounts: NewAccountService(m, logger),
	}
}

func (f *fixture) addClient(t *testing.T, name string) domain.ClientView {
	t.Helper()
	c, err := f.clinic.CreateClient(context.Background(), CreateClientRequest{
		Name:      name,
		Phone:     "(11) 99999-0000",
		BirthDate: "1996-03-15",
	})
	require.NoError(t, err)
	return *c
}

func intPtr(v int) *int { return &v }
