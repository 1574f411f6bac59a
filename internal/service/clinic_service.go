package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"mindcare/internal/calendar"
	"mindcare/internal/domain"
	"mindcare/internal/entitlement"
	"mindcare/internal/metrics"
	"mindcare/internal/records"
	"mindcare/internal/reminder"
	"mindcare/internal/repository"

	"go.uber.org/zap"
)

// ClinicService covers clients, sessions, notes, forms and evolution entries.
type ClinicService interface {
	Dashboard(ctx context.Context) records.Dashboard
	Calendar(ctx context.Context, month string) ([]records.CalendarDay, error)

	ListClients(ctx context.Context, req ListClientsRequest) *ListClientsResponse
	GetClient(ctx context.Context, id string) (*ClientDetail, bool)
	CreateClient(ctx context.Context, req CreateClientRequest) (*domain.ClientView, error)
	DeleteClient(ctx context.Context, id string) (bool, error)
	ExportClients(ctx context.Context) []domain.ClientView

	ListSessions(ctx context.Context, clientID string) []domain.Session
	CreateSession(ctx context.Context, req CreateSessionRequest) (*domain.Session, error)
	ConfirmSession(ctx context.Context, id string) (bool, error)
	MarkNoShow(ctx context.Context, id string) (bool, error)
	CancelSession(ctx context.Context, id string) (bool, error)
	SendReminder(ctx context.Context, id string) error

	ListNotes(ctx context.Context, clientID string) []domain.Note
	CreateNote(ctx context.Context, req CreateNoteRequest) (*domain.Note, error)
	UpdateNote(ctx context.Context, id string, req UpdateNoteRequest) (*domain.Note, error)
	DeleteNote(ctx context.Context, id string) (bool, error)

	ListForms(ctx context.Context, clientID string) []domain.ClinicalForm
	CreateForm(ctx context.Context, req CreateFormRequest) (*domain.ClinicalForm, error)
	UpdateForm(ctx context.Context, id string, req UpdateFormRequest) (*domain.ClinicalForm, error)
	DeleteForm(ctx context.Context, id string) (bool, error)

	ListEvolution(ctx context.Context, clientID string) []domain.EvolutionEntry
	CreateEvolutionEntry(ctx context.Context, req CreateEvolutionRequest) (*domain.EvolutionEntry, error)
	DeleteEvolutionEntry(ctx context.Context, id string) (bool, error)
	EvolutionChart(ctx context.Context, clientID string) (*EvolutionChartResponse, error)
}

// Mutator applies record transitions and persists the result. Shared by the
// clinic and account services so both write through the same path.
type Mutator struct {
	store  *records.Store
	repo   repository.StateRepository
	owner  string
	logger *zap.Logger
	// mu serializes apply-and-save so a failed save can be rolled back.
	mu sync.Mutex
}

// NewMutator binds the store to the practitioner identified by owner, the
// configured practice email.
func NewMutator(store *records.Store, repo repository.StateRepository, owner string, logger *zap.Logger) *Mutator {
	return &Mutator{store: store, repo: repo, owner: normalizeEmail(owner), logger: logger}
}

// Owner is the practice owner's normalised email, the only identity allowed in.
func (m *Mutator) Owner() string { return m.owner }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Apply runs fn; when it succeeds and changed is true, the new state is saved.
// If the save fails the store goes back to the state before fn.
// kind labels the mutation in logs and metrics.
func (m *Mutator) Apply(ctx context.Context, kind string, fn func(records.State, records.Env) (records.State, bool, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var prev records.State
	var changed bool
	_, err := m.store.Apply(func(s records.State, env records.Env) (records.State, error) {
		prev = s
		next, ok, err := fn(s, env)
		changed = ok
		return next, err
	})
	if err != nil {
		m.logRejected(kind, err)
		return err
	}
	if !changed {
		m.logger.Debug("Record mutation was a no-op", zap.String("kind", kind))
		return nil
	}
	if err := m.repo.Save(ctx, m.owner, m.store.Snapshot()); err != nil {
		m.store.Replace(prev)
		m.logger.Error("Failed to persist clinic state, change rolled back", zap.String("kind", kind), zap.Error(err))
		return fmt.Errorf("save clinic state: %w", err)
	}
	metrics.RecordMutations.WithLabelValues(kind).Inc()
	return nil
}

func (m *Mutator) logRejected(kind string, err error) {
	var denied *entitlement.DeniedError
	var limit *entitlement.LimitError
	switch {
	case errors.As(err, &denied):
		metrics.EntitlementDenials.WithLabelValues(string(denied.Feature)).Inc()
		m.logger.Warn("Operation not included in plan", zap.String("kind", kind), zap.String("plan", string(denied.Plan)), zap.String("feature", string(denied.Feature)))
	case errors.As(err, &limit):
		metrics.EntitlementDenials.WithLabelValues("max_clients").Inc()
		m.logger.Warn("Client limit reached", zap.String("kind", kind), zap.String("plan", string(limit.Plan)), zap.Int("limit", limit.Limit))
	default:
		m.logger.Warn("Record mutation rejected", zap.String("kind", kind), zap.Error(err))
	}
}

func (m *Mutator) Snapshot() records.State { return m.store.Snapshot() }

// Location is the practitioner's timezone, or the server's when the account
// timezone is unset or unknown.
func (m *Mutator) Location() *time.Location {
	tz := m.store.Snapshot().Account.Timezone
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local
	}
	return loc
}

// Today is the current date in the practitioner's timezone.
func (m *Mutator) Today() calendar.Date {
	return calendar.DateOf(m.store.Env().Now().In(m.Location()))
}

type clinicService struct {
	m         *Mutator
	reminders reminder.Publisher
	logger    *zap.Logger
}

func NewClinicService(m *Mutator, reminders reminder.Publisher, logger *zap.Logger) ClinicService {
	return &clinicService{m: m, reminders: reminders, logger: logger}
}

func (s *clinicService) Dashboard(_ context.Context) records.Dashboard {
	return s.m.Snapshot().Dashboard(s.m.Today())
}

// Calendar lays out month (YYYY-MM); empty means the current month.
func (s *clinicService) Calendar(_ context.Context, month string) ([]records.CalendarDay, error) {
	today := s.m.Today()
	anchor := today
	if month != "" {
		d, err := calendar.ParseMonth(month)
		if err != nil {
			return nil, &ValidationError{Field: "month", Message: "must be YYYY-MM"}
		}
		anchor = d
	}
	return s.m.Snapshot().CalendarMonth(anchor, today), nil
}

// removal runs a delete-style transition that reports whether anything changed.
func (s *clinicService) removal(ctx context.Context, kind string, fn func(records.State) (records.State, bool)) (bool, error) {
	var found bool
	err := s.m.Apply(ctx, kind, func(st records.State, _ records.Env) (records.State, bool, error) {
		next, ok := fn(st)
		found = ok
		return next, ok, nil
	})
	return found, err
}
