package service

import (
	"context"
	"fmt"

	"mindcare/internal/calendar"
	"mindcare/internal/domain"
	"mindcare/internal/entitlement"
	"mindcare/internal/records"
	"mindcare/internal/reminder"

	"go.uber.org/zap"
)

type CreateSessionRequest struct {
	ClientID string `json:"clientId" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=online in-person"`
}

// ListSessions returns upcoming sessions, or every session of clientID when set.
func (s *clinicService) ListSessions(_ context.Context, clientID string) []domain.Session {
	st := s.m.Snapshot()
	if clientID != "" {
		return st.SessionsForClient(clientID)
	}
	return st.UpcomingSessions()
}

func (s *clinicService) CreateSession(ctx context.Context, req CreateSessionRequest) (*domain.Session, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}

	var created domain.Session
	err = s.m.Apply(ctx, "session_add", func(st records.State, env records.Env) (records.State, bool, error) {
		next, sess, err := st.AddSession(env, records.NewSession{
			ClientID: req.ClientID,
			Date:     date,
			Time:     req.Time,
			Modality: domain.Modality(req.Type),
		})
		created = sess
		return next, err == nil, err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Session scheduled",
		zap.String("session_id", created.ID),
		zap.String("client_id", created.ClientID),
		zap.String("date", created.Date.String()),
	)
	return &created, nil
}

func (s *clinicService) ConfirmSession(ctx context.Context, id string) (bool, error) {
	return s.removal(ctx, "session_confirm", func(st records.State) (records.State, bool) {
		return st.ConfirmSession(id)
	})
}

func (s *clinicService) MarkNoShow(ctx context.Context, id string) (bool, error) {
	return s.removal(ctx, "session_no_show", func(st records.State) (records.State, bool) {
		return st.MarkNoShow(id)
	})
}

// CancelSession removes the session from every listing.
func (s *clinicService) CancelSession(ctx context.Context, id string) (bool, error) {
	return s.removal(ctx, "session_cancel", func(st records.State) (records.State, bool) {
		return st.CancelSession(id)
	})
}

// SendReminder publishes a reminder for an active session. Reminders are a plan feature.
func (s *clinicService) SendReminder(ctx context.Context, id string) error {
	st := s.m.Snapshot()
	plan, err := st.Plan()
	if err != nil {
		return err
	}
	if err := entitlement.Require(plan, entitlement.Reminders); err != nil {
		s.m.logRejected("session_remind", err)
		return err
	}
	sess, ok := st.Session(id)
	if !ok || !sess.Upcoming() {
		return &ValidationError{Field: "id", Message: "no active session with this id"}
	}
	r := reminder.Reminder{
		SessionID:  sess.ID,
		ClientID:   sess.ClientID,
		ClientName: sess.ClientName,
		Date:       sess.Date.String(),
		Time:       sess.Time,
		Modality:   string(sess.Modality),
		Timezone:   st.Account.Timezone,
		SentAt:     s.m.store.Env().Now(),
	}
	if err := s.reminders.PublishSessionReminder(ctx, r); err != nil {
		s.logger.Error("Failed to publish session reminder", zap.String("session_id", id), zap.Error(err))
		return fmt.Errorf("publish reminder: %w", err)
	}
	return nil
}
