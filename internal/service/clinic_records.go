package service

import (
	"context"
	"encoding/json"
	"errors"

	"mindcare/internal/chart"
	"mindcare/internal/domain"
	"mindcare/internal/entitlement"
	"mindcare/internal/evolution"
	"mindcare/internal/records"

	"go.uber.org/zap"
)

type CreateNoteRequest struct {
	ClientID string `json:"clientId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type UpdateNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

type CreateFormRequest struct {
	ClientID string          `json:"clientId" validate:"required"`
	Type     string          `json:"type" validate:"required"`
	Data     json.RawMessage `json:"data"`
}

type UpdateFormRequest struct {
	Type string          `json:"type" validate:"required"`
	Data json.RawMessage `json:"data"`
}

type CreateEvolutionRequest struct {
	ClientID  string `json:"clientId" validate:"required"`
	Symptom   string `json:"symptom" validate:"required"`
	Intensity *int   `json:"intensity" validate:"required,gte=0,lte=10"`
}

// EvolutionChartResponse carries both the aggregate and its drawing primitives.
type EvolutionChartResponse struct {
	Aggregate evolution.Aggregate `json:"aggregate"`
	Chart     chart.Chart         `json:"chart"`
}

func (s *clinicService) ListNotes(_ context.Context, clientID string) []domain.Note {
	return s.m.Snapshot().NotesForClient(clientID)
}

func (s *clinicService) CreateNote(ctx context.Context, req CreateNoteRequest) (*domain.Note, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var created domain.Note
	err := s.m.Apply(ctx, "note_add", func(st records.State, env records.Env) (records.State, bool, error) {
		next, n, err := st.AddNote(env, req.ClientID, req.Content)
		created = n
		return next, err == nil, err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateNote returns nil without error when id is unknown.
func (s *clinicService) UpdateNote(ctx context.Context, id string, req UpdateNoteRequest) (*domain.Note, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var edited domain.Note
	err := s.m.Apply(ctx, "note_edit", func(st records.State, env records.Env) (records.State, bool, error) {
		next, n, err := st.EditNote(env, id, req.Content)
		edited = n
		return next, err == nil && n.ID != "", err
	})
	if err != nil || edited.ID == "" {
		return nil, err
	}
	return &edited, nil
}

func (s *clinicService) DeleteNote(ctx context.Context, id string) (bool, error) {
	return s.removal(ctx, "note_delete", func(st records.State) (records.State, bool) {
		return st.DeleteNote(id)
	})
}

func (s *clinicService) ListForms(_ context.Context, clientID string) []domain.ClinicalForm {
	return s.m.Snapshot().FormsForClient(clientID)
}

func (s *clinicService) CreateForm(ctx context.Context, req CreateFormRequest) (*domain.ClinicalForm, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	data, err := decodeForm(req.Type, req.Data)
	if err != nil {
		return nil, err
	}
	var created domain.ClinicalForm
	err = s.m.Apply(ctx, "form_add", func(st records.State, env records.Env) (records.State, bool, error) {
		next, f, err := st.AddForm(env, req.ClientID, data)
		created = f
		return next, err == nil, err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Clinical form saved", zap.String("form_id", created.ID), zap.String("type", string(created.Type())))
	return &created, nil
}

// UpdateForm returns nil without error when id is unknown.
func (s *clinicService) UpdateForm(ctx context.Context, id string, req UpdateFormRequest) (*domain.ClinicalForm, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	data, err := decodeForm(req.Type, req.Data)
	if err != nil {
		return nil, err
	}
	var edited domain.ClinicalForm
	err = s.m.Apply(ctx, "form_edit", func(st records.State, env records.Env) (records.State, bool, error) {
		next, f, err := st.EditForm(env, id, data)
		edited = f
		return next, err == nil && f.ID != "", err
	})
	if err != nil || edited.ID == "" {
		return nil, err
	}
	return &edited, nil
}

func (s *clinicService) DeleteForm(ctx context.Context, id string) (bool, error) {
	return s.removal(ctx, "form_delete", func(st records.State) (records.State, bool) {
		return st.DeleteForm(id)
	})
}

func decodeForm(formType string, raw json.RawMessage) (domain.FormData, error) {
	data, err := domain.DecodeFormData(domain.FormType(formType), raw)
	switch {
	case errors.Is(err, domain.ErrUnknownFormType):
		return nil, &ValidationError{Field: "type", Message: "unknown form type"}
	case err != nil:
		return nil, &ValidationError{Field: "data", Message: err.Error()}
	}
	return data, nil
}

func (s *clinicService) ListEvolution(_ context.Context, clientID string) []domain.EvolutionEntry {
	return s.m.Snapshot().EvolutionForClient(clientID)
}

func (s *clinicService) CreateEvolutionEntry(ctx context.Context, req CreateEvolutionRequest) (*domain.EvolutionEntry, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var created domain.EvolutionEntry
	err := s.m.Apply(ctx, "evolution_add", func(st records.State, env records.Env) (records.State, bool, error) {
		next, e, err := st.AddEvolutionEntry(env, req.ClientID, req.Symptom, *req.Intensity)
		created = e
		return next, err == nil, err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *clinicService) DeleteEvolutionEntry(ctx context.Context, id string) (bool, error) {
	return s.removal(ctx, "evolution_delete", func(st records.State) (records.State, bool) {
		return st.DeleteEvolutionEntry(id)
	})
}

// EvolutionChart builds the trend chart for a client. Viewing it needs the
// evolution feature just like recording entries does.
func (s *clinicService) EvolutionChart(_ context.Context, clientID string) (*EvolutionChartResponse, error) {
	st := s.m.Snapshot()
	plan, err := st.Plan()
	if err != nil {
		return nil, err
	}
	if err := entitlement.Require(plan, entitlement.Evolution); err != nil {
		s.m.logRejected("evolution_chart", err)
		return nil, err
	}
	// tooltip dates are read in the practitioner's timezone, like Today
	entries := st.EvolutionForClient(clientID)
	loc := s.m.Location()
	for i := range entries {
		entries[i].CreatedAt = entries[i].CreatedAt.In(loc)
	}
	agg := evolution.Build(entries, evolution.DefaultLayout())
	return &EvolutionChartResponse{Aggregate: agg, Chart: chart.Render(agg)}, nil
}
