package service

import (
	"context"
	"sort"

	"mindcare/internal/calendar"
	"mindcare/internal/domain"
	"mindcare/internal/models"
	"mindcare/internal/records"

	"go.uber.org/zap"
)

// maxPageSize also applies when no size is given.
const maxPageSize = 500

type ListClientsRequest struct {
	Search    string
	Page      int
	Size      int
	Sort      string // "name" | "createdAt" (default: creation order)
	Direction int    // 1 asc, -1 desc
}

type ListClientsResponse struct {
	Items      []domain.ClientView      `json:"items"`
	Pagination models.BackendPagination `json:"pagination"`
}

type CreateClientRequest struct {
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	EmergencyPhone string `json:"emergencyPhone"`
	Email          string `json:"email" validate:"omitempty,email"`
	Gender         string `json:"gender"`
	BirthDate      string `json:"birthDate" validate:"required"`
	MainProblem    string `json:"mainProblem"`
}

// ClientDetail is a client with everything attached to it.
type ClientDetail struct {
	Client    domain.ClientView       `json:"client"`
	Sessions  []domain.Session        `json:"sessions"`
	Notes     []domain.Note           `json:"notes"`
	Forms     []domain.ClinicalForm   `json:"forms"`
	Evolution []domain.EvolutionEntry `json:"evolution"`
}

func (s *clinicService) ListClients(_ context.Context, req ListClientsRequest) *ListClientsResponse {
	today := s.m.Today()
	matched := s.m.Snapshot().SearchClients(req.Search)

	switch req.Sort {
	case "name":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	case "createdAt":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	}
	if req.Direction < 0 {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	page, size := req.Page, req.Size
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = maxPageSize
	}
	start, end := len(matched), len(matched)
	if page-1 <= len(matched)/size {
		start = min((page-1)*size, len(matched))
		end = min(start+size, len(matched))
	}

	items := make([]domain.ClientView, 0, end-start)
	for _, c := range matched[start:end] {
		items = append(items, c.View(today))
	}
	return &ListClientsResponse{
		Items: items,
		Pagination: models.BackendPagination{
			Size:      size,
			Page:      page,
			Count:     len(matched),
			Sort:      req.Sort,
			Direction: req.Direction,
		},
	}
}

func (s *clinicService) GetClient(_ context.Context, id string) (*ClientDetail, bool) {
	st := s.m.Snapshot()
	c, ok := st.Client(id)
	if !ok {
		return nil, false
	}
	return &ClientDetail{
		Client:    c.View(s.m.Today()),
		Sessions:  st.SessionsForClient(id),
		Notes:     st.NotesForClient(id),
		Forms:     st.FormsForClient(id),
		Evolution: st.EvolutionForClient(id),
	}, true
}

func (s *clinicService) CreateClient(ctx context.Context, req CreateClientRequest) (*domain.ClientView, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	birth, err := calendar.ParseDate(req.BirthDate)
	if err != nil {
		return nil, &ValidationError{Field: "birthDate", Message: "must be YYYY-MM-DD"}
	}
	if birth.After(s.m.Today()) {
		return nil, &ValidationError{Field: "birthDate", Message: "must not be in the future"}
	}

	var created domain.Client
	err = s.m.Apply(ctx, "client_add", func(st records.State, env records.Env) (records.State, bool, error) {
		next, c, err := st.AddClient(env, records.NewClient{
			Name:           req.Name,
			Phone:          req.Phone,
			EmergencyPhone: req.EmergencyPhone,
			Email:          req.Email,
			Gender:         req.Gender,
			BirthDate:      birth,
			MainProblem:    req.MainProblem,
		})
		created = c
		return next, err == nil, err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Client created", zap.String("client_id", created.ID))
	view := created.View(s.m.Today())
	return &view, nil
}

func (s *clinicService) DeleteClient(ctx context.Context, id string) (bool, error) {
	found, err := s.removal(ctx, "client_delete", func(st records.State) (records.State, bool) {
		return st.DeleteClient(id)
	})
	if found {
		s.logger.Info("Client deleted with related records", zap.String("client_id", id))
	}
	return found, err
}

// ExportClients lists every client with the age as of today and creation
// times in the practitioner's timezone.
func (s *clinicService) ExportClients(_ context.Context) []domain.ClientView {
	today, loc := s.m.Today(), s.m.Location()
	st := s.m.Snapshot()
	out := make([]domain.ClientView, 0, len(st.Clients))
	for _, c := range st.Clients {
		v := c.View(today)
		v.CreatedAt = v.CreatedAt.In(loc)
		out = append(out, v)
	}
	return out
}
