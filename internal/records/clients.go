package records

import (
	"strings"

	"mindcare/internal/calendar"
	"mindcare/internal/domain"
	"mindcare/internal/entitlement"
)

// NewClient is the input of AddClient.
type NewClient struct {
	Name           string
	Phone          string
	EmergencyPhone string
	Email          string
	Gender         string
	BirthDate      calendar.Date
	MainProblem    string
}

func (in NewClient) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalid("name", "is required")
	case strings.TrimSpace(in.Phone) == "":
		return invalid("phone", "is required")
	case in.BirthDate.IsZero():
		return invalid("birthDate", "is required")
	}
	return nil
}

// AddClient checks required fields and the plan's client cap before adding.
func (s State) AddClient(env Env, in NewClient) (State, domain.Client, error) {
	if err := in.validate(); err != nil {
		return s, domain.Client{}, err
	}
	plan, err := s.Plan()
	if err != nil {
		return s, domain.Client{}, err
	}
	if err := entitlement.RequireClientSlot(plan, len(s.Clients)); err != nil {
		return s, domain.Client{}, err
	}
	c := domain.Client{
		ID:             env.NewID(),
		Name:           strings.TrimSpace(in.Name),
		Phone:          strings.TrimSpace(in.Phone),
		EmergencyPhone: strings.TrimSpace(in.EmergencyPhone),
		Email:          strings.TrimSpace(in.Email),
		Gender:         in.Gender,
		BirthDate:      in.BirthDate,
		MainProblem:    in.MainProblem,
		CreatedAt:      env.Now(),
	}
	s.Clients = appendNew(s.Clients, c)
	return s, c, nil
}

// DeleteClient removes the client with its sessions, forms, notes and
// evolution entries. An unknown id leaves the state as is.
func (s State) DeleteClient(id string) (State, bool) {
	if indexOf(s.Clients, func(c domain.Client) bool { return c.ID == id }) < 0 {
		return s, false
	}
	s.Clients = removeWhere(s.Clients, func(c domain.Client) bool { return c.ID == id })
	s.Sessions = removeWhere(s.Sessions, func(x domain.Session) bool { return x.ClientID == id })
	s.Forms = removeWhere(s.Forms, func(x domain.ClinicalForm) bool { return x.ClientID == id })
	s.Notes = removeWhere(s.Notes, func(x domain.Note) bool { return x.ClientID == id })
	s.Evolution = removeWhere(s.Evolution, func(x domain.EvolutionEntry) bool { return x.ClientID == id })
	return s, true
}

func (s State) Client(id string) (domain.Client, bool) {
	i := indexOf(s.Clients, func(c domain.Client) bool { return c.ID == id })
	if i < 0 {
		return domain.Client{}, false
	}
	return s.Clients[i], true
}

// SearchClients matches name and email case-insensitively and phone as a
// literal substring. An empty term returns every client.
func (s State) SearchClients(term string) []domain.Client {
	term = strings.TrimSpace(term)
	if term == "" {
		return append([]domain.Client(nil), s.Clients...)
	}
	lower := strings.ToLower(term)
	return filter(s.Clients, func(c domain.Client) bool {
		return strings.Contains(strings.ToLower(c.Name), lower) ||
			strings.Contains(strings.ToLower(c.Email), lower) ||
			strings.Contains(c.Phone, term)
	})
}
