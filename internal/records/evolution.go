package records

import (
	"strings"

	"mindcare/internal/domain"
	"mindcare/internal/entitlement"
)

func (s State) AddEvolutionEntry(env Env, clientID, symptom string, intensity int) (State, domain.EvolutionEntry, error) {
	plan, err := s.Plan()
	if err != nil {
		return s, domain.EvolutionEntry{}, err
	}
	if err := entitlement.Require(plan, entitlement.Evolution); err != nil {
		return s, domain.EvolutionEntry{}, err
	}
	switch {
	case indexOf(s.Clients, func(c domain.Client) bool { return c.ID == clientID }) < 0:
		return s, domain.EvolutionEntry{}, invalid("clientId", "unknown client")
	case strings.TrimSpace(symptom) == "":
		return s, domain.EvolutionEntry{}, invalid("symptom", "is required")
	case intensity < domain.MinIntensity || intensity > domain.MaxIntensity:
		return s, domain.EvolutionEntry{}, invalid("intensity", "must be between 0 and 10")
	}
	e := domain.EvolutionEntry{
		ID:        env.NewID(),
		ClientID:  clientID,
		Symptom:   symptom,
		Intensity: intensity,
		CreatedAt: env.Now(),
	}
	s.Evolution = appendNew(s.Evolution, e)
	return s, e, nil
}

func (s State) DeleteEvolutionEntry(id string) (State, bool) {
	if indexOf(s.Evolution, func(e domain.EvolutionEntry) bool { return e.ID == id }) < 0 {
		return s, false
	}
	s.Evolution = removeWhere(s.Evolution, func(e domain.EvolutionEntry) bool { return e.ID == id })
	return s, true
}

func (s State) EvolutionForClient(clientID string) []domain.EvolutionEntry {
	return filter(s.Evolution, func(e domain.EvolutionEntry) bool { return e.ClientID == clientID })
}
