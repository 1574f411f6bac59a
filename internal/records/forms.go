package records

import (
	"mindcare/internal/domain"
	"mindcare/internal/entitlement"
)

// AddForm attaches a filled-in template to a client. Templates are a plan feature.
func (s State) AddForm(env Env, clientID string, data domain.FormData) (State, domain.ClinicalForm, error) {
	plan, err := s.Plan()
	if err != nil {
		return s, domain.ClinicalForm{}, err
	}
	if err := entitlement.Require(plan, entitlement.Templates); err != nil {
		return s, domain.ClinicalForm{}, err
	}
	if _, ok := s.Client(clientID); !ok {
		return s, domain.ClinicalForm{}, invalid("clientId", "unknown client")
	}
	if data == nil {
		return s, domain.ClinicalForm{}, invalid("data", "is required")
	}
	if err := data.Validate(); err != nil {
		return s, domain.ClinicalForm{}, invalid("data", err.Error())
	}
	now := env.Now()
	f := domain.ClinicalForm{
		ID:        env.NewID(),
		ClientID:  clientID,
		CreatedAt: now,
		UpdatedAt: now,
		Data:      data,
	}
	s.Forms = appendNew(s.Forms, f)
	return s, f, nil
}

// EditForm replaces the field values. The form type cannot change.
func (s State) EditForm(env Env, id string, data domain.FormData) (State, domain.ClinicalForm, error) {
	i := indexOf(s.Forms, func(f domain.ClinicalForm) bool { return f.ID == id })
	if i < 0 {
		return s, domain.ClinicalForm{}, nil
	}
	f := s.Forms[i]
	if data == nil {
		return s, domain.ClinicalForm{}, invalid("data", "is required")
	}
	if data.FormType() != f.Type() {
		return s, domain.ClinicalForm{}, invalid("type", "cannot change the type of an existing form")
	}
	if err := data.Validate(); err != nil {
		return s, domain.ClinicalForm{}, invalid("data", err.Error())
	}
	f.Data = data
	f.UpdatedAt = env.Now()
	s.Forms = replaceAt(s.Forms, i, f)
	return s, f, nil
}

func (s State) DeleteForm(id string) (State, bool) {
	if indexOf(s.Forms, func(f domain.ClinicalForm) bool { return f.ID == id }) < 0 {
		return s, false
	}
	s.Forms = removeWhere(s.Forms, func(f domain.ClinicalForm) bool { return f.ID == id })
	return s, true
}

func (s State) Form(id string) (domain.ClinicalForm, bool) {
	i := indexOf(s.Forms, func(f domain.ClinicalForm) bool { return f.ID == id })
	if i < 0 {
		return domain.ClinicalForm{}, false
	}
	return s.Forms[i], true
}

func (s State) FormsForClient(clientID string) []domain.ClinicalForm {
	return filter(s.Forms, func(f domain.ClinicalForm) bool { return f.ClientID == clientID })
}
