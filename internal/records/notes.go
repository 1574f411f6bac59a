package records

import (
	"strings"

	"mindcare/internal/domain"
)

func (s State) AddNote(env Env, clientID, content string) (State, domain.Note, error) {
	if _, ok := s.Client(clientID); !ok {
		return s, domain.Note{}, invalid("clientId", "unknown client")
	}
	if strings.TrimSpace(content) == "" {
		return s, domain.Note{}, invalid("content", "is required")
	}
	n := domain.Note{
		ID:        env.NewID(),
		ClientID:  clientID,
		Content:   content,
		CreatedAt: env.Now(),
	}
	s.Notes = appendNew(s.Notes, n)
	return s, n, nil
}

// EditNote replaces the content in place. Unknown ids are a no-op.
func (s State) EditNote(env Env, id, content string) (State, domain.Note, error) {
	if strings.TrimSpace(content) == "" {
		return s, domain.Note{}, invalid("content", "is required")
	}
	i := indexOf(s.Notes, func(n domain.Note) bool { return n.ID == id })
	if i < 0 {
		return s, domain.Note{}, nil
	}
	n := s.Notes[i]
	n.Content = content
	n.UpdatedAt = env.Now()
	s.Notes = replaceAt(s.Notes, i, n)
	return s, n, nil
}

func (s State) DeleteNote(id string) (State, bool) {
	if indexOf(s.Notes, func(n domain.Note) bool { return n.ID == id }) < 0 {
		return s, false
	}
	s.Notes = removeWhere(s.Notes, func(n domain.Note) bool { return n.ID == id })
	return s, true
}

func (s State) Note(id string) (domain.Note, bool) {
	i := indexOf(s.Notes, func(n domain.Note) bool { return n.ID == id })
	if i < 0 {
		return domain.Note{}, false
	}
	return s.Notes[i], true
}

func (s State) NotesForClient(clientID string) []domain.Note {
	return filter(s.Notes, func(n domain.Note) bool { return n.ClientID == clientID })
}
