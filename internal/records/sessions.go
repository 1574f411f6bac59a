package records

import (
	"regexp"
	"sort"

	"mindcare/internal/calendar"
	"mindcare/internal/domain"
	"mindcare/internal/entitlement"
)

var clockTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type NewSession struct {
	ClientID string
	Date     calendar.Date
	Time     string
	Modality domain.Modality
}

// AddSession books an appointment. The client's current name is copied onto
// the session and is not refreshed if the client is renamed.
func (s State) AddSession(env Env, in NewSession) (State, domain.Session, error) {
	plan, err := s.Plan()
	if err != nil {
		return s, domain.Session{}, err
	}
	if err := entitlement.Require(plan, entitlement.Scheduling); err != nil {
		return s, domain.Session{}, err
	}
	client, ok := s.Client(in.ClientID)
	switch {
	case in.ClientID == "":
		return s, domain.Session{}, invalid("clientId", "is required")
	case !ok:
		return s, domain.Session{}, invalid("clientId", "unknown client")
	case in.Date.IsZero():
		return s, domain.Session{}, invalid("date", "is required")
	case !clockTime.MatchString(in.Time):
		return s, domain.Session{}, invalid("time", "must be HH:MM")
	}
	modality := in.Modality
	if modality == "" {
		modality = domain.ModalityOnline
	}
	if !modality.Valid() {
		return s, domain.Session{}, invalid("type", "must be online or in-person")
	}

	sess := domain.Session{
		ID:         env.NewID(),
		ClientID:   client.ID,
		ClientName: client.Name,
		Date:       in.Date,
		Time:       in.Time,
		Modality:   modality,
		Status:     domain.SessionScheduled,
	}
	s.Sessions = appendNew(s.Sessions, sess)
	return s, sess, nil
}

// ConfirmSession moves scheduled to confirmed. Any other status, or an
// unknown id, is a no-op.
func (s State) ConfirmSession(id string) (State, bool) {
	return s.transitionSession(id, domain.SessionConfirmed, domain.SessionScheduled)
}

// MarkNoShow records that the client did not attend.
func (s State) MarkNoShow(id string) (State, bool) {
	return s.transitionSession(id, domain.SessionNoShow, domain.SessionScheduled, domain.SessionConfirmed)
}

func (s State) transitionSession(id string, to domain.SessionStatus, from ...domain.SessionStatus) (State, bool) {
	i := indexOf(s.Sessions, func(x domain.Session) bool { return x.ID == id })
	if i < 0 {
		return s, false
	}
	sess := s.Sessions[i]
	for _, f := range from {
		if sess.Status == f {
			sess.Status = to
			s.Sessions = replaceAt(s.Sessions, i, sess)
			return s, true
		}
	}
	return s, false
}

// CancelSession deletes the session outright.
func (s State) CancelSession(id string) (State, bool) {
	if indexOf(s.Sessions, func(x domain.Session) bool { return x.ID == id }) < 0 {
		return s, false
	}
	s.Sessions = removeWhere(s.Sessions, func(x domain.Session) bool { return x.ID == id })
	return s, true
}

func (s State) Session(id string) (domain.Session, bool) {
	i := indexOf(s.Sessions, func(x domain.Session) bool { return x.ID == id })
	if i < 0 {
		return domain.Session{}, false
	}
	return s.Sessions[i], true
}

func (s State) SessionsForClient(clientID string) []domain.Session {
	return filter(s.Sessions, func(x domain.Session) bool { return x.ClientID == clientID })
}

// UpcomingSessions lists scheduled and confirmed sessions by date and time.
func (s State) UpcomingSessions() []domain.Session {
	out := filter(s.Sessions, func(x domain.Session) bool { return x.Upcoming() })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out
}
