package domain

import "mindcare/internal/calendar"

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCancelled SessionStatus = "cancelled"
	SessionNoShow    SessionStatus = "no-show"
)

type Modality string

const (
	ModalityOnline   Modality = "online"
	ModalityInPerson Modality = "in-person"
)

func (m Modality) Valid() bool {
	return m == ModalityOnline || m == ModalityInPerson
}

// Session is an appointment. ClientName is a snapshot taken when the session
// is booked; renaming the client later does not touch existing sessions.
type Session struct {
	ID         string        `json:"id"`
	ClientID   string        `json:"clientId"`
	ClientName string        `json:"clientName"`
	Date       calendar.Date `json:"date"`
	Time       string        `json:"time"` // HH:MM
	Modality   Modality      `json:"type"`
	Status     SessionStatus `json:"status"`
}

// Upcoming reports whether the session still expects the client to attend.
func (s Session) Upcoming() bool {
	return s.Status == SessionScheduled || s.Status == SessionConfirmed
}
