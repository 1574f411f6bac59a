package domain

import "mindcare/internal/calendar"

type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusInactive  PlanStatus = "inactive"
	PlanStatusCancelled PlanStatus = "cancelled"
)

// Account is the single practitioner using the clinic.
type Account struct {
	Name               string        `json:"name"`
	Email              string        `json:"email"`
	Timezone           string        `json:"timezone"`
	Plan               PlanID        `json:"plan"`
	PlanStatus         PlanStatus    `json:"planStatus"`
	NextBilling        calendar.Date `json:"nextBilling"`
	CancellationReason string        `json:"cancellationReason,omitempty"`
}
