package domain

import "time"

type Note struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EvolutionEntry is one intensity rating (0..10) of a named symptom.
type EvolutionEntry struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Symptom   string    `json:"symptom"`
	Intensity int       `json:"intensity"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	MinIntensity = 0
	MaxIntensity = 10
)
