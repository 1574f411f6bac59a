package domain

import (
	"time"

	"mindcare/internal/calendar"
)

// Client is a person under care. Age is derived from BirthDate on read and never stored.
type Client struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Phone          string        `json:"phone"`
	EmergencyPhone string        `json:"emergencyPhone"`
	Email          string        `json:"email"`
	Gender         string        `json:"gender"`
	BirthDate      calendar.Date `json:"birthDate"`
	MainProblem    string        `json:"mainProblem"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// ClientView is a Client with its age computed for a given day.
type ClientView struct {
	Client
	Age int `json:"age"`
}

func (c Client) View(today calendar.Date) ClientView {
	return ClientView{Client: c, Age: calendar.CalculateAge(c.BirthDate, today)}
}
