package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownPlan = errors.New("unknown plan")

// PlanID identifies a subscription tier.
type PlanID string

const (
	PlanStart    PlanID = "start"
	PlanPro      PlanID = "pro"
	PlanInfinity PlanID = "infinity"
)

// ClientLimit is a positive cap or Unlimited (zero value).
type ClientLimit struct {
	max int
}

var Unlimited = ClientLimit{}

func LimitOf(n int) ClientLimit { return ClientLimit{max: n} }

func (l ClientLimit) Unlimited() bool { return l.max <= 0 }

// Max is meaningful only when Unlimited() is false.
func (l ClientLimit) Max() int { return l.max }

func (l ClientLimit) String() string {
	if l.Unlimited() {
		return "unlimited"
	}
	return fmt.Sprintf("%d", l.max)
}

func (l ClientLimit) MarshalJSON() ([]byte, error) {
	if l.Unlimited() {
		return []byte(`"unlimited"`), nil
	}
	return json.Marshal(l.max)
}

func (l *ClientLimit) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if n <= 0 {
			return fmt.Errorf("client limit must be positive, got %d", n)
		}
		l.max = n
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s != "unlimited" {
		return fmt.Errorf("invalid client limit %s", string(b))
	}
	*l = Unlimited
	return nil
}

// Features is the entitlement set of a plan.
type Features struct {
	Support    string      `json:"support"`
	MaxClients ClientLimit `json:"maxClients"`
	Scheduling bool        `json:"scheduling"`
	Reminders  bool        `json:"reminders"`
	Templates  bool        `json:"templates"`
	Evolution  bool        `json:"evolution"`
}

type Plan struct {
	ID       PlanID   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Features Features `json:"features"`
}

var catalog = [...]Plan{
	{
		ID:    PlanStart,
		Name:  "Plano Start",
		Price: 47.00,
		Features: Features{
			Support:    "Horário comercial (10h-18h)",
			MaxClients: LimitOf(15),
			Scheduling: true,
		},
	},
	{
		ID:    PlanPro,
		Name:  "Plano Pro",
		Price: 97.00,
		Features: Features{
			Support:    "Suporte 24 horas",
			MaxClients: LimitOf(65),
			Scheduling: true,
			Reminders:  true,
			Templates:  true,
		},
	},
	{
		ID:    PlanInfinity,
		Name:  "Plano Infinity",
		Price: 197.00,
		Features: Features{
			Support:    "Suporte 24h com prioridade",
			MaxClients: Unlimited,
			Scheduling: true,
			Reminders:  true,
			Templates:  true,
			Evolution:  true,
		},
	},
}

// Plans returns a copy of the catalog in tier order.
func Plans() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog[:])
	return out
}

func LookupPlan(id PlanID) (Plan, error) {
	for _, p := range catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, id)
}
