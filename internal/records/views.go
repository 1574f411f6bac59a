package records

import (
	"mindcare/internal/calendar"
	"mindcare/internal/domain"
)

const (
	todayPreview  = 3
	recentClients = 3
	weekWindow    = 7
)

// Dashboard is the landing page summary.
type Dashboard struct {
	TotalClients       int                 `json:"totalClients"`
	TodaySessionsCount int                 `json:"todaySessionsCount"`
	TodaySessions      []domain.Session    `json:"todaySessions"`
	WeekSessions       int                 `json:"weekSessions"`
	MissedSessions     int                 `json:"missedSessions"`
	RecentClients      []domain.ClientView `json:"recentClients"`
}

// Dashboard computes the summary for today. Ages are derived here, not stored.
func (s State) Dashboard(today calendar.Date) Dashboard {
	d := Dashboard{TotalClients: len(s.Clients)}

	todays := filter(s.Sessions, func(x domain.Session) bool {
		return x.Date == today && x.Upcoming()
	})
	d.TodaySessionsCount = len(todays)
	if len(todays) > todayPreview {
		todays = todays[:todayPreview]
	}
	d.TodaySessions = todays

	weekStart := today.AddDays(-weekWindow)
	for _, x := range s.Sessions {
		if !x.Date.Before(weekStart) {
			d.WeekSessions++
		}
		if x.Status == domain.SessionNoShow {
			d.MissedSessions++
		}
	}

	for i := len(s.Clients) - 1; i >= 0 && len(d.RecentClients) < recentClients; i-- {
		d.RecentClients = append(d.RecentClients, s.Clients[i].View(today))
	}
	return d
}

// CalendarDay is one cell of the month view.
type CalendarDay struct {
	Date           calendar.Date    `json:"date"`
	InCurrentMonth bool             `json:"inCurrentMonth"`
	IsToday        bool             `json:"isToday"`
	Sessions       []domain.Session `json:"sessions"`
}

// CalendarMonth lays out anchor's month on the 42-day grid. Sessions are
// matched by calendar date so no timezone conversion can shift them.
func (s State) CalendarMonth(anchor, today calendar.Date) []CalendarDay {
	byDate := make(map[calendar.Date][]domain.Session)
	for _, x := range s.Sessions {
		byDate[x.Date] = append(byDate[x.Date], x)
	}

	grid := calendar.GenerateGrid(anchor)
	days := make([]CalendarDay, 0, len(grid))
	for _, d := range grid {
		days = append(days, CalendarDay{
			Date:           d,
			InCurrentMonth: d.SameMonth(anchor),
			IsToday:        d == today,
			Sessions:       byDate[d],
		})
	}
	return days
}
