package application

import (
	"time"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
)

// DefaultTrendDays is the signup chart window.
const DefaultTrendDays = 7

type StatusStat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type SignupPoint struct {
	Date    string    `json:"date"`
	Day     time.Time `json:"day"`
	Signups int       `json:"signups"`
}

type Summary struct {
	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
	NewSignups  int `json:"new_signups"`
	WindowDays  int `json:"window_days"`
}

// StatusStats returns the status distribution, Active first.
func StatusStats(users []entity.User) []StatusStat {
	var active, inactive int
	for _, u := range users {
		switch u.Status {
		case entity.StatusActive:
			active++
		case entity.StatusInactive:
			inactive++
		}
	}
	return []StatusStat{
		{Name: string(entity.StatusActive), Value: active, Color: "#10b981"},
		{Name: string(entity.StatusInactive), Value: inactive, Color: "#ef4444"},
	}
}

// SignupTrend counts signups per UTC day for the last days days, ending
// with now's day, oldest first.
func SignupTrend(users []entity.User, now time.Time, days int) []SignupPoint {
	if days <= 0 {
		days = DefaultTrendDays
	}
	today := utcDay(now)
	first := today.AddDate(0, 0, -(days - 1))

	points := make([]SignupPoint, days)
	for i := range points {
		d := first.AddDate(0, 0, i)
		points[i] = SignupPoint{Date: d.Format("Jan 2"), Day: d}
	}
	for _, u := range users {
		d := utcDay(u.CreatedAt)
		if d.Before(first) || d.After(today) {
			continue
		}
		idx := int(d.Sub(first).Hours() / 24)
		points[idx].Signups++
	}
	return points
}

func Summarize(users []entity.User, now time.Time, days int) Summary {
	if days <= 0 {
		days = DefaultTrendDays
	}
	s := Summary{TotalUsers: len(users), WindowDays: days}
	for _, st := range StatusStats(users) {
		if st.Name == string(entity.StatusActive) {
			s.ActiveUsers = st.Value
		}
	}
	for _, p := range SignupTrend(users, now, days) {
		s.NewSignups += p.Signups
	}
	return s
}

func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
