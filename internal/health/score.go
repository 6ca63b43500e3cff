package health

import (
	"math"
	"time"

	"fixture-tracker-backend/internal/model"
)

// Inputs feeds ComputeHealthScore.
type Inputs struct {
	Uptime              int
	RecentStatus        string
	LastMaintenanceDays int
}

// CalculateUptime returns the share of active observations among active and
// no_response ones, as a whole percentage. Other statuses are ignored.
func CalculateUptime(events []model.HealthEvent) int {
	if len(events) == 0 {
		return 100
	}

	var active, total int
	for _, e := range events {
		switch e.Status {
		case model.HealthActive:
			active++
			total++
		case model.HealthNoResponse:
			total++
		}
	}
	if total == 0 {
		return 100
	}
	return roundHalfUp(float64(active) / float64(total) * 100)
}

// ComputeHealthScore starts from 100 and applies the uptime, status and
// maintenance-age penalties. The result is never negative.
func ComputeHealthScore(in Inputs) int {
	score := 100.0

	if in.Uptime < 95 {
		score -= float64(95-in.Uptime) * 0.8
	}
	if in.Uptime < 85 {
		score -= 10
	}

	switch in.RecentStatus {
	case model.HealthNoResponse:
		score -= 5
	case model.HealthUnderMaintenance:
		score -= 10
	case model.HealthRMA:
		score -= 50
	}

	if in.LastMaintenanceDays > 30 {
		score -= 5
	}
	if in.LastMaintenanceDays > 90 {
		score -= 10
	}
	if in.LastMaintenanceDays > 180 {
		score -= 20
	}

	return roundHalfUp(math.Max(score, 0))
}

// DaysSince counts whole days elapsed from t to now.
func DaysSince(now, t time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RecentStatus is the status of the newest event, or active when there is none.
func RecentStatus(events []model.HealthEvent) string {
	var newest *model.HealthEvent
	for i := range events {
		if newest == nil || events[i].CreateDate.After(newest.CreateDate) {
			newest = &events[i]
		}
	}
	if newest == nil {
		return model.HealthActive
	}
	return newest.Status
}

// LastMaintenance returns the latest start time among tickets that have one.
func LastMaintenance(events []model.MaintenanceEvent) (time.Time, bool) {
	var last time.Time
	found := false
	for _, m := range events {
		if m.StartDateTime == nil {
			continue
		}
		if !found || m.StartDateTime.After(last) {
			last = *m.StartDateTime
			found = true
		}
	}
	return last, found
}
