package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fixture-tracker-backend/internal/model"
)

func events(statuses ...string) []model.HealthEvent {
	out := make([]model.HealthEvent, len(statuses))
	for i, s := range statuses {
		out[i] = model.HealthEvent{Status: s}
	}
	return out
}

func repeat(status string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = status
	}
	return out
}

func TestCalculateUptime(t *testing.T) {
	assert.Equal(t, 100, CalculateUptime(nil))

	mixed := append(repeat(model.HealthActive, 8), repeat(model.HealthNoResponse, 2)...)
	assert.Equal(t, 80, CalculateUptime(events(mixed...)))

	assert.Equal(t, 100, CalculateUptime(events(model.HealthRMA, model.HealthUnderMaintenance)))
	assert.Equal(t, 67, CalculateUptime(events(model.HealthActive, model.HealthActive, model.HealthNoResponse, model.HealthRMA)))
	assert.Equal(t, 0, CalculateUptime(events(model.HealthNoResponse)))
}

func TestComputeHealthScore(t *testing.T) {
	testCases := []struct {
		name string
		in   Inputs
		want int
	}{
		{name: "perfect", in: Inputs{Uptime: 100, RecentStatus: model.HealthActive}, want: 100},
		{name: "everything wrong clamps to zero", in: Inputs{Uptime: 80, RecentStatus: model.HealthRMA, LastMaintenanceDays: 200}, want: 0},
		{name: "small uptime penalty rounds", in: Inputs{Uptime: 94, RecentStatus: model.HealthActive}, want: 99},
		{name: "uptime below 85 adds flat penalty", in: Inputs{Uptime: 80, RecentStatus: model.HealthActive}, want: 78},
		{name: "no response", in: Inputs{Uptime: 100, RecentStatus: model.HealthNoResponse}, want: 95},
		{name: "under maintenance", in: Inputs{Uptime: 100, RecentStatus: model.HealthUnderMaintenance}, want: 90},
		{name: "maintenance tiers accumulate", in: Inputs{Uptime: 100, LastMaintenanceDays: 91}, want: 85},
		{name: "30 days is not overdue", in: Inputs{Uptime: 100, LastMaintenanceDays: 30}, want: 100},
		{name: "181 days", in: Inputs{Uptime: 100, LastMaintenanceDays: 181}, want: 65},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeHealthScore(tc.in))
		})
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysSince(now, now.Add(-23*time.Hour)))
	assert.Equal(t, 1, DaysSince(now, now.Add(-25*time.Hour)))
	assert.Equal(t, 31, DaysSince(now, now.AddDate(0, 0, -31)))
}

func TestRecentStatus(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, model.HealthActive, RecentStatus(nil))

	evs := []model.HealthEvent{
		{Status: model.HealthNoResponse, CreateDate: t0},
		{Status: model.HealthRMA, CreateDate: t0.Add(time.Hour)},
		{Status: model.HealthActive, CreateDate: t0.Add(-time.Hour)},
	}
	assert.Equal(t, model.HealthRMA, RecentStatus(evs))
}

func TestLastMaintenance(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	later := t0.Add(48 * time.Hour)

	_, ok := LastMaintenance([]model.MaintenanceEvent{{}})
	assert.False(t, ok)

	last, ok := LastMaintenance([]model.MaintenanceEvent{
		{StartDateTime: &t0},
		{},
		{StartDateTime: &later},
	})
	assert.True(t, ok)
	assert.Equal(t, later, last)
}
