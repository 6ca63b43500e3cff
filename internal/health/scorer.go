// Package health scores fixtures from their status history and maintenance record.
package health

import (
	"context"
	"fmt"
	"time"

	"fixture-tracker-backend/internal/model"
)

// Reader is the read side of the store the scorer needs.
// FindFixture returns (nil, nil) when the fixture does not exist.
type Reader interface {
	ListFixtures(ctx context.Context) ([]model.Fixture, error)
	FindFixture(ctx context.Context, id string) (*model.Fixture, error)
	ListHealthEvents(ctx context.Context, fixtureID string) ([]model.HealthEvent, error)
	ListMaintenanceEvents(ctx context.Context, fixtureID string) ([]model.MaintenanceEvent, error)
}

// FixtureHealth is one fixture's score card.
type FixtureHealth struct {
	FixtureID           string `json:"fixture_id"`
	FixtureName         string `json:"fixture_name"`
	RecentStatus        string `json:"recent_status"`
	UptimePercentage    int    `json:"uptime_percentage"`
	LastMaintenanceDays int    `json:"last_maintenance_days"`
	HealthScore         int    `json:"health_score"`
}

// Scorer computes FixtureHealth records.
type Scorer struct {
	reader Reader
	Now    func() time.Time
}

// NewScorer creates a scorer over reader using the wall clock.
func NewScorer(reader Reader) *Scorer {
	return &Scorer{reader: reader, Now: time.Now}
}

// Summary scores every fixture, preserving the reader's fixture order.
func (s *Scorer) Summary(ctx context.Context) ([]FixtureHealth, error) {
	fixtures, err := s.reader.ListFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	events, err := s.reader.ListHealthEvents(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list health events: %w", err)
	}
	tickets, err := s.reader.ListMaintenanceEvents(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance events: %w", err)
	}

	eventsByFixture := make(map[string][]model.HealthEvent)
	for _, e := range events {
		eventsByFixture[e.FixtureID] = append(eventsByFixture[e.FixtureID], e)
	}
	ticketsByFixture := make(map[string][]model.MaintenanceEvent)
	for _, m := range tickets {
		ticketsByFixture[m.FixtureID] = append(ticketsByFixture[m.FixtureID], m)
	}

	now := s.Now()
	out := make([]FixtureHealth, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, Summarize(f, eventsByFixture[f.ID], ticketsByFixture[f.ID], now))
	}
	return out, nil
}

// SummaryByID scores a single fixture. It returns (nil, nil) for an unknown id.
func (s *Scorer) SummaryByID(ctx context.Context, fixtureID string) (*FixtureHealth, error) {
	f, err := s.reader.FindFixture(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture %s: %w", fixtureID, err)
	}
	if f == nil {
		return nil, nil
	}

	events, err := s.reader.ListHealthEvents(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list health events for %s: %w", fixtureID, err)
	}
	tickets, err := s.reader.ListMaintenanceEvents(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance events for %s: %w", fixtureID, err)
	}

	h := Summarize(*f, events, tickets, s.Now())
	return &h, nil
}

// Summarize builds the score card for one fixture from its own events.
func Summarize(f model.Fixture, events []model.HealthEvent, tickets []model.MaintenanceEvent, now time.Time) FixtureHealth {
	uptime := CalculateUptime(events)
	status := RecentStatus(events)

	days := 0
	if last, ok := LastMaintenance(tickets); ok {
		days = DaysSince(now, last)
	}

	return FixtureHealth{
		FixtureID:           f.ID,
		FixtureName:         f.FixtureName,
		RecentStatus:        status,
		UptimePercentage:    uptime,
		LastMaintenanceDays: days,
		HealthScore: ComputeHealthScore(Inputs{
			Uptime:              uptime,
			RecentStatus:        status,
			LastMaintenanceDays: days,
		}),
	}
}
