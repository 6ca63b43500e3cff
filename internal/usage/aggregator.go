// Package usage turns fixtures, fixture parts and usage records into per-fixture
// slot status and per-station run statistics.
package usage

import (
	"context"
	"fmt"
	"time"

	"fixture-tracker-backend/internal/model"
	"fixture-tracker-backend/internal/parse"
)

// DefaultWeeklyDays is the lookback of the weekly activity feed.
const DefaultWeeklyDays = 30

// Reader is the read side of the store the aggregator needs.
type Reader interface {
	ListFixtures(ctx context.Context) ([]model.Fixture, error)
	ListParts(ctx context.Context) ([]model.FixturePart, error)
	ListLatestUsage(ctx context.Context) ([]model.Usage, error)
	ListUsageSince(ctx context.Context, since time.Time) ([]model.Usage, error)
	CountFixtures(ctx context.Context) (int64, error)
	CountOpenMaintenance(ctx context.Context) (int64, error)
}

// UsageStatus is the fleet-level maintenance headline.
type UsageStatus struct {
	TotalFixture     int64 `json:"total_fixture"`
	WorkingFixtures  int64 `json:"working_fixtures"`
	UnderMaintenance int64 `json:"under_maintenance"`
}

// Aggregator answers usage summary queries.
type Aggregator struct {
	reader Reader
	now    func() time.Time
}

// NewAggregator creates an aggregator over reader.
func NewAggregator(reader Reader) *Aggregator {
	return &Aggregator{reader: reader, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// FixtureUsageSummary returns one composite status per fixture, ordered by fixture name.
func (a *Aggregator) FixtureUsageSummary(ctx context.Context) ([]FixtureUsageSummary, error) {
	fixtures, err := a.reader.ListFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	parts, err := a.reader.ListParts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixture parts: %w", err)
	}
	rows, err := a.reader.ListLatestUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest usage: %w", err)
	}

	return BuildSummaries(fixtures, parts, LatestByPart(rows)), nil
}

// FixtureUsageStatus counts fixtures and open maintenance tickets.
// UnderMaintenance is a ticket count, so a fixture with two open tickets counts twice.
func (a *Aggregator) FixtureUsageStatus(ctx context.Context) (UsageStatus, error) {
	total, err := a.reader.CountFixtures(ctx)
	if err != nil {
		return UsageStatus{}, fmt.Errorf("failed to count fixtures: %w", err)
	}
	open, err := a.reader.CountOpenMaintenance(ctx)
	if err != nil {
		return UsageStatus{}, fmt.Errorf("failed to count open maintenance: %w", err)
	}

	return UsageStatus{
		TotalFixture:     total,
		WorkingFixtures:  total - open,
		UnderMaintenance: open,
	}, nil
}

// StationSummary aggregates runs per station over a range such as "7d" or "24h".
func (a *Aggregator) StationSummary(ctx context.Context, rangeText string) ([]StationStats, error) {
	since := a.now().UTC().Add(-parse.ParseRange(rangeText))
	rows, err := a.reader.ListUsageSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage since %s: %w", since.Format(time.RFC3339), err)
	}
	return AggregateStations(rows), nil
}

// WeeklyStationActivity counts runs per week and station over the last days days.
func (a *Aggregator) WeeklyStationActivity(ctx context.Context, days int) ([]WeeklyActivity, error) {
	if days <= 0 {
		days = DefaultWeeklyDays
	}
	since := a.now().UTC().AddDate(0, 0, -days)
	rows, err := a.reader.ListUsageSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage since %s: %w", since.Format(time.RFC3339), err)
	}
	return AggregateWeekly(rows), nil
}
