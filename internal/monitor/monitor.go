// Package monitor periodically re-evaluates fixture usage and health and raises
// push alerts when a fixture goes bad.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fixture-tracker-backend/config"
	"fixture-tracker-backend/internal/health"
	"fixture-tracker-backend/internal/notification"
	"fixture-tracker-backend/internal/usage"
)

// UsageSource yields the per-fixture usage summary.
type UsageSource interface {
	FixtureUsageSummary(ctx context.Context) ([]usage.FixtureUsageSummary, error)
}

// HealthSource yields the per-fixture health summary.
type HealthSource interface {
	Summary(ctx context.Context) ([]health.FixtureHealth, error)
}

// Dispatcher queues alerts for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert notification.Alert)
}

// Service owns the last observed status and score of every fixture.
// It is not safe for concurrent use; Run drives it from a single goroutine.
type Service struct {
	cfg    *config.Config
	usage  UsageSource
	health HealthSource
	alerts Dispatcher
	log    *slog.Logger

	seeded     bool
	lastStatus map[string]usage.Status
	lastScore  map[string]int
}

// NewService creates a monitor. Nothing runs until Run is called.
func NewService(cfg *config.Config, u UsageSource, h HealthSource, alerts Dispatcher) *Service {
	return &Service{
		cfg:        cfg,
		usage:      u,
		health:     h,
		alerts:     alerts,
		log:        slog.With("component", "monitor"),
		lastStatus: make(map[string]usage.Status),
		lastScore:  make(map[string]int),
	}
}

// Enabled reports whether the monitor is switched on and alerts can be delivered.
func (s *Service) Enabled() bool {
	return s.cfg.Monitor.Enabled && s.cfg.Push.Enabled()
}

// Run checks the fleet every monitor interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.Enabled() {
		s.log.Info("monitor is disabled, not starting")
		return
	}
	s.log.Info("starting monitor", "interval", s.cfg.Monitor.Interval)

	s.CheckOnce(ctx)

	timer := time.NewTimer(s.cfg.Monitor.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("monitor shutting down")
			return
		case <-timer.C:
			s.CheckOnce(ctx)
			timer.Reset(s.cfg.Monitor.Interval)
		}
	}
}

// CheckOnce runs one evaluation cycle, dispatches any alerts and returns them.
// A failing source skips its half of the cycle and leaves its state untouched.
func (s *Service) CheckOnce(ctx context.Context) []notification.Alert {
	var alerts []notification.Alert

	summaries, err := s.usage.FixtureUsageSummary(ctx)
	if err != nil {
		s.log.Error("failed to compute usage summary", "err", err)
	} else {
		alerts = append(alerts, s.checkUsage(summaries)...)
	}

	scores, err := s.health.Summary(ctx)
	if err != nil {
		s.log.Error("failed to compute health summary", "err", err)
	} else {
		alerts = append(alerts, s.checkHealth(scores)...)
	}

	if len(alerts) > 0 {
		s.log.Info("dispatching alerts", "count", len(alerts))
	}
	for _, a := range alerts {
		s.alerts.Dispatch(ctx, a)
	}
	return alerts
}

// checkUsage alerts on transitions into Error. The first call only records state.
func (s *Service) checkUsage(summaries []usage.FixtureUsageSummary) []notification.Alert {
	var alerts []notification.Alert
	seen := make(map[string]usage.Status, len(summaries))

	for _, sum := range summaries {
		seen[sum.FixtureID] = sum.Status
		if !s.seeded || sum.Status != usage.StatusError {
			continue
		}
		if prev, ok := s.lastStatus[sum.FixtureID]; ok && prev == usage.StatusError {
			continue
		}
		alerts = append(alerts, notification.Alert{
			FixtureID:   sum.FixtureID,
			FixtureName: sum.FixtureName,
			Title:       fmt.Sprintf("Fixture %s error", sum.FixtureName),
			Body:        sum.Notes,
		})
	}

	s.lastStatus = seen
	s.seeded = true
	return alerts
}

// checkHealth alerts when a score drops below the threshold, including a first low reading.
func (s *Service) checkHealth(scores []health.FixtureHealth) []notification.Alert {
	threshold := s.cfg.Monitor.HealthScoreThreshold
	var alerts []notification.Alert
	seen := make(map[string]int, len(scores))

	for _, h := range scores {
		seen[h.FixtureID] = h.HealthScore
		if h.HealthScore >= threshold {
			continue
		}
		if prev, ok := s.lastScore[h.FixtureID]; ok && prev < threshold {
			continue
		}
		alerts = append(alerts, notification.Alert{
			FixtureID:   h.FixtureID,
			FixtureName: h.FixtureName,
			Title:       fmt.Sprintf("Fixture %s health is low", h.FixtureName),
			Body:        fmt.Sprintf("Health score %d (status %s, uptime %d%%)", h.HealthScore, h.RecentStatus, h.UptimePercentage),
		})
	}

	s.lastScore = seen
	return alerts
}
