package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixture-tracker-backend/config"
	"fixture-tracker-backend/internal/health"
	"fixture-tracker-backend/internal/notification"
	"fixture-tracker-backend/internal/usage"
)

type stubUsage struct {
	out []usage.FixtureUsageSummary
	err error
}

func (s *stubUsage) FixtureUsageSummary(ctx context.Context) ([]usage.FixtureUsageSummary, error) {
	return s.out, s.err
}

type stubHealth struct {
	out []health.FixtureHealth
	err error
}

func (s *stubHealth) Summary(ctx context.Context) ([]health.FixtureHealth, error) {
	return s.out, s.err
}

type recorder struct {
	mu     sync.Mutex
	alerts []notification.Alert
}

func (r *recorder) Dispatch(ctx context.Context, a notification.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Monitor: config.MonitorConfig{Enabled: true, IntervalSeconds: 1, HealthScoreThreshold: 60},
		Push:    config.PushConfig{PublicKey: "pub", PrivateKey: "priv"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func summary(id string, status usage.Status) usage.FixtureUsageSummary {
	return usage.FixtureUsageSummary{FixtureID: id, FixtureName: "NV-" + id, Status: status, Notes: "Station mismatch"}
}

func fixtureIDs(alerts []notification.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.FixtureID
	}
	return out
}

func TestCheckOnce_UsageTransitions(t *testing.T) {
	u := &stubUsage{out: []usage.FixtureUsageSummary{summary("1", usage.StatusError), summary("2", usage.StatusTesting)}}
	rec := &recorder{}
	svc := NewService(testConfig(), u, &stubHealth{}, rec)

	assert.Empty(t, svc.CheckOnce(context.Background()), "first cycle only seeds state")

	u.out = []usage.FixtureUsageSummary{summary("1", usage.StatusError), summary("2", usage.StatusError), summary("3", usage.StatusError)}
	alerts := svc.CheckOnce(context.Background())
	assert.Equal(t, []string{"2", "3"}, fixtureIDs(alerts))
	assert.Equal(t, "Station mismatch", alerts[0].Body)

	assert.Empty(t, svc.CheckOnce(context.Background()), "still in error")

	u.out = []usage.FixtureUsageSummary{summary("2", usage.StatusTesting)}
	assert.Empty(t, svc.CheckOnce(context.Background()))
	u.out = []usage.FixtureUsageSummary{summary("2", usage.StatusError)}
	assert.Equal(t, []string{"2"}, fixtureIDs(svc.CheckOnce(context.Background())))

	assert.Equal(t, 3, rec.count())
}

func TestCheckOnce_HealthThreshold(t *testing.T) {
	h := &stubHealth{out: []health.FixtureHealth{
		{FixtureID: "a", FixtureName: "NV-A", HealthScore: 40},
		{FixtureID: "b", FixtureName: "NV-B", HealthScore: 60},
	}}
	svc := NewService(testConfig(), &stubUsage{}, h, &recorder{})

	assert.Equal(t, []string{"a"}, fixtureIDs(svc.CheckOnce(context.Background())), "first low reading alerts")
	assert.Empty(t, svc.CheckOnce(context.Background()))

	h.out = []health.FixtureHealth{
		{FixtureID: "a", HealthScore: 70},
		{FixtureID: "b", HealthScore: 59},
	}
	assert.Equal(t, []string{"b"}, fixtureIDs(svc.CheckOnce(context.Background())))

	h.out = []health.FixtureHealth{{FixtureID: "a", HealthScore: 10}}
	assert.Equal(t, []string{"a"}, fixtureIDs(svc.CheckOnce(context.Background())))
}

func TestCheckOnce_SourceErrorKeepsState(t *testing.T) {
	u := &stubUsage{out: []usage.FixtureUsageSummary{summary("1", usage.StatusTesting)}}
	svc := NewService(testConfig(), u, &stubHealth{err: errors.New("db down")}, &recorder{})

	svc.CheckOnce(context.Background())
	u.err = errors.New("db down")
	svc.CheckOnce(context.Background())

	u.err = nil
	u.out = []usage.FixtureUsageSummary{summary("1", usage.StatusError)}
	assert.Equal(t, []string{"1"}, fixtureIDs(svc.CheckOnce(context.Background())))
}

func TestRun_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Push.PrivateKey = ""
	svc := NewService(cfg, &stubUsage{}, &stubHealth{}, &recorder{})
	assert.False(t, svc.Enabled())

	done := make(chan struct{})
	go func() {
		svc.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately when disabled")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	h := &stubHealth{out: []health.FixtureHealth{{FixtureID: "a", HealthScore: 1}}}
	rec := &recorder{}
	svc := NewService(testConfig(), &stubUsage{}, h, rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
