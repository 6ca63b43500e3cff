package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fixture-tracker-backend/config"
	"fixture-tracker-backend/internal/api"
	"fixture-tracker-backend/internal/db"
	"fixture-tracker-backend/internal/health"
	"fixture-tracker-backend/internal/hierarchy"
	"fixture-tracker-backend/internal/model"
	"fixture-tracker-backend/internal/mw"
	"fixture-tracker-backend/internal/store"
	"fixture-tracker-backend/internal/usage"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

// newTestEnv builds the full HTTP stack on a private in-memory sqlite database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			DSN:          fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", name),
			MaxOpenConns: 1,
		},
		Server: config.ServerConfig{
			RateLimitPerSec: 1000,
			RateLimitBurst:  1000,
		},
	}
	cfg.ApplyDefaults()

	gormDB, err := db.Init(&cfg.Database)
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	router := api.NewRouter(store.NewGormStore(gormDB), cfg, mw.NewMemoryStore(cfg.Server.CacheTTL), nil)
	return &testEnv{db: gormDB, router: router}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", "integration")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *testEnv) createFixture(t *testing.T, name, genType string) model.Fixture {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/fixtures", map[string]any{
		"fixture_name": name,
		"gen_type":     genType,
		"rack":         "R1",
		"test_type":    model.TestTypeSort,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.Fixture](t, w)
}

func (e *testEnv) createPart(t *testing.T, parentID, testerType string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/api/fixture-parts", map[string]any{
		"parent_fixture_id": parentID,
		"tester_type":       testerType,
		"fixture_sn":        "SN-" + testerType[:2],
	})
}

func candidateNames(cs []hierarchy.ParentCandidate) []string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, c.FixtureName)
	}
	return names
}

// TestSlotLifecycle walks a B Tester from empty to fully populated and checks
// which parents are offered for each slot along the way.
func TestSlotLifecycle(t *testing.T) {
	env := newTestEnv(t)

	bt := env.createFixture(t, "BT-01", model.GenTypeGen5BTester)
	env.createFixture(t, "BT-02", model.GenTypeGen3BTester)

	t.Run("both testers offered while empty", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/fixtures/available-parents?slot=LA", nil)
		require.Equal(t, http.StatusOK, w.Code)
		candidates := decode[[]hierarchy.ParentCandidate](t, w)
		assert.Equal(t, []string{"BT-01", "BT-02"}, candidateNames(candidates))
		assert.True(t, candidates[0].CanCreateLA)
		assert.True(t, candidates[0].CanCreateRA)
	})

	t.Run("LA part occupies the slot", func(t *testing.T) {
		w := env.createPart(t, bt.ID, model.TesterTypeLASlot)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		part := decode[model.FixturePart](t, w)
		assert.Equal(t, "integration", part.Creator)

		w = env.do(t, http.MethodGet, "/api/fixtures/available-parents?slot=LA", nil)
		assert.Equal(t, []string{"BT-02"}, candidateNames(decode[[]hierarchy.ParentCandidate](t, w)))

		w = env.do(t, http.MethodGet, "/api/fixtures/available-parents?slot=RA", nil)
		candidates := decode[[]hierarchy.ParentCandidate](t, w)
		require.Equal(t, []string{"BT-01", "BT-02"}, candidateNames(candidates))
		assert.False(t, candidates[0].CanCreateLA)
		assert.True(t, candidates[0].CanCreateRA)
	})

	t.Run("second LA part is rejected", func(t *testing.T) {
		w := env.createPart(t, bt.ID, model.TesterTypeLASlot)
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	t.Run("RA part fills the tester", func(t *testing.T) {
		w := env.createPart(t, bt.ID, model.TesterTypeRASlot)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		for _, slot := range []string{"LA", "RA"} {
			w = env.do(t, http.MethodGet, "/api/fixtures/available-parents?slot="+slot, nil)
			assert.Equal(t, []string{"BT-02"}, candidateNames(decode[[]hierarchy.ParentCandidate](t, w)))
		}
	})

	t.Run("third child of any type is rejected", func(t *testing.T) {
		w := env.createPart(t, bt.ID, model.GenTypeGen3BTester)
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		var children int64
		require.NoError(t, env.db.Model(&model.FixturePart{}).Where("parent_fixture_id = ?", bt.ID).Count(&children).Error)
		assert.Equal(t, int64(2), children)
	})

	t.Run("part under an unknown parent is rejected", func(t *testing.T) {
		w := env.createPart(t, uuid.NewString(), model.TesterTypeLASlot)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	t.Run("fixture with parts cannot be deleted", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/fixtures/"+bt.ID, nil)
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	t.Run("lowercase slot is invalid", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/fixtures/available-parents?slot=ra", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFixtureUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	f := env.createFixture(t, "BT-10", model.GenTypeGen3BTester)

	w := env.do(t, http.MethodPatch, "/api/fixtures/"+f.ID, map[string]any{"rack": "R9"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[struct {
		Message    string        `json:"message"`
		UpdatedRow model.Fixture `json:"updatedRow"`
	}](t, w)
	assert.Equal(t, "Fixture updated", updated.Message)
	assert.Equal(t, "R9", updated.UpdatedRow.Rack)
	assert.Equal(t, "BT-10", updated.UpdatedRow.FixtureName)

	w = env.do(t, http.MethodPatch, "/api/fixtures/"+uuid.NewString(), map[string]any{"rack": "R9"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/fixtures", map[string]any{"fixture_name": "BT-10", "gen_type": model.GenTypeGen5BTester})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = env.do(t, http.MethodDelete, "/api/fixtures/"+f.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"deletedRow"`)

	w = env.do(t, http.MethodGet, "/api/fixtures/"+f.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsageSummaryAndStatus(t *testing.T) {
	env := newTestEnv(t)

	finished := env.createFixture(t, "BT-A", model.GenTypeGen5BTester)
	running := env.createFixture(t, "BT-B", model.GenTypeGen5BTester)
	idle := env.createFixture(t, "BT-C", model.GenTypeGen3BTester)
	for i := 0; i < 7; i++ {
		env.createFixture(t, fmt.Sprintf("BT-X%d", i), model.GenTypeGen3BTester)
	}

	parts := make(map[string]string)
	for _, f := range []model.Fixture{finished, running} {
		for _, tt := range []string{model.TesterTypeLASlot, model.TesterTypeRASlot} {
			w := env.createPart(t, f.ID, tt)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			parts[f.FixtureName+"/"+tt] = decode[model.FixturePart](t, w).ID
		}
	}

	base := time.Now().UTC().Add(-6 * time.Hour).Truncate(time.Second)
	rows := []model.Usage{
		// older run on a different station is superseded
		{FixturePartID: parts["BT-A/LA Slot"], TestSlot: "LA", TestStation: "FCT", TestType: model.TestTypeSort, GPUPN: "900-1", GPUSN: "A1", CreateDate: base},
		{FixturePartID: parts["BT-A/LA Slot"], TestSlot: "LA", TestStation: "ASSY2", TestType: model.TestTypeSort, GPUPN: "900-1", GPUSN: "A1", CreateDate: base.Add(time.Hour)},
		{FixturePartID: parts["BT-A/RA Slot"], TestSlot: "RA", TestStation: "ASSY2", TestType: model.TestTypeSort, GPUPN: "900-1", GPUSN: "A2", CreateDate: base.Add(time.Hour)},
		{FixturePartID: parts["BT-B/LA Slot"], TestSlot: "LA", TestStation: "BAT", TestType: model.TestTypeSort, GPUPN: "900-2", GPUSN: "B1", CreateDate: base.Add(2 * time.Hour)},
		{FixturePartID: parts["BT-B/RA Slot"], TestSlot: "RA", TestStation: "BAT", TestType: model.TestTypeSort, GPUPN: "900-2", GPUSN: "B2", CreateDate: base.Add(2 * time.Hour)},
	}
	require.NoError(t, env.db.Create(&rows).Error)

	start := base.Add(-48 * time.Hour)
	open := []model.MaintenanceEvent{
		{FixtureID: idle.ID, EventType: model.EventTypeEmergency, StartDateTime: &start},
		{FixtureID: running.ID, EventType: model.EventTypeScheduled, StartDateTime: &start},
		{FixtureID: finished.ID, EventType: model.EventTypeScheduled, StartDateTime: &start},
		{FixtureID: finished.ID, EventType: model.EventTypeScheduled, StartDateTime: &start, IsCompleted: true},
	}
	require.NoError(t, env.db.Create(&open).Error)

	t.Run("summary classifies each fixture", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/usage/summary", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		summaries := decode[[]usage.FixtureUsageSummary](t, w)
		require.Len(t, summaries, 10)

		byName := make(map[string]usage.FixtureUsageSummary)
		for _, s := range summaries {
			byName[s.FixtureName] = s
		}
		assert.Equal(t, usage.StatusFinished, byName["BT-A"].Status)
		assert.Equal(t, usage.StatusTesting, byName["BT-B"].Status)
		assert.Equal(t, "Running BAT", byName["BT-B"].Notes)
		assert.Equal(t, usage.StatusIdle, byName["BT-C"].Status)
		require.NotNil(t, byName["BT-A"].Slots.LA)
		assert.Equal(t, "ASSY2", byName["BT-A"].Slots.LA.TestStation)
	})

	t.Run("summary is stable across reads", func(t *testing.T) {
		first := env.do(t, http.MethodGet, "/api/usage/summary", nil)
		second := env.do(t, http.MethodGet, "/api/usage/summary", nil)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	})

	t.Run("status counts open tickets", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/usage/status", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"total_fixture":10,"working_fixtures":7,"under_maintenance":3}`, w.Body.String())
	})

	t.Run("station summary for a range", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/usage/station-summary?range=1d", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		stats := decode[[]usage.StationStats](t, w)
		require.Len(t, stats, 3)
		assert.Equal(t, "ASSY2", stats[0].TestStation)
	})

	t.Run("usage row on an unknown part is rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/usage", map[string]any{
			"fixture_part_id": uuid.NewString(),
			"test_slot":       "LA",
			"test_type":       model.TestTypeSort,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	t.Run("part with usage cannot be deleted", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/fixture-parts/"+parts["BT-A/LA Slot"], nil)
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})
}

func TestHealthSummary(t *testing.T) {
	env := newTestEnv(t)

	flaky := env.createFixture(t, "BT-H1", model.GenTypeGen5BTester)
	quiet := env.createFixture(t, "BT-H2", model.GenTypeGen5BTester)

	for i := 0; i < 4; i++ {
		status := model.HealthActive
		if i == 3 {
			status = model.HealthNoResponse
		}
		w := env.do(t, http.MethodPost, "/api/health", map[string]any{
			"fixture_id": flaky.ID,
			"status":     status,
			"comments":   "<i>probe</i>",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "probe", decode[model.HealthEvent](t, w).Comments)
		time.Sleep(2 * time.Millisecond)
	}

	w := env.do(t, http.MethodGet, "/api/health/summary", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := decode[[]health.FixtureHealth](t, w)
	require.Len(t, summary, 2)

	byID := make(map[string]health.FixtureHealth)
	for _, s := range summary {
		byID[s.FixtureID] = s
	}
	assert.Equal(t, model.HealthNoResponse, byID[flaky.ID].RecentStatus)
	assert.Equal(t, 75, byID[flaky.ID].UptimePercentage)
	assert.Equal(t, 0, byID[flaky.ID].LastMaintenanceDays)

	assert.Equal(t, model.HealthActive, byID[quiet.ID].RecentStatus)
	assert.Equal(t, 100, byID[quiet.ID].UptimePercentage)
	assert.Equal(t, 100, byID[quiet.ID].HealthScore)

	w = env.do(t, http.MethodGet, "/api/health/summary/"+flaky.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, byID[flaky.ID], decode[health.FixtureHealth](t, w))

	missing := uuid.NewString()
	w = env.do(t, http.MethodGet, "/api/health/summary/"+missing, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"No health data found for fixture: `+missing+`"}`, w.Body.String())

	w = env.do(t, http.MethodDelete, "/api/fixtures/"+flaky.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}
