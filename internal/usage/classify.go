package usage

import (
	"time"

	"fixture-tracker-backend/internal/model"
	"fixture-tracker-backend/internal/parse"
)

// Status is the composite state of a fixture's two slots.
type Status string

const (
	StatusIdle     Status = "Idle"
	StatusPartial  Status = "Partial"
	StatusInactive Status = "Inactive"
	StatusError    Status = "Error"
	StatusFinished Status = "Finished"
	StatusTesting  Status = "Testing"
)

// FinalStation is the station whose runs count as finished testing.
const FinalStation = "ASSY2"

// SlotUsage is the current state of one slot part.
type SlotUsage struct {
	FixturePartID string     `json:"fixture_part_id"`
	FixtureSN     string     `json:"fixture_sn"`
	TestStation   string     `json:"test_station"`
	TestType      string     `json:"test_type"`
	GPUPN         string     `json:"gpu_pn"`
	GPUSN         string     `json:"gpu_sn"`
	LogPath       string     `json:"log_path"`
	CreateDate    *time.Time `json:"create_date"`
}

// Slots holds the LA and RA state; a nil slot has no part.
type Slots struct {
	LA *SlotUsage `json:"LA"`
	RA *SlotUsage `json:"RA"`
}

// FixtureUsageSummary is the per-fixture usage view.
type FixtureUsageSummary struct {
	FixtureID   string `json:"fixture_id"`
	FixtureName string `json:"fixture_name"`
	Slots       Slots  `json:"slots"`
	Status      Status `json:"status"`
	Notes       string `json:"notes"`
}

// IsEmpty reports whether a slot has no unit loaded: no GPU part, serial or station.
func IsEmpty(s *SlotUsage) bool {
	return s.GPUPN == "" && s.GPUSN == "" && s.TestStation == ""
}

// Classify applies the status rules in order; the first match wins.
func Classify(la, ra *SlotUsage) (Status, string) {
	if la == nil && ra == nil {
		return StatusIdle, "No units inserted"
	}
	if la == nil || ra == nil {
		return StatusPartial, "Only one active unit"
	}

	laEmpty, raEmpty := IsEmpty(la), IsEmpty(ra)
	if laEmpty && raEmpty {
		return StatusInactive, "Both slots empty"
	}
	if laEmpty || raEmpty {
		return StatusPartial, "One slot empty"
	}

	if la.GPUPN != ra.GPUPN {
		return StatusError, "Part number mismatch"
	}
	if la.TestStation != ra.TestStation {
		return StatusError, "Station mismatch"
	}

	station := parse.NormalizeStation(la.TestStation)
	if station == FinalStation {
		return StatusFinished, "Testing complete"
	}
	return StatusTesting, "Running " + station
}

// BuildSummaries merges fixtures, their parts and the latest usage per part.
// fixtures must already be in output order. Parts whose parent is unknown and
// usage for unknown parts are ignored.
func BuildSummaries(fixtures []model.Fixture, parts []model.FixturePart, latest map[string]model.Usage) []FixtureUsageSummary {
	index := make(map[string]int, len(fixtures))
	out := make([]FixtureUsageSummary, len(fixtures))
	for i, f := range fixtures {
		index[f.ID] = i
		out[i] = FixtureUsageSummary{FixtureID: f.ID, FixtureName: f.FixtureName}
	}

	for _, p := range parts {
		i, ok := index[p.ParentFixtureID]
		if !ok {
			continue
		}
		slot := slotUsage(p, latest)
		switch p.TesterType {
		case model.TesterTypeLASlot:
			out[i].Slots.LA = slot
		case model.TesterTypeRASlot:
			out[i].Slots.RA = slot
		}
	}

	for i := range out {
		out[i].Status, out[i].Notes = Classify(out[i].Slots.LA, out[i].Slots.RA)
	}
	return out
}

func slotUsage(p model.FixturePart, latest map[string]model.Usage) *SlotUsage {
	s := &SlotUsage{FixturePartID: p.ID, FixtureSN: p.FixtureSN}
	u, ok := latest[p.ID]
	if !ok {
		return s
	}
	created := u.CreateDate
	s.TestStation = u.TestStation
	s.TestType = u.TestType
	s.GPUPN = u.GPUPN
	s.GPUSN = u.GPUSN
	s.LogPath = u.LogPath
	s.CreateDate = &created
	return s
}

// LatestByPart keeps the newest usage row per part; ties go to the greater id.
func LatestByPart(rows []model.Usage) map[string]model.Usage {
	latest := make(map[string]model.Usage, len(rows))
	for _, u := range rows {
		cur, ok := latest[u.FixturePartID]
		if !ok || u.CreateDate.After(cur.CreateDate) ||
			(u.CreateDate.Equal(cur.CreateDate) && u.ID > cur.ID) {
			latest[u.FixturePartID] = u
		}
	}
	return latest
}
