package usage

import (
	"sort"
	"time"

	"fixture-tracker-backend/internal/model"
)

// StationStats summarises the runs logged at one station inside a window.
type StationStats struct {
	TestStation   string    `json:"test_station"`
	TotalRuns     int       `json:"total_runs"`
	LARuns        int       `json:"la_runs"`
	RARuns        int       `json:"ra_runs"`
	RefurbishRuns int       `json:"refurbish_runs"`
	SortRuns      int       `json:"sort_runs"`
	DebugRuns     int       `json:"debug_runs"`
	FirstRun      time.Time `json:"first_run"`
	LastRun       time.Time `json:"last_run"`
}

// WeeklyActivity is the run count for one station in one week.
type WeeklyActivity struct {
	Week        time.Time `json:"week"`
	TestStation string    `json:"test_station"`
	Count       int       `json:"count"`
}

// AggregateStations groups usage rows by station, ordered by station name.
func AggregateStations(rows []model.Usage) []StationStats {
	byStation := make(map[string]*StationStats)
	for _, u := range rows {
		st, ok := byStation[u.TestStation]
		if !ok {
			st = &StationStats{TestStation: u.TestStation, FirstRun: u.CreateDate, LastRun: u.CreateDate}
			byStation[u.TestStation] = st
		}

		st.TotalRuns++
		switch u.TestSlot {
		case model.SlotLA:
			st.LARuns++
		case model.SlotRA:
			st.RARuns++
		}
		switch u.TestType {
		case model.TestTypeRefurbish:
			st.RefurbishRuns++
		case model.TestTypeSort:
			st.SortRuns++
		case model.TestTypeDebug:
			st.DebugRuns++
		}
		if u.CreateDate.Before(st.FirstRun) {
			st.FirstRun = u.CreateDate
		}
		if u.CreateDate.After(st.LastRun) {
			st.LastRun = u.CreateDate
		}
	}

	out := make([]StationStats, 0, len(byStation))
	for _, st := range byStation {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestStation < out[j].TestStation })
	return out
}

// WeekStart truncates t to Monday 00:00 UTC of its week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// AggregateWeekly counts runs per (week, station), skipping rows without a station.
func AggregateWeekly(rows []model.Usage) []WeeklyActivity {
	type key struct {
		week    time.Time
		station string
	}
	counts := make(map[key]int)
	for _, u := range rows {
		if u.TestStation == "" {
			continue
		}
		counts[key{WeekStart(u.CreateDate), u.TestStation}]++
	}

	out := make([]WeeklyActivity, 0, len(counts))
	for k, n := range counts {
		out = append(out, WeeklyActivity{Week: k.week, TestStation: k.station, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Week.Equal(out[j].Week) {
			return out[i].Week.Before(out[j].Week)
		}
		return out[i].TestStation < out[j].TestStation
	})
	return out
}
