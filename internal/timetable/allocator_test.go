/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package timetable

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
)

func newTestAllocator(t *testing.T, grid *Grid, commitments []Commitment, seed int64) *Allocator {
	t.Helper()
	return NewAllocator(grid, commitments, rand.New(rand.NewSource(seed)), zerolog.Nop())
}

// activitySlots counts slots on one day that carry a session marker for name.
func activitySlots(g *Grid, day Day, name string) int {
	count := 0
	for i := 0; i < g.SlotCount(); i++ {
		if cellHoldsActivity(g.Cell(day, i), name) {
			count++
		}
	}
	return count
}

// longestRun returns the longest contiguous slot run of one activity on a day.
func longestRun(g *Grid, day Day, name string) int {
	longest, current := 0, 0
	for i := 0; i < g.SlotCount(); i++ {
		if cellHoldsActivity(g.Cell(day, i), name) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

// assertNoMixedCells fails when a cell mixes a commitment with activity
// markers, or markers of two different activities.
func assertNoMixedCells(t *testing.T, g *Grid) {
	t.Helper()
	for _, day := range Days {
		for i := 0; i < g.SlotCount(); i++ {
			cell := g.Cell(day, i)
			hasCommitment := false
			activityName := ""
			for _, occ := range cell {
				switch occ.Kind {
				case OccupantCommitment:
					hasCommitment = true
				default:
					if activityName == "" {
						activityName = occ.Name
					} else if activityName != occ.Name {
						t.Fatalf("cell (%s, %02d:00) mixes activities %q and %q", day, g.SlotHour(i), activityName, occ.Name)
					}
				}
			}
			if hasCommitment && activityName != "" {
				t.Fatalf("cell (%s, %02d:00) mixes commitment and activity %q", day, g.SlotHour(i), activityName)
			}
		}
	}
}

func TestDailyPlacesOneSessionPerDay(t *testing.T) {
	g := NewGrid(7, 22)
	alloc := newTestAllocator(t, g, nil, 1)

	reports := alloc.Allocate([]Activity{{
		Name:            "Gym",
		DurationHours:   2,
		Frequency:       FrequencyDaily,
		MinSessionHours: 1,
		MaxSessionHours: 2,
		PreferredTime:   PreferAny,
	}})

	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	report := reports[0]

	if report.RequestedHours != 14 {
		t.Errorf("RequestedHours = %v, want 14", report.RequestedHours)
	}
	if report.PlacedHours != 14 {
		t.Errorf("PlacedHours = %v, want 14", report.PlacedHours)
	}
	if len(report.Sessions) != 7 {
		t.Fatalf("placed %d sessions, want 7", len(report.Sessions))
	}

	for _, day := range Days {
		if got := activitySlots(g, day, "Gym"); got != 2 {
			t.Errorf("day %s has %d Gym slots, want 2", day, got)
		}
		starts := 0
		for i := 0; i < g.SlotCount(); i++ {
			for _, occ := range g.Cell(day, i) {
				if occ.Kind == OccupantSessionStart {
					starts++
					if occ.Ordinal != 0 {
						t.Errorf("daily session carries ordinal %d, want 0", occ.Ordinal)
					}
				}
			}
		}
		if starts != 1 {
			t.Errorf("day %s has %d session starts, want 1", day, starts)
		}
	}
}

func TestDailyClampsDurationToSessionBounds(t *testing.T) {
	g := NewGrid(7, 22)
	alloc := newTestAllocator(t, g, nil, 3)

	reports := alloc.Allocate([]Activity{{
		Name:            "Reading",
		DurationHours:   5, // above the max session; clamps to 1.5h per day
		Frequency:       FrequencyDaily,
		MinSessionHours: 0.5,
		MaxSessionHours: 1.5,
		PreferredTime:   PreferAny,
	}})

	report := reports[0]
	for _, session := range report.Sessions {
		if session.Hours != 1.5 {
			t.Errorf("session hours = %v, want 1.5", session.Hours)
		}
	}
	for _, day := range Days {
		if got := activitySlots(g, day, "Reading"); got != 2 {
			t.Errorf("day %s has %d slots, want ceil(1.5) = 2", day, got)
		}
	}
}

func TestDailySkipsFullyBookedDays(t *testing.T) {
	// Monday is solid commitments; every other day is open.
	busy := []Commitment{{
		Name:      "Conference",
		Intervals: []Interval{{Day: Monday, Start: "07:00", End: "22:00"}},
	}}
	g := NewGrid(7, 22)
	g.PlaceCommitments(busy)
	alloc := newTestAllocator(t, g, busy, 7)

	reports := alloc.Allocate([]Activity{{
		Name:            "Practice",
		DurationHours:   2,
		Frequency:       FrequencyDaily,
		MinSessionHours: 2,
		MaxSessionHours: 2,
		PreferredTime:   PreferAny,
	}})

	report := reports[0]
	if got := activitySlots(g, Monday, "Practice"); got != 0 {
		t.Errorf("Monday has %d Practice slots, want 0", got)
	}
	if report.PlacedHours != 12 {
		t.Errorf("PlacedHours = %v, want 12 (six open days)", report.PlacedHours)
	}
	if report.Satisfied() {
		t.Error("report.Satisfied() = true for a partially placed activity")
	}
	assertNoMixedCells(t, g)
}

func TestWeeklyBudget(t *testing.T) {
	g := NewGrid(7, 22)
	alloc := newTestAllocator(t, g, nil, 11)

	reports := alloc.Allocate([]Activity{{
		Name:            "Guitar",
		DurationHours:   5,
		Frequency:       FrequencyWeekly,
		MinSessionHours: 1,
		MaxSessionHours: 2,
		PreferredTime:   PreferAny,
	}})

	report := reports[0]
	if math.Abs(report.PlacedHours-5) > hourTolerance {
		t.Errorf("PlacedHours = %v, want 5", report.PlacedHours)
	}
	if !report.Satisfied() {
		t.Error("report not satisfied on an empty grid")
	}

	var sum float64
	for i, session := range report.Sessions {
		sum += session.Hours
		if session.Ordinal != i+1 {
			t.Errorf("session %d ordinal = %d, want %d (placement order)", i, session.Ordinal, i+1)
		}
		if session.Hours < 1-hourTolerance || session.Hours > 2+hourTolerance {
			t.Errorf("session hours %v outside [1, 2]", session.Hours)
		}
	}
	if math.Abs(sum-5) > hourTolerance {
		t.Errorf("session hours sum to %v, want 5", sum)
	}
}

func TestWeeklyDropsShortTail(t *testing.T) {
	g := NewGrid(7, 22)
	alloc := newTestAllocator(t, g, nil, 13)

	reports := alloc.Allocate([]Activity{{
		Name:            "Spanish",
		DurationHours:   2.4,
		Frequency:       FrequencyWeekly,
		MinSessionHours: 1,
		MaxSessionHours: 1,
		PreferredTime:   PreferAny,
	}})

	// Two 1h sessions fit; the 0.4h remainder is below the tail threshold.
	report := reports[0]
	if math.Abs(report.PlacedHours-2) > hourTolerance {
		t.Errorf("PlacedHours = %v, want 2", report.PlacedHours)
	}
	if report.Satisfied() {
		t.Error("report.Satisfied() = true with 0.4h left unplaced")
	}
}

func TestWeeklySessionsDoNotAbutIntoOverlongRuns(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		g := NewGrid(7, 22)
		alloc := newTestAllocator(t, g, nil, seed)

		alloc.Allocate([]Activity{{
			Name:            "Deep Work",
			DurationHours:   8,
			Frequency:       FrequencyWeekly,
			MinSessionHours: 2,
			MaxSessionHours: 2,
			PreferredTime:   PreferAny,
		}})

		for _, day := range Days {
			if run := longestRun(g, day, "Deep Work"); run > 2 {
				t.Fatalf("seed %d: %s has a %d-slot run, max session is 2h", seed, day, run)
			}
		}
	}
}

func TestUnplaceablePreferredWindow(t *testing.T) {
	// Evenings are fully committed every day; a daily evening activity gets
	// nothing, while an unconstrained one still lands.
	var intervals []Interval
	for _, day := range Days {
		intervals = append(intervals, Interval{Day: day, Start: "17:00", End: "22:00"})
	}
	busy := []Commitment{{Name: "Family", Intervals: intervals}}

	g := NewGrid(7, 22)
	g.PlaceCommitments(busy)
	alloc := newTestAllocator(t, g, busy, 17)

	reports := alloc.Allocate([]Activity{
		{
			Name:            "Stargazing",
			DurationHours:   1,
			Frequency:       FrequencyDaily,
			MinSessionHours: 1,
			MaxSessionHours: 1,
			PreferredTime:   PreferEvening,
		},
		{
			Name:            "Stretching",
			DurationHours:   1,
			Frequency:       FrequencyDaily,
			MinSessionHours: 1,
			MaxSessionHours: 1,
			PreferredTime:   PreferAny,
		},
	})

	if reports[0].Activity != "Stargazing" {
		t.Fatalf("reports not in input order: %+v", reports)
	}
	if reports[0].PlacedHours != 0 || len(reports[0].Sessions) != 0 {
		t.Errorf("evening activity placed %v hours, want 0", reports[0].PlacedHours)
	}
	if reports[1].PlacedHours != 7 {
		t.Errorf("unconstrained activity placed %v hours, want 7", reports[1].PlacedHours)
	}
	assertNoMixedCells(t, g)
}

func TestWeeklyBroadensBeyondPreferredWindow(t *testing.T) {
	// Mornings are blocked, so the preferred pool never fits; the weekly path
	// must widen to the full slot set and still place the session.
	var intervals []Interval
	for _, day := range Days {
		intervals = append(intervals, Interval{Day: day, Start: "07:00", End: "12:00"})
	}
	busy := []Commitment{{Name: "Work", Intervals: intervals}}

	g := NewGrid(7, 22)
	g.PlaceCommitments(busy)
	alloc := newTestAllocator(t, g, busy, 19)

	reports := alloc.Allocate([]Activity{{
		Name:            "Run",
		DurationHours:   2,
		Frequency:       FrequencyWeekly,
		MinSessionHours: 1,
		MaxSessionHours: 2,
		PreferredTime:   PreferMorning,
	}})

	report := reports[0]
	if math.Abs(report.PlacedHours-2) > hourTolerance {
		t.Errorf("PlacedHours = %v, want 2 after broadening", report.PlacedHours)
	}
	for _, session := range report.Sessions {
		if session.StartHour < 12 {
			t.Errorf("session starts at %02d:00 inside the blocked morning", session.StartHour)
		}
	}
	assertNoMixedCells(t, g)
}

func TestAllocateNeverDoubleBooks(t *testing.T) {
	commitments := []Commitment{
		{
			Name: "Work",
			Intervals: []Interval{
				{Day: Monday, Start: "09:00", End: "17:00"},
				{Day: Tuesday, Start: "09:00", End: "17:00"},
				{Day: Wednesday, Start: "09:00", End: "17:00"},
				{Day: Thursday, Start: "09:00", End: "17:00"},
				{Day: Friday, Start: "09:00", End: "17:00"},
			},
		},
		{
			Name:      "Choir",
			Intervals: []Interval{{Day: Wednesday, Start: "18:00", End: "20:00"}},
		},
	}
	activities := []Activity{
		{Name: "Gym", DurationHours: 1, Frequency: FrequencyDaily, MinSessionHours: 1, MaxSessionHours: 1.5, PreferredTime: PreferMorning},
		{Name: "Guitar", DurationHours: 4, Frequency: FrequencyWeekly, MinSessionHours: 1, MaxSessionHours: 2, PreferredTime: PreferEvening},
		{Name: "Spanish", DurationHours: 3, Frequency: FrequencyWeekly, MinSessionHours: 0.5, MaxSessionHours: 1, PreferredTime: PreferAny},
	}

	for seed := int64(1); seed <= 20; seed++ {
		g := NewGrid(6, 23)
		g.PlaceCommitments(commitments)
		alloc := newTestAllocator(t, g, commitments, seed)

		reports := alloc.Allocate(activities)
		if len(reports) != len(activities) {
			t.Fatalf("seed %d: %d reports for %d activities", seed, len(reports), len(activities))
		}

		assertNoMixedCells(t, g)

		for _, report := range reports {
			if report.PlacedHours > report.RequestedHours+hourTolerance {
				t.Errorf("seed %d: %s placed %v hours over request %v",
					seed, report.Activity, report.PlacedHours, report.RequestedHours)
			}
		}
	}
}

func TestSessionLength(t *testing.T) {
	tests := []struct {
		name      string
		remaining float64
		min, max  float64
		want      float64
	}{
		{"clamps to max", 5, 1, 2, 2},
		{"clamps to min", 1, 1, 2, 1},
		{"tail above threshold rounds to half hour", 0.75, 1, 2, 1},
		{"tail below threshold dropped", 0.3, 1, 2, 0},
		{"exact fit", 1.5, 1, 2, 1.5},
		{"rounds to half hour", 1.24, 1, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sessionLength(tt.remaining, tt.min, tt.max); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("sessionLength(%v, %v, %v) = %v, want %v", tt.remaining, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestAttemptBoundGuardsZeroMinimum(t *testing.T) {
	if got := attemptBound(4, 0); got != 15 {
		t.Errorf("attemptBound(4, 0) = %d, want 15", got)
	}
	if got := attemptBound(4, 1); got != 11 {
		t.Errorf("attemptBound(4, 1) = %d, want 11", got)
	}
}
