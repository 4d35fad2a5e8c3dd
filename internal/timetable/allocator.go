/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package timetable

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"
)

// hourTolerance absorbs float rounding when comparing session hours.
const hourTolerance = 0.01

// tailThreshold is the smallest weekly remainder still worth a session.
const tailThreshold = 0.4

// Session is one contiguous placement of an activity. Hours keeps the
// fractional duration even though placement rounds up to whole slots.
// Ordinal numbers weekly sessions from 1 in placement order; daily sessions
// carry zero.
type Session struct {
	Day       Day     `json:"day"`
	StartHour int     `json:"start_hour"`
	Hours     float64 `json:"hours"`
	Ordinal   int     `json:"ordinal,omitempty"`
}

// ActivityReport is the per-activity placement outcome. Unplaceable time is
// never an error; callers compare PlacedHours against RequestedHours to
// surface partially satisfied schedules.
type ActivityReport struct {
	Activity       string    `json:"activity"`
	RequestedHours float64   `json:"requested_hours"`
	PlacedHours    float64   `json:"placed_hours"`
	Sessions       []Session `json:"sessions"`
}

// Satisfied reports whether the full requested duration was placed.
func (r ActivityReport) Satisfied() bool {
	return r.PlacedHours+hourTolerance >= r.RequestedHours
}

// Allocator places desired-activity sessions into the free slots of a grid
// already stamped with commitments. Randomization comes exclusively from the
// supplied source, so callers can seed it for variety or for deterministic
// tests.
type Allocator struct {
	grid        *Grid
	commitments []Commitment
	rng         *rand.Rand
	logger      zerolog.Logger
}

// NewAllocator constructs an allocator over the given grid.
func NewAllocator(grid *Grid, commitments []Commitment, rng *rand.Rand, logger zerolog.Logger) *Allocator {
	return &Allocator{
		grid:        grid,
		commitments: commitments,
		rng:         rng,
		logger:      logger.With().Str("component", "allocator").Logger(),
	}
}

// Allocate places every activity according to its frequency policy and
// returns one report per activity in input order. Activities are processed in
// a shuffled order so earlier entries hold no structural advantage across
// regenerations.
func (a *Allocator) Allocate(activities []Activity) []ActivityReport {
	order := a.rng.Perm(len(activities))

	byIndex := make([]ActivityReport, len(activities))
	for _, idx := range order {
		act := activities[idx]
		switch act.Frequency {
		case FrequencyDaily:
			byIndex[idx] = a.placeDaily(act)
		case FrequencyWeekly:
			byIndex[idx] = a.placeWeekly(act)
		default:
			byIndex[idx] = ActivityReport{Activity: act.Name, RequestedHours: act.DurationHours}
		}
	}
	return byIndex
}

// placeDaily puts exactly one session per day, skipping days with no feasible
// start. The per-day duration is the activity's total clamped into its session
// bounds.
func (a *Allocator) placeDaily(act Activity) ActivityReport {
	perDay := clamp(act.DurationHours, act.MinSessionHours, act.MaxSessionHours)
	report := ActivityReport{Activity: act.Name, RequestedHours: perDay * float64(len(Days))}

	n := int(math.Ceil(perDay))
	if n <= 0 {
		return report
	}

	pool := a.candidatePool(act.PreferredTime)

	for _, day := range a.shuffledDays() {
		attempt := a.shuffledCopy(pool)
		for _, start := range attempt {
			if !a.feasible(day, start, n, act.Name, act.MaxSessionHours) {
				continue
			}
			a.stamp(day, start, n, act.Name, 0)
			report.PlacedHours += perDay
			report.Sessions = append(report.Sessions, Session{
				Day:       day,
				StartHour: a.grid.SlotHour(start),
				Hours:     perDay,
			})
			break
		}
	}

	if !report.Satisfied() {
		a.logger.Debug().Str("activity", act.Name).
			Float64("requested", report.RequestedHours).
			Float64("placed", report.PlacedHours).
			Msg("daily activity partially placed")
	}
	return report
}

// placeWeekly carves the weekly target into sessions bounded by the min/max
// session hours, placing each in the first feasible position across shuffled
// days and slots. When no day admits the current session the candidate pool is
// broadened to the full slot set once, and the broadening persists for the
// remainder of this activity's placement.
func (a *Allocator) placeWeekly(act Activity) ActivityReport {
	report := ActivityReport{Activity: act.Name, RequestedHours: act.DurationHours}

	remaining := act.DurationHours
	ordinal := 1
	maxAttempts := attemptBound(act.DurationHours, act.MinSessionHours)
	pool := a.candidatePool(act.PreferredTime)

	for remaining > hourTolerance && ordinal <= maxAttempts {
		length := sessionLength(remaining, act.MinSessionHours, act.MaxSessionHours)
		if length <= 0 {
			break
		}
		n := int(math.Ceil(length))
		if n <= 0 {
			break
		}

		placed := false
		for _, day := range a.shuffledDays() {
			attempt := a.shuffledCopy(pool)
			for _, start := range attempt {
				if !a.feasible(day, start, n, act.Name, act.MaxSessionHours) {
					continue
				}
				a.stamp(day, start, n, act.Name, ordinal)
				remaining = math.Max(0, remaining-length)
				report.PlacedHours += length
				report.Sessions = append(report.Sessions, Session{
					Day:       day,
					StartHour: a.grid.SlotHour(start),
					Hours:     length,
					Ordinal:   ordinal,
				})
				ordinal++
				placed = true
				break
			}
			if placed {
				break
			}
		}

		if !placed {
			if len(pool) == a.grid.SlotCount() {
				break
			}
			pool = a.shuffledCopy(a.allSlotIndices())
		}
	}

	if !report.Satisfied() {
		a.logger.Debug().Str("activity", act.Name).
			Float64("requested", report.RequestedHours).
			Float64("placed", report.PlacedHours).
			Msg("weekly activity partially placed")
	}
	return report
}

// sessionLength chooses the next weekly session duration, rounded to the
// nearest half hour. Remainders at or below the tail threshold are dropped.
func sessionLength(remaining, min, max float64) float64 {
	var length float64
	switch {
	case remaining >= min:
		length = clamp(remaining, min, max)
	case remaining > tailThreshold:
		length = math.Max(0.5, remaining)
	default:
		return 0
	}

	length = math.Round(length*2) / 2
	if length < 0.5 {
		if remaining >= 0.5 {
			return 0.5
		}
		return 0
	}
	return length
}

// attemptBound caps the weekly placement loop so a pathological input cannot
// spin forever.
func attemptBound(total, minSession float64) int {
	if minSession <= 0 {
		minSession = 0.5
	}
	return int(math.Ceil(total/minSession)) + 7
}

// feasible reports whether n consecutive slots starting at start on day can
// hold a session of the named activity.
//
// Beyond bounds and occupancy, it guards session continuity: slots
// immediately adjacent to the candidate that already belong to the same
// activity count against maxSession, so two sessions cannot abut into one run
// longer than the declared maximum.
func (a *Allocator) feasible(day Day, start, n int, name string, maxSession float64) bool {
	if start < 0 || start+n > a.grid.SlotCount() {
		return false
	}

	preceding := 0
	for k := start - 1; k >= 0; k-- {
		if !cellHoldsActivity(a.grid.Cell(day, k), name) {
			break
		}
		preceding++
	}
	following := 0
	for k := start + n; k < a.grid.SlotCount(); k++ {
		if !cellHoldsActivity(a.grid.Cell(day, k), name) {
			break
		}
		following++
	}
	if preceding+following > 0 && float64(preceding+n+following) > maxSession+hourTolerance {
		return false
	}

	for i := 0; i < n; i++ {
		idx := start + i
		hour := a.grid.SlotHour(idx)

		for _, c := range a.commitments {
			for _, iv := range c.Intervals {
				if iv.Day == day && iv.overlapsHour(hour) {
					return false
				}
			}
		}

		for _, occ := range a.grid.Cell(day, idx) {
			if !occ.isActivity(name) {
				return false
			}
		}
	}
	return true
}

// stamp writes a session start occupant on the first slot and continuation
// occupants on the rest.
func (a *Allocator) stamp(day Day, start, n int, name string, ordinal int) {
	a.grid.appendOccupant(day, start, Occupant{Kind: OccupantSessionStart, Name: name, Ordinal: ordinal})
	for i := 1; i < n; i++ {
		a.grid.appendOccupant(day, start+i, Occupant{Kind: OccupantContinuation, Name: name})
	}
}

// candidatePool returns the shuffled slot indices matching the preferred
// part-of-day window. Morning is clipped to start no earlier than 07:00,
// evening to end no later than 22:00, both bounded by the grid itself.
func (a *Allocator) candidatePool(pref PreferredTime) []int {
	morningStart := a.grid.StartHour
	if morningStart < 7 {
		morningStart = 7
	}
	eveningEnd := a.grid.EndHour
	if eveningEnd > 22 {
		eveningEnd = 22
	}

	var lo, hi int
	switch pref {
	case PreferMorning:
		lo, hi = morningStart, 12
	case PreferAfternoon:
		lo, hi = 12, 17
	case PreferEvening:
		lo, hi = 17, eveningEnd
	default:
		return a.shuffledCopy(a.allSlotIndices())
	}

	pool := make([]int, 0, a.grid.SlotCount())
	for i := 0; i < a.grid.SlotCount(); i++ {
		if h := a.grid.SlotHour(i); h >= lo && h < hi {
			pool = append(pool, i)
		}
	}
	return a.shuffledCopy(pool)
}

func (a *Allocator) allSlotIndices() []int {
	all := make([]int, a.grid.SlotCount())
	for i := range all {
		all[i] = i
	}
	return all
}

func (a *Allocator) shuffledCopy(src []int) []int {
	out := make([]int, len(src))
	copy(out, src)
	a.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func (a *Allocator) shuffledDays() []Day {
	days := make([]Day, len(Days))
	copy(days[:], Days[:])
	a.rng.Shuffle(len(days), func(i, j int) {
		days[i], days[j] = days[j], days[i]
	})
	return days
}

func cellHoldsActivity(cell []Occupant, name string) bool {
	for _, occ := range cell {
		if occ.isActivity(name) {
			return true
		}
	}
	return false
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(v, max))
}
