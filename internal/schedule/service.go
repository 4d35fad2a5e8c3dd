/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package schedule runs the full weekly-timetable synthesis pass: parse the
// structured input, resolve the day boundaries, build the grid, stamp
// commitments, allocate activity sessions, and assemble the result.
package schedule

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/friendsincode/weekweave/internal/parser"
	"github.com/friendsincode/weekweave/internal/timetable"
)

// Input is the already-validated structured text produced by the input
// surface.
type Input struct {
	Lifestyle   string `json:"lifestyle"`
	Commitments string `json:"commitments"`
	Activities  string `json:"activities"`
}

// Result is the generated week: the resolved boundaries, the assembled grid in
// canonical day order, and one placement report per activity in input order.
type Result struct {
	Boundaries timetable.Boundaries       `json:"boundaries"`
	StartHour  int                        `json:"start_hour"`
	EndHour    int                        `json:"end_hour"`
	Days       []timetable.DaySlots       `json:"days"`
	Reports    []timetable.ActivityReport `json:"reports"`
}

// Service generates weekly timetables. It holds no mutable state; every
// Generate call builds a fresh grid, so concurrent calls are independent.
type Service struct {
	logger zerolog.Logger
}

// NewService creates a schedule generator.
func NewService(logger zerolog.Logger) *Service {
	return &Service{logger: logger.With().Str("component", "schedule").Logger()}
}

// Generate runs the synthesis passes in sequence. The seed drives every
// shuffle; two calls with the same input and seed produce the same placement,
// while a fresh seed gives the regenerate-for-variety behavior. Unplaceable
// sessions are reported in the per-activity reports, never as an error.
func (s *Service) Generate(in Input, seed int64) Result {
	commitments := parser.ParseCommitments(in.Commitments)
	activities := parser.ParseActivities(in.Activities)
	bounds := timetable.ResolveBoundaries(in.Lifestyle)

	grid := timetable.NewGrid(bounds.Wake, bounds.EndHour())
	grid.PlaceCommitments(commitments)

	rng := rand.New(rand.NewSource(seed))
	alloc := timetable.NewAllocator(grid, commitments, rng, s.logger)
	reports := alloc.Allocate(activities)

	s.logger.Debug().
		Int("commitments", len(commitments)).
		Int("activities", len(activities)).
		Int("slots_per_day", grid.SlotCount()).
		Msg("schedule generated")

	return Result{
		Boundaries: bounds,
		StartHour:  grid.StartHour,
		EndHour:    grid.EndHour,
		Days:       grid.Assemble(),
		Reports:    reports,
	}
}
