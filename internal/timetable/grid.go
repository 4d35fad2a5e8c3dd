/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package timetable

import "fmt"

// Grid is the weekly table of hour-aligned slots between the resolved day
// boundaries. Every day shares one ascending slot sequence; each cell holds
// zero or more tagged occupants. The grid is mutated in two passes, first by
// PlaceCommitments and then by the allocator, and should be treated as
// read-only once assembled.
type Grid struct {
	StartHour int
	EndHour   int // exclusive, up to 24

	slots []int
	cells map[Day][][]Occupant
}

// NewGrid builds an empty grid spanning [start, end) hours. An empty or
// inverted range falls back to the fixed 08:00-21:00 window so the grid is
// never unusable.
func NewGrid(start, end int) *Grid {
	if start < 0 || end > 24 || start >= end {
		start, end = FallbackStartHour, FallbackEndHour
	}

	slots := make([]int, 0, end-start)
	for h := start; h < end; h++ {
		slots = append(slots, h)
	}

	cells := make(map[Day][][]Occupant, len(Days))
	for _, day := range Days {
		cells[day] = make([][]Occupant, len(slots))
	}

	return &Grid{StartHour: start, EndHour: end, slots: slots, cells: cells}
}

// SlotCount returns the number of hourly slots per day.
func (g *Grid) SlotCount() int {
	return len(g.slots)
}

// SlotHour returns the starting hour of the slot at index i.
func (g *Grid) SlotHour(i int) int {
	return g.slots[i]
}

// Cell returns the occupants of one (day, slot) cell.
func (g *Grid) Cell(day Day, i int) []Occupant {
	return g.cells[day][i]
}

func (g *Grid) appendOccupant(day Day, i int, occ Occupant) {
	g.cells[day][i] = append(g.cells[day][i], occ)
}

// PlaceCommitments stamps every commitment interval onto every slot it
// overlaps on the matching day, de-duplicated by commitment name per slot.
// This pass runs to completion before any activity is considered; commitments
// are never bumped afterwards.
func (g *Grid) PlaceCommitments(commitments []Commitment) {
	for _, c := range commitments {
		for _, iv := range c.Intervals {
			for i, hour := range g.slots {
				if !iv.overlapsHour(hour) {
					continue
				}
				if g.hasCommitment(iv.Day, i, c.Name) {
					continue
				}
				g.appendOccupant(iv.Day, i, Occupant{Kind: OccupantCommitment, Name: c.Name})
			}
		}
	}
}

func (g *Grid) hasCommitment(day Day, i int, name string) bool {
	for _, occ := range g.cells[day][i] {
		if occ.Kind == OccupantCommitment && occ.Name == name {
			return true
		}
	}
	return false
}

// Cell is one assembled (day, slot) record handed to renderers.
type Cell struct {
	Hour      int        `json:"hour"`
	Label     string     `json:"label"`
	Occupants []Occupant `json:"occupants"`
}

// DaySlots is the assembled occupancy of one day in slot order.
type DaySlots struct {
	Day   Day    `json:"day"`
	Cells []Cell `json:"cells"`
}

// Assemble traverses the grid in canonical day order and ascending slot order
// and returns the occupancy verbatim. No business logic happens here; the
// result is what external renderers consume.
func (g *Grid) Assemble() []DaySlots {
	out := make([]DaySlots, 0, len(Days))
	for _, day := range Days {
		ds := DaySlots{Day: day, Cells: make([]Cell, 0, len(g.slots))}
		for i, hour := range g.slots {
			occupants := make([]Occupant, len(g.cells[day][i]))
			copy(occupants, g.cells[day][i])
			ds.Cells = append(ds.Cells, Cell{
				Hour:      hour,
				Label:     slotLabel(hour),
				Occupants: occupants,
			})
		}
		out = append(out, ds)
	}
	return out
}

func slotLabel(hour int) string {
	next := hour + 1
	if next == 24 {
		return fmt.Sprintf("%02d:00 - 00:00", hour)
	}
	return fmt.Sprintf("%02d:00 - %02d:00", hour, next)
}
