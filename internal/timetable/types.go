/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package timetable

import (
	"strconv"
	"strings"
)

// Day identifies a day of the week. The canonical ordering in Days is used for
// iteration and stable rendering; allocation order is randomized separately.
type Day string

const (
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
	Saturday  Day = "Sat"
	Sunday    Day = "Sun"
)

// Days is the canonical week ordering.
var Days = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDay maps a short day token to a Day.
func ParseDay(token string) (Day, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "mon":
		return Monday, true
	case "tue":
		return Tuesday, true
	case "wed":
		return Wednesday, true
	case "thu":
		return Thursday, true
	case "fri":
		return Friday, true
	case "sat":
		return Saturday, true
	case "sun":
		return Sunday, true
	}
	return "", false
}

// Frequency describes how a desired activity recurs.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// PreferredTime is the coarse part-of-day filter applied before candidate
// slot selection.
type PreferredTime string

const (
	PreferAny       PreferredTime = "any"
	PreferMorning   PreferredTime = "morning"
	PreferAfternoon PreferredTime = "afternoon"
	PreferEvening   PreferredTime = "evening"
)

// Interval is one fixed weekly time block on a single day. Start and End are
// 24-hour "HH:MM" clock strings; minute precision is kept for overlap
// comparisons against slot boundaries.
type Interval struct {
	Day   Day    `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Commitment is a fixed, non-negotiable weekly block. Its intervals are
// authoritative: the allocator never removes or resizes them.
type Commitment struct {
	Name      string     `json:"name"`
	Intervals []Interval `json:"intervals"`
}

// Activity is a flexible recurring task to be fitted into free time.
// For daily frequency DurationHours is the per-day target and must lie within
// [MinSessionHours, MaxSessionHours]; for weekly it is the aggregate weekly
// target.
type Activity struct {
	Name            string        `json:"name"`
	DurationHours   float64       `json:"duration_hours"`
	Frequency       Frequency     `json:"frequency"`
	MinSessionHours float64       `json:"min_session_hours"`
	MaxSessionHours float64       `json:"max_session_hours"`
	PreferredTime   PreferredTime `json:"preferred_time"`
}

// OccupantKind tags what a grid cell entry represents.
type OccupantKind string

const (
	OccupantCommitment   OccupantKind = "commitment"
	OccupantSessionStart OccupantKind = "session_start"
	OccupantContinuation OccupantKind = "session_continuation"
)

// Occupant is one tagged entry in a grid cell. Ordinal is the 1-based weekly
// session number for session starts; zero for daily sessions, continuations,
// and commitments.
type Occupant struct {
	Kind    OccupantKind `json:"kind"`
	Name    string       `json:"name"`
	Ordinal int          `json:"ordinal,omitempty"`
}

// isActivity reports whether the occupant is a session marker for the named
// activity.
func (o Occupant) isActivity(name string) bool {
	return o.Name == name && (o.Kind == OccupantSessionStart || o.Kind == OccupantContinuation)
}

// clockMinutes converts an "HH:MM" string to minutes since midnight.
// A malformed value yields -1, which never overlaps anything.
func clockMinutes(clock string) int {
	clock = strings.TrimSpace(clock)
	if len(clock) != 5 || clock[2] != ':' {
		return -1
	}
	h, err := strconv.Atoi(clock[:2])
	if err != nil {
		return -1
	}
	m, err := strconv.Atoi(clock[3:])
	if err != nil {
		return -1
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return -1
	}
	return h*60 + m
}

// overlapsHour reports whether the interval covers any part of the hour-aligned
// slot [hour:00, hour+1:00).
func (iv Interval) overlapsHour(hour int) bool {
	start := clockMinutes(iv.Start)
	end := clockMinutes(iv.End)
	if start < 0 || end < 0 {
		return false
	}
	return start < (hour+1)*60 && end > hour*60
}
