/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package timetable

import (
	"strconv"
	"strings"
)

// Default active hours used when the lifestyle text carries no usable times.
const (
	DefaultWakeHour = 7
	DefaultBedHour  = 22
)

// Fallback window used when boundary resolution still yields an empty range.
const (
	FallbackStartHour = 8
	FallbackEndHour   = 21
)

// Boundaries holds the resolved wake and bed hours of the day.
type Boundaries struct {
	Wake int `json:"wake"`
	Bed  int `json:"bed"`
}

// ResolveBoundaries extracts wake and bed hours from free-text lifestyle data.
// It looks for "wakes up around HH:MM" and "goes to bed around HH:MM", accepts
// hours in [0,23], and falls back to the defaults otherwise. It never fails.
func ResolveBoundaries(lifestyle string) Boundaries {
	b := Boundaries{Wake: DefaultWakeHour, Bed: DefaultBedHour}
	if h, ok := hourAfter(lifestyle, "wakes up around "); ok {
		b.Wake = h
	}
	if h, ok := hourAfter(lifestyle, "goes to bed around "); ok {
		b.Bed = h
	}
	return b
}

// EndHour resolves the effective exclusive end hour of the weekly table.
// A bed hour of 0, or one at or before the wake hour (and not equal to it),
// means the day runs through hour 24 rather than producing an inverted range.
func (b Boundaries) EndHour() int {
	if b.Bed == 0 || (b.Bed <= b.Wake && b.Bed != b.Wake) {
		return 24
	}
	return b.Bed
}

// hourAfter scans for marker followed immediately by a 24-hour "HH:MM" clock
// value and returns the hour if it parses and lies in [0,23].
func hourAfter(text, marker string) (int, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return 0, false
	}
	rest := text[idx+len(marker):]
	if len(rest) < 5 || rest[2] != ':' {
		return 0, false
	}
	if !isDigits(rest[:2]) || !isDigits(rest[3:5]) {
		return 0, false
	}
	h, err := strconv.Atoi(rest[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
