/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package parser turns the structured text blocks produced by the input
// wizard into typed commitment and activity records. Parsing is deliberately
// lenient: a paragraph or line that does not match the grammar contributes
// nothing and raises no error. Hard validation belongs to the surface that
// collects the input, not here.
package parser

import (
	"strconv"
	"strings"

	"github.com/friendsincode/weekweave/internal/timetable"
)

// Sentinel phrases the wizard emits for empty sections.
const (
	noCommitmentsSentinel = "no fixed commitments specified"
	noActivitiesSentinel  = "no desired activities specified"
)

// ParseCommitments parses one paragraph per commitment, separated by blank
// lines. Each paragraph reads either
//
//	Name: Day[, Day...]. Uniform time: HH:MM to HH:MM.
//
// or
//
//	Name: Day[, Day...]. Specific times: Day: HH:MM to HH:MM; Day: HH:MM to HH:MM.
//
// Paragraphs whose times cannot be extracted are dropped.
func ParseCommitments(text string) []timetable.Commitment {
	var parsed []timetable.Commitment
	if strings.TrimSpace(text) == "" || strings.Contains(strings.ToLower(text), noCommitmentsSentinel) {
		return parsed
	}

	for _, entry := range splitParagraphs(text) {
		name, rest, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}

		intervals := parseUniformTimes(rest)
		if intervals == nil {
			intervals = parseSpecificTimes(rest)
		}
		if len(intervals) == 0 {
			continue
		}
		parsed = append(parsed, timetable.Commitment{Name: name, Intervals: intervals})
	}
	return parsed
}

// parseUniformTimes handles the "Uniform time: HH:MM to HH:MM" form, applying
// one time range to every listed day. Returns nil when the form is absent or
// no days were listed.
func parseUniformTimes(rest string) []timetable.Interval {
	section, ok := sectionAfter(rest, "uniform time:")
	if !ok {
		return nil
	}
	start, end, ok := parseTimeRange(section)
	if !ok {
		return nil
	}
	days := parseDayList(rest)
	if len(days) == 0 {
		return nil
	}

	intervals := make([]timetable.Interval, 0, len(days))
	for _, day := range days {
		intervals = append(intervals, timetable.Interval{Day: day, Start: start, End: end})
	}
	return intervals
}

// parseSpecificTimes handles the "Specific times: Day: HH:MM to HH:MM; ..."
// form, one range per listed day.
func parseSpecificTimes(rest string) []timetable.Interval {
	section, ok := sectionAfter(rest, "specific times:")
	if !ok {
		return nil
	}

	var intervals []timetable.Interval
	for _, part := range strings.Split(section, ";") {
		dayToken, timePart, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		day, ok := timetable.ParseDay(dayToken)
		if !ok {
			continue
		}
		start, end, ok := parseTimeRange(timePart)
		if !ok {
			continue
		}
		intervals = append(intervals, timetable.Interval{Day: day, Start: start, End: end})
	}
	return intervals
}

// ParseActivities parses one activity per line:
//
//	Name: D hours {daily|weekly}, Min/Max Session: MINh/MAXh, Preferred time: {any|morning|afternoon|evening}
//
// Lines that do not match are skipped.
func ParseActivities(text string) []timetable.Activity {
	var parsed []timetable.Activity
	if strings.TrimSpace(text) == "" || strings.Contains(strings.ToLower(text), noActivitiesSentinel) {
		return parsed
	}

	for _, line := range strings.Split(text, "\n") {
		if act, ok := parseActivityLine(line); ok {
			parsed = append(parsed, act)
		}
	}
	return parsed
}

func parseActivityLine(line string) (timetable.Activity, bool) {
	var act timetable.Activity
	if strings.TrimSpace(line) == "" {
		return act, false
	}

	name, rest, ok := strings.Cut(line, ":")
	act.Name = strings.TrimSpace(name)
	if !ok || act.Name == "" {
		return act, false
	}

	// "D hours {daily|weekly}," up to the first comma.
	durationPart, rest, ok := strings.Cut(rest, ",")
	if !ok {
		return act, false
	}
	fields := strings.Fields(durationPart)
	if len(fields) != 3 || !strings.EqualFold(fields[1], "hours") {
		return act, false
	}
	duration, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return act, false
	}
	act.DurationHours = duration
	switch strings.ToLower(fields[2]) {
	case string(timetable.FrequencyDaily):
		act.Frequency = timetable.FrequencyDaily
	case string(timetable.FrequencyWeekly):
		act.Frequency = timetable.FrequencyWeekly
	default:
		return act, false
	}

	// "Min/Max Session: MINh/MAXh"
	session, ok := valueAfter(rest, "min/max session:")
	if !ok {
		return act, false
	}
	minPart, maxPart, ok := strings.Cut(session, "/")
	if !ok {
		return act, false
	}
	act.MinSessionHours, ok = parseHourSuffix(minPart)
	if !ok {
		return act, false
	}
	act.MaxSessionHours, ok = parseHourSuffix(maxPart)
	if !ok {
		return act, false
	}

	// "Preferred time: token"
	prefToken, ok := valueAfter(rest, "preferred time:")
	if !ok {
		return act, false
	}
	switch strings.ToLower(strings.TrimSpace(prefToken)) {
	case string(timetable.PreferAny):
		act.PreferredTime = timetable.PreferAny
	case string(timetable.PreferMorning):
		act.PreferredTime = timetable.PreferMorning
	case string(timetable.PreferAfternoon):
		act.PreferredTime = timetable.PreferAfternoon
	case string(timetable.PreferEvening):
		act.PreferredTime = timetable.PreferEvening
	default:
		return act, false
	}

	return act, true
}

// parseDayList collects every short day token appearing before the first
// period, in order, de-duplicated.
func parseDayList(rest string) []timetable.Day {
	head := rest
	if idx := strings.Index(rest, "."); idx >= 0 {
		head = rest[:idx]
	}

	seen := make(map[timetable.Day]bool)
	var days []timetable.Day
	for _, token := range strings.FieldsFunc(head, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		if day, ok := timetable.ParseDay(token); ok && !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}

// parseTimeRange extracts "HH:MM to HH:MM" from the given text.
func parseTimeRange(text string) (start, end string, ok bool) {
	startClock, rest, ok := firstClock(text)
	if !ok {
		return "", "", false
	}
	trimmed := strings.TrimSpace(rest)
	if !hasFoldPrefix(trimmed, "to") {
		return "", "", false
	}
	endClock, _, ok := firstClock(trimmed[2:])
	if !ok {
		return "", "", false
	}
	return startClock, endClock, true
}

// firstClock scans text for the first "HH:MM" token and returns it together
// with the remainder of the text after it.
func firstClock(text string) (string, string, bool) {
	for i := 0; i+5 <= len(text); i++ {
		c := text[i : i+5]
		if c[2] != ':' {
			continue
		}
		if isDigit(c[0]) && isDigit(c[1]) && isDigit(c[3]) && isDigit(c[4]) {
			h := int(c[0]-'0')*10 + int(c[1]-'0')
			m := int(c[3]-'0')*10 + int(c[4]-'0')
			if h <= 24 && m <= 59 {
				return c, text[i+5:], true
			}
		}
	}
	return "", "", false
}

// parseHourSuffix parses values like "1.5h".
func parseHourSuffix(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(strings.TrimSuffix(text, "h"), "H")
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// sectionAfter returns everything following the case-insensitive marker.
func sectionAfter(text, marker string) (string, bool) {
	idx := foldIndex(text, marker)
	if idx < 0 {
		return "", false
	}
	return text[idx+len(marker):], true
}

// valueAfter returns the text between the case-insensitive marker and the
// next comma (or end of string), trimmed.
func valueAfter(text, marker string) (string, bool) {
	section, ok := sectionAfter(text, marker)
	if !ok {
		return "", false
	}
	if idx := strings.Index(section, ","); idx >= 0 {
		section = section[:idx]
	}
	return strings.TrimSpace(section), true
}

func foldIndex(text, marker string) int {
	return strings.Index(strings.ToLower(text), strings.ToLower(marker))
}

func hasFoldPrefix(text, prefix string) bool {
	return len(text) >= len(prefix) && strings.EqualFold(text[:len(prefix)], prefix)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// splitParagraphs splits on one or more blank lines.
func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paragraphs
}
