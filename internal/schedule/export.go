/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/friendsincode/weekweave/internal/timetable"
)

// ExportICalResult contains the iCal export data.
type ExportICalResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

var dayOffsets = map[timetable.Day]int{
	timetable.Monday:    0,
	timetable.Tuesday:   1,
	timetable.Wednesday: 2,
	timetable.Thursday:  3,
	timetable.Friday:    4,
	timetable.Saturday:  5,
	timetable.Sunday:    6,
}

// ExportToICal renders a generated week as an iCal calendar, projecting the
// day-of-week grid onto concrete dates starting at weekStart (normally the
// next Monday, see NextMonday). Commitments and activity sessions each become
// one event spanning their contiguous slots.
func ExportToICal(result Result, calendarName string, weekStart time.Time) *ExportICalResult {
	weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())

	var buf bytes.Buffer
	buf.WriteString("BEGIN:VCALENDAR\r\n")
	buf.WriteString("VERSION:2.0\r\n")
	buf.WriteString("PRODID:-//Weekweave//Timetable Export//EN\r\n")
	buf.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICalText(calendarName)))
	buf.WriteString("CALSCALE:GREGORIAN\r\n")
	buf.WriteString("METHOD:PUBLISH\r\n")

	for _, ds := range result.Days {
		dayDate := weekStart.AddDate(0, 0, dayOffsets[ds.Day])
		for i, cell := range ds.Cells {
			for _, occ := range cell.Occupants {
				switch occ.Kind {
				case timetable.OccupantCommitment:
					// Only open an event on the first slot of a contiguous block.
					if i > 0 && cellHasCommitment(ds.Cells[i-1], occ.Name) {
						continue
					}
					hours := 1
					for j := i + 1; j < len(ds.Cells) && cellHasCommitment(ds.Cells[j], occ.Name); j++ {
						hours++
					}
					writeEvent(&buf, dayDate, cell.Hour, hours, occ.Name)
				case timetable.OccupantSessionStart:
					hours := 1
					for j := i + 1; j < len(ds.Cells) && cellHasContinuation(ds.Cells[j], occ.Name); j++ {
						hours++
					}
					summary := occ.Name + " (suggested)"
					if occ.Ordinal > 0 {
						summary = fmt.Sprintf("%s - session %d (suggested)", occ.Name, occ.Ordinal)
					}
					writeEvent(&buf, dayDate, cell.Hour, hours, summary)
				}
			}
		}
	}

	buf.WriteString("END:VCALENDAR\r\n")

	filename := fmt.Sprintf("%s-week-%s.ics", slugify(calendarName), weekStart.Format("2006-01-02"))
	return &ExportICalResult{
		Data:        buf.Bytes(),
		Filename:    filename,
		ContentType: "text/calendar; charset=utf-8",
	}
}

// NextMonday returns the upcoming Monday at midnight, or today if it already
// is Monday.
func NextMonday(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func writeEvent(buf *bytes.Buffer, dayDate time.Time, startHour, hours int, summary string) {
	start := dayDate.Add(time.Duration(startHour) * time.Hour)
	end := start.Add(time.Duration(hours) * time.Hour)

	buf.WriteString("BEGIN:VEVENT\r\n")
	buf.WriteString(fmt.Sprintf("UID:%s@weekweave\r\n", uuid.NewString()))
	buf.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICalTime(time.Now())))
	buf.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICalTime(start)))
	buf.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICalTime(end)))
	buf.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICalText(summary)))
	buf.WriteString("END:VEVENT\r\n")
}

func cellHasCommitment(cell timetable.Cell, name string) bool {
	for _, occ := range cell.Occupants {
		if occ.Kind == timetable.OccupantCommitment && occ.Name == name {
			return true
		}
	}
	return false
}

func cellHasContinuation(cell timetable.Cell, name string) bool {
	for _, occ := range cell.Occupants {
		if occ.Kind == timetable.OccupantContinuation && occ.Name == name {
			return true
		}
	}
	return false
}

// Helper functions

func formatICalTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func escapeICalText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
