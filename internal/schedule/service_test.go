/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/weekweave/internal/timetable"
)

func newTestService() *Service {
	return NewService(zerolog.Nop())
}

func TestGenerateEmptyInputDefaults(t *testing.T) {
	res := newTestService().Generate(Input{}, 1)

	if res.StartHour != 7 || res.EndHour != 22 {
		t.Errorf("window = [%d, %d), want default [7, 22)", res.StartHour, res.EndHour)
	}
	if len(res.Days) != 7 {
		t.Fatalf("got %d days, want 7", len(res.Days))
	}
	for _, ds := range res.Days {
		if len(ds.Cells) != 15 {
			t.Fatalf("day %s has %d cells, want 15", ds.Day, len(ds.Cells))
		}
		for _, cell := range ds.Cells {
			if len(cell.Occupants) != 0 {
				t.Errorf("empty input produced occupant %+v on %s %02d:00", cell.Occupants, ds.Day, cell.Hour)
			}
		}
	}
	if len(res.Reports) != 0 {
		t.Errorf("empty input produced reports %+v", res.Reports)
	}
}

func TestGenerateResolvesLifestyle(t *testing.T) {
	res := newTestService().Generate(Input{
		Lifestyle: "The user wakes up around 08:00 and goes to bed around 23:00.",
	}, 1)

	if res.Boundaries.Wake != 8 || res.Boundaries.Bed != 23 {
		t.Errorf("boundaries = %+v, want {8 23}", res.Boundaries)
	}
	if res.StartHour != 8 || res.EndHour != 23 {
		t.Errorf("window = [%d, %d), want [8, 23)", res.StartHour, res.EndHour)
	}
}

func TestGenerateCommitmentFidelity(t *testing.T) {
	in := Input{
		Commitments: "Work: Mon, Tue, Wed, Thu, Fri. Uniform time: 09:00 to 17:00.",
		Activities:  "Reading: 1 hours daily, Min/Max Session: 1h/1h, Preferred time: any\n",
	}

	for seed := int64(1); seed <= 5; seed++ {
		res := newTestService().Generate(in, seed)

		weekdays := map[timetable.Day]bool{
			timetable.Monday: true, timetable.Tuesday: true, timetable.Wednesday: true,
			timetable.Thursday: true, timetable.Friday: true,
		}
		for _, ds := range res.Days {
			for _, cell := range ds.Cells {
				covered := weekdays[ds.Day] && cell.Hour >= 9 && cell.Hour < 17
				hasWork := false
				for _, occ := range cell.Occupants {
					if occ.Kind == timetable.OccupantCommitment && occ.Name == "Work" {
						hasWork = true
					} else if covered {
						t.Errorf("seed %d: %s %02d:00 shares a committed slot with %+v", seed, ds.Day, cell.Hour, occ)
					}
				}
				if covered && !hasWork {
					t.Errorf("seed %d: %s %02d:00 lost its commitment", seed, ds.Day, cell.Hour)
				}
				if !covered && hasWork {
					t.Errorf("seed %d: %s %02d:00 gained a spurious commitment", seed, ds.Day, cell.Hour)
				}
			}
		}
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	in := Input{
		Lifestyle:   "wakes up around 07:00 and goes to bed around 22:00",
		Commitments: "Work: Mon, Wed. Uniform time: 09:00 to 12:00.",
		Activities: "Gym: 1 hours daily, Min/Max Session: 1h/1h, Preferred time: morning\n" +
			"Guitar: 4 hours weekly, Min/Max Session: 1h/2h, Preferred time: evening\n",
	}

	first := newTestService().Generate(in, 42)
	second := newTestService().Generate(in, 42)
	if !reflect.DeepEqual(first, second) {
		t.Error("same input and seed produced different results")
	}
}

func TestGenerateSeedVariety(t *testing.T) {
	in := Input{
		Activities: "Gym: 1 hours daily, Min/Max Session: 1h/1h, Preferred time: any\n" +
			"Guitar: 5 hours weekly, Min/Max Session: 1h/2h, Preferred time: any\n",
	}

	svc := newTestService()
	for seed := int64(1); seed <= 5; seed++ {
		res := svc.Generate(in, seed)

		if len(res.Reports) != 2 {
			t.Fatalf("seed %d: got %d reports, want 2", seed, len(res.Reports))
		}
		if res.Reports[0].Activity != "Gym" || res.Reports[1].Activity != "Guitar" {
			t.Errorf("seed %d: reports out of input order: %q, %q",
				seed, res.Reports[0].Activity, res.Reports[1].Activity)
		}
		for _, rep := range res.Reports {
			if rep.PlacedHours > rep.RequestedHours+0.01 {
				t.Errorf("seed %d: %s placed %.1fh over its %.1fh target",
					seed, rep.Activity, rep.PlacedHours, rep.RequestedHours)
			}
			if !rep.Satisfied() {
				t.Errorf("seed %d: %s unsatisfied on an empty week: %+v", seed, rep.Activity, rep)
			}
		}

		// A cell never mixes two different occupant names.
		for _, ds := range res.Days {
			for _, cell := range ds.Cells {
				for _, occ := range cell.Occupants {
					if occ.Name != cell.Occupants[0].Name {
						t.Errorf("seed %d: %s %02d:00 mixes %q and %q",
							seed, ds.Day, cell.Hour, cell.Occupants[0].Name, occ.Name)
					}
				}
			}
		}
	}
}

func TestGenerateMalformedSectionsAreIgnored(t *testing.T) {
	res := newTestService().Generate(Input{
		Lifestyle:   "sleeps whenever",
		Commitments: "basically always busy, hard to say",
		Activities:  "whatever fits\n",
	}, 1)

	if len(res.Reports) != 0 {
		t.Errorf("malformed activities produced reports %+v", res.Reports)
	}
	for _, ds := range res.Days {
		for _, cell := range ds.Cells {
			if len(cell.Occupants) != 0 {
				t.Errorf("malformed input stamped %s %02d:00 with %+v", ds.Day, cell.Hour, cell.Occupants)
			}
		}
	}
}
