/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/friendsincode/weekweave/internal/logging"
	"github.com/friendsincode/weekweave/internal/schedule"
)

var (
	generateLifestyleFile   string
	generateCommitmentsFile string
	generateActivitiesFile  string
	generateSeed            int64
	generateICal            bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a weekly timetable from input files",
	Long: `Generate a timetable in one shot, without the server.

Reads the lifestyle, commitments, and activities text blocks from files and
prints the generated week as JSON (or iCal with --ical) to stdout. Missing
files count as empty input. A seed of 0 uses the current time, so repeated
runs produce different valid placements.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateLifestyleFile, "lifestyle-file", "", "File with the lifestyle text block")
	generateCmd.Flags().StringVar(&generateCommitmentsFile, "commitments-file", "", "File with the commitments text block")
	generateCmd.Flags().StringVar(&generateActivitiesFile, "activities-file", "", "File with the desired activities text block")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "Random seed (0 = time-derived)")
	generateCmd.Flags().BoolVar(&generateICal, "ical", false, "Emit iCal instead of JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := logging.Setup(os.Getenv("WEEKWEAVE_ENV"))

	in := schedule.Input{
		Lifestyle:   readOptionalFile(generateLifestyleFile),
		Commitments: readOptionalFile(generateCommitmentsFile),
		Activities:  readOptionalFile(generateActivitiesFile),
	}

	seed := generateSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	result := schedule.NewService(logger).Generate(in, seed)

	if generateICal {
		export := schedule.ExportToICal(result, "Weekweave", schedule.NextMonday(time.Now()))
		_, err := os.Stdout.Write(export.Data)
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func readOptionalFile(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
