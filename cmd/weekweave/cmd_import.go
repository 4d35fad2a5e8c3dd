/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/friendsincode/weekweave/internal/db"
	"github.com/friendsincode/weekweave/internal/models"
)

var importCmd = &cobra.Command{
	Use:   "import <profiles.yaml>",
	Short: "Import generation profiles from a YAML file",
	Long: `Import profiles into the database.

The file holds a list of profiles:

  profiles:
    - name: alice
      lifestyle: "Wakes up around 06:30. Goes to bed around 23:00."
      commitments: |
        Work: Mon, Tue, Wed, Thu, Fri. Uniform time: 09:00 to 17:00.
      activities: |
        Gym: 1 hours daily, Min/Max Session: 1h/1.5h, Preferred time: morning

Existing profiles with the same name are updated.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

type profileImportFile struct {
	Profiles []profileImportEntry `yaml:"profiles"`
}

type profileImportEntry struct {
	Name        string `yaml:"name"`
	Lifestyle   string `yaml:"lifestyle"`
	Commitments string `yaml:"commitments"`
	Activities  string `yaml:"activities"`
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	var file profileImportFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	imported, updated := 0, 0
	for _, entry := range file.Profiles {
		if entry.Name == "" {
			logger.Warn().Msg("skipping profile without name")
			continue
		}

		var existing models.Profile
		err := database.First(&existing, "name = ?", entry.Name).Error
		if err == nil {
			existing.Lifestyle = entry.Lifestyle
			existing.Commitments = entry.Commitments
			existing.Activities = entry.Activities
			if err := database.Save(&existing).Error; err != nil {
				return fmt.Errorf("update profile %q: %w", entry.Name, err)
			}
			updated++
			continue
		}

		profile := models.Profile{
			ID:          uuid.NewString(),
			Name:        entry.Name,
			Lifestyle:   entry.Lifestyle,
			Commitments: entry.Commitments,
			Activities:  entry.Activities,
		}
		if err := database.Create(&profile).Error; err != nil {
			return fmt.Errorf("create profile %q: %w", entry.Name, err)
		}
		imported++
	}

	logger.Info().Int("imported", imported).Int("updated", updated).Msg("profile import complete")
	return nil
}
