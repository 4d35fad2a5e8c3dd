/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/friendsincode/weekweave/internal/auth"
	"github.com/friendsincode/weekweave/internal/db"
)

var (
	apikeyName        string
	apikeyExpiresDays int
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys",
}

var apikeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new API key",
	Long:  "Create an API key and print it once. Only a digest is stored.",
	RunE:  runAPIKeyCreate,
}

var apikeyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List API keys",
	RunE:  runAPIKeyList,
}

func init() {
	apikeyCreateCmd.Flags().StringVar(&apikeyName, "name", "", "Descriptive name for the key (required)")
	apikeyCreateCmd.Flags().IntVar(&apikeyExpiresDays, "expires-days", 365, "Days until the key expires")
	_ = apikeyCreateCmd.MarkFlagRequired("name")

	apikeyCmd.AddCommand(apikeyCreateCmd)
	apikeyCmd.AddCommand(apikeyListCmd)
	rootCmd.AddCommand(apikeyCmd)
}

func runAPIKeyCreate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	expiresIn := time.Duration(apikeyExpiresDays) * 24 * time.Hour
	plaintext, apiKey, err := auth.GenerateAPIKey(apikeyName, expiresIn)
	if err != nil {
		return fmt.Errorf("generate api key: %w", err)
	}
	if err := database.Create(apiKey).Error; err != nil {
		return fmt.Errorf("store api key: %w", err)
	}

	fmt.Printf("API key created. Store it now; it will not be shown again.\n\n  %s\n\n", plaintext)
	fmt.Printf("Name: %s\nExpires: %s\n", apiKey.Name, apiKey.ExpiresAt.Format(time.RFC3339))
	return nil
}

func runAPIKeyList(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	keys, err := auth.ListAPIKeys(database)
	if err != nil {
		return fmt.Errorf("list api keys: %w", err)
	}

	if len(keys) == 0 {
		fmt.Println("no api keys")
		return nil
	}
	for _, key := range keys {
		status := "active"
		if key.IsRevoked() {
			status = "revoked"
		} else if key.IsExpired() {
			status = "expired"
		}
		fmt.Printf("%s  %s...  %-8s  expires %s  %s\n",
			key.ID, key.KeyPrefix, status, key.ExpiresAt.Format("2006-01-02"), key.Name)
	}
	return nil
}
