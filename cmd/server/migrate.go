package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	store.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "migrations completed successfully")
	return nil
}
