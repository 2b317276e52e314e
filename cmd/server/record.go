package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"searchrelay/internal/validation"
)

var recordCmd = &cobra.Command{
	Use:   "record <query>",
	Short: "Record a search query in history",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	query := strings.Join(args, " ")
	if err := store.RecordQuery(cmd.Context(), query); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "recorded %q\n", validation.NormalizeQuery(query))
	return nil
}
