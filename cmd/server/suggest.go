package main

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"searchrelay/internal/server"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Print suggestions for a query as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	resp := server.NewPipeline(cfg, store).Suggest(cmd.Context(), strings.Join(args, " "))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
