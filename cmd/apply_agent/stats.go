package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/tracker"
)

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Show application counts by status",
	Long:  "Reads the application tracker and prints counts by status. Requires DATABASE_URL (or --db-url); in-memory tracking leaves nothing to report between runs.",
	RunE:  statsCmd,
}

var statsDatabaseURL string

func init() {
	statsCommand.Flags().StringVar(&statsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(statsCommand)
}

func statsCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := statsDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	store, err := tracker.ConnectPostgres(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	tr, err := tracker.New(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to read tracker state: %w", err)
	}

	stats := tr.GetApplicationStats()
	fmt.Printf("Applications tracked: %d\n", stats.Total)
	fmt.Printf("  submitted:      %d\n", stats.Submitted)
	fmt.Printf("  pending manual: %d\n", stats.Pending)
	fmt.Printf("  manual review:  %d\n", stats.ManualReview)
	fmt.Printf("  failed:         %d\n", stats.Failed)
	fmt.Printf("  errored:        %d\n", stats.Error)
	return nil
}
