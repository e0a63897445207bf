package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/orgscan/orgscan/internal/config"
	"github.com/orgscan/orgscan/internal/database"
	"github.com/orgscan/orgscan/internal/report"
)

// NewHistoryCmd creates the history command.
// This command inspects past collection runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "List past collection runs stored in the database",
		Long: `History lists collection runs saved by previous 'orgscan collect' invocations.

Without a domain, every stored run is listed. With a domain, only that
domain's runs are shown. Use --show-id to print a stored run's full report.

Examples:
  # List every stored run
  orgscan history

  # List runs for one domain
  orgscan history example.com

  # Print the full report of run 5
  orgscan history --show-id 5

  # Print run 5 as JSON
  orgscan history --show-id 5 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("show-id", "i", 0,
		"Print the full report of a stored run by ID (use the list to find IDs)")
	cmd.Flags().IntP("limit", "l", 20,
		"Maximum number of runs to list")
	cmd.Flags().BoolP("json", "j", false,
		"Output the stored run in JSON format (with --show-id)")
	cmd.Flags().String("db-dir", "",
		"Directory of the collection database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.DefaultDBDir()
	}

	// Open read-only: a missing database means no runs were ever saved.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no stored collections found: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	showID, err := cmd.Flags().GetInt64("show-id")
	if err != nil {
		return err
	}
	if showID > 0 {
		return showStoredRun(ctx, cmd, db, showID)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	var domain string
	if len(args) > 0 {
		domain = normalizeDomain(args[0])
	}

	return listStoredRuns(ctx, cmd, db, domain, limit)
}

// showStoredRun prints a stored run's full report.
func showStoredRun(ctx context.Context, cmd *cobra.Command, db *database.CollectionDB, id int64) error {
	result, err := db.GetCollection(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("no stored run with ID %d", id)
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	var writer report.Writer
	if asJSON {
		writer = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	} else {
		writer = report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(true))
	}

	_, err = writer.Write(result)
	return err
}

// listStoredRuns prints a table of stored runs.
func listStoredRuns(ctx context.Context, cmd *cobra.Command, db *database.CollectionDB, domain string, limit int) error {
	records, err := db.ListCollections(ctx, domain, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		if domain != "" {
			return errors.New("no stored runs for " + domain)
		}
		return errors.New("no stored runs (run 'orgscan collect' first)")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-5s %-30s %-25s %-20s %-9s %s\n",
		"ID", "DOMAIN", "COMPANY", "STARTED", "EVIDENCE", "COVERAGE")
	fmt.Fprintln(out, strings.Repeat("-", 100))

	for _, r := range records {
		fmt.Fprintf(out, "%-5d %-30s %-25s %-20s %-9d %.0f%%\n",
			r.ID,
			truncateCell(r.Domain, 30),
			truncateCell(r.CompanyName, 25),
			r.StartedAt.Format(time.DateTime),
			r.EvidenceCount,
			r.Coverage,
		)
	}

	return nil
}

// truncateCell shortens a table cell value to fit its column.
func truncateCell(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
