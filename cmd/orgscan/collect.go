package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orgscan/orgscan/internal/collector"
	"github.com/orgscan/orgscan/internal/config"
	"github.com/orgscan/orgscan/internal/database"
	"github.com/orgscan/orgscan/internal/log"
	"github.com/orgscan/orgscan/internal/model"
	"github.com/orgscan/orgscan/internal/report"
)

// NewCollectCmd creates the collect command.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect <domain>",
		Short: "Collect organization intelligence for a domain",
		Long: `Collect gathers evidence about an organization from its web presence
and search engines.

It discovers the site's URLs, runs extraction tools per page under an
adaptive decision policy, fires phased search queries, then fills coverage
gaps with a targeted second pass. The run produces scored evidence across
categories (company info, tech stack, team, financial signals, market
position, security posture, API surface) plus a full audit trail.

Examples:
  # Collect intelligence on a company
  orgscan collect example.com --company "Example Corp"

  # Quick shallow pass
  orgscan collect example.com --company "Example Corp" --depth shallow

  # Shape search queries around an investment thesis
  orgscan collect example.com --company "Example Corp" --thesis buy-and-build

  # JSON report written to a file
  orgscan collect example.com --company "Example Corp" --json -o report.json

  # Use a custom configuration file
  orgscan collect -c myconfig.yaml example.com --company "Example Corp"

Configuration file (.orgscan) example:
  domains:
    example.com:
      seedPaths: ["/company/leadership", "/en/about"]
      maxURLs: 300
  targets:
    tech-stack: 40
  required: [company-info]`,
		Args: cobra.ExactArgs(1),
		RunE: runCollectCmd,
	}

	// Target flags
	cmd.Flags().StringP("company", "n", "",
		"Company name used in search queries (required)")
	cmd.Flags().String("thesis", "",
		"Investment thesis shaping search strategy (accelerate-organic-growth, buy-and-build, digital-transformation)")
	cmd.Flags().StringP("depth", "d", model.DepthDeep,
		"Collection preset: shallow, deep, or comprehensive")

	// Collection behavior flags
	cmd.Flags().IntP("max-urls", "u", config.DefaultMaxURLs,
		"Maximum number of URLs to discover per domain")
	cmd.Flags().IntP("concurrency", "p", config.DefaultConcurrency,
		"Number of concurrent fetches and URL loops")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each page fetch")
	cmd.Flags().Bool("no-render", false,
		"Disable the headless-browser rendered collector")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .orgscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().String("db-dir", "",
		"Directory for the collection database (default: XDG data directory)")
	cmd.Flags().Bool("no-db", false,
		"Skip saving the run to the collection database")

	return cmd
}

// runCollectCmd executes the collect command.
func runCollectCmd(cmd *cobra.Command, args []string) error {
	cfg, req, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCollect(ctx, cfg, req, logger)
}

// buildConfig creates a Config and CollectionRequest from cobra flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, model.CollectionRequest, error) {
	cfg := config.NewConfig()
	req := model.CollectionRequest{Domain: normalizeDomain(args[0])}

	var err error

	req.CompanyName, err = cmd.Flags().GetString("company")
	if err != nil {
		return nil, req, err
	}

	req.Thesis, err = cmd.Flags().GetString("thesis")
	if err != nil {
		return nil, req, err
	}

	req.Depth, err = cmd.Flags().GetString("depth")
	if err != nil {
		return nil, req, err
	}

	cfg.MaxURLs, err = cmd.Flags().GetInt("max-urls")
	if err != nil {
		return nil, req, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, req, err
	}

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, req, err
	}

	noRender, err := cmd.Flags().GetBool("no-render")
	if err != nil {
		return nil, req, err
	}
	cfg.RenderedFetch = !noRender

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, req, err
	}

	// Load per-domain overrides from the config file.
	// If the user explicitly specified a config file path, error if not
	// found. If no path was given, silently use an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Domains, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, req, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		applyFileSettings(cfg, cfg.Domains)
	} else if explicitConfigPath {
		return nil, req, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Domains = &config.File{
			Domains: make(map[string]config.DomainConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, req, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, req, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, req, err
	}

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, req, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.DefaultDBDir()
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, req, err
	}
	if noDB {
		cfg.DBDir = ""
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, req, nil
}

// applyFileSettings copies config-file quota settings into the Config.
func applyFileSettings(cfg *config.Config, f *config.File) {
	if len(f.Targets) > 0 {
		cfg.CategoryTargets = f.Targets
	}
	if len(f.Required) > 0 {
		cfg.RequiredCategories = f.Required
	}
}

// normalizeDomain strips scheme prefixes and trailing slashes so users can
// paste a URL where a bare domain is expected.
func normalizeDomain(domain string) string {
	for _, prefix := range []string{"https://", "http://"} {
		domain = strings.TrimPrefix(domain, prefix)
	}
	return strings.TrimSuffix(domain, "/")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a redacting structured logger based on verbosity.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return log.NewLogger(os.Stderr, level)
}

// runCollect executes the collection run.
func runCollect(ctx context.Context, cfg *config.Config, req model.CollectionRequest, logger *slog.Logger) error {
	if req.CompanyName == "" {
		return errors.New("no company name provided (use --company)")
	}

	logger.Info("starting collection",
		"domain", req.Domain,
		"company", req.CompanyName,
		"depth", req.Depth,
		"saveToDB", cfg.DBDir != "",
	)

	// Open the database if persistence is enabled.
	var db *database.CollectionDB
	if cfg.DBDir != "" {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	fmt.Printf("Collecting intelligence on %s (%s)...\n", req.CompanyName, req.Domain)
	startTime := time.Now()

	result, runErr := collector.New(cfg, logger).Run(ctx, req)
	if runErr != nil && result == nil {
		return runErr
	}

	elapsed := time.Since(startTime)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Collection ended early after %s: %v (partial results follow)\n\n",
			elapsed.Round(time.Millisecond), runErr)
	} else {
		fmt.Printf("Collection completed in %s\n\n", elapsed.Round(time.Millisecond))
	}

	// Generate and output the report.
	if err := outputReport(cfg, result); err != nil {
		logger.Error("report failed", "domain", req.Domain, "error", err)
		return err
	}

	// Save to database if enabled.
	if err := saveCollection(ctx, db, result, logger); err != nil {
		logger.Error("failed to save collection", "domain", req.Domain, "error", err)
	}

	return nil
}

// outputReport outputs the collection result in the requested format.
func outputReport(cfg *config.Config, result *model.CollectionResult) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain scraped personal data; owner-only access.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(result)
	return err
}

// saveCollection saves the run to the database if enabled.
// If db is nil, this function is a no-op.
func saveCollection(ctx context.Context, db *database.CollectionDB, result *model.CollectionResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveCollection(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}

	logger.Info("collection saved to database",
		"domain", result.Request.Domain,
		"id", id,
	)
	return nil
}
