package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"incidash/internal/config"
	"incidash/internal/logging"
	"incidash/internal/mcp"
	"incidash/internal/report"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose     bool
	recordsFile string
	cfg         *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "incidash",
	Short: "incidash computes incident dashboard analytics from exported records",
	Long: `incidash reads an export of incident records with mixed Jalali and Gregorian dates
and free-text statuses, and computes the dashboard views: daily and weekly series,
location Pareto, response-time histograms and a calendar heatmap.

Without a subcommand it runs as an MCP server on stdio.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logging.Init(verbose); err != nil {
			log.Warn().Err(err).Msg("File logging unavailable, logging to stderr only")
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		if recordsFile != "" {
			cfg.RecordsFile = recordsFile
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("records", cfg.RecordsFile).
			Msg("incidash starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		mcp.Version = Version
		server := mcp.NewServer(report.FileSource{Config: cfg}, cfg.EnableMermaidCharts)
		return server.Serve(signalContext(cmd.Context()))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&recordsFile, "records", "r", "", "records file (overrides RECORDS_FILE)")
	rootCmd.AddCommand(reportCmd, listCmd, serveCmd, watchCmd)
}
