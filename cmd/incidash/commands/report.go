package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"incidash/internal/api"
	"incidash/internal/classify"
	"incidash/internal/report"
	"incidash/internal/watch"
)

var (
	reportView    string
	reportFormat  string
	reportDays    int
	reportHeat    int
	reportEastern bool

	listStatus string
	listLimit  int

	serveAddr string

	watchSchedule string
	watchOut      string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print dashboard views",
	Long:  "Print one dashboard view, or all of them, as aligned tables, JSON or Mermaid charts.\nViews: " + strings.Join(report.Views, ", "),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		recs, p, err := report.FileSource{Config: cfg}.Load(ctx)
		if err != nil {
			return err
		}
		if reportDays > 0 {
			p.DailyDays = reportDays
		}
		if reportHeat > 0 {
			p.HeatDays = reportHeat
		}
		if cmd.Flags().Changed("eastern") {
			p.Eastern = reportEastern
		}

		snap, err := report.Build(ctx, recs, p)
		if err != nil {
			return err
		}
		return report.Write(os.Stdout, snap, reportView, reportFormat, p.Eastern)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List incidents with their classified date, status, domain and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		var want classify.Status
		if listStatus != "" {
			st, ok := classify.ParseStatus(listStatus)
			if !ok {
				return fmt.Errorf("unknown status %q", listStatus)
			}
			want = st
		}
		recs, p, err := report.FileSource{Config: cfg}.Load(cmd.Context())
		if err != nil {
			return err
		}
		rows := report.Filter(report.List(recs, p), want, listLimit)
		return report.RowsTable(rows).Render(os.Stdout, p.Eastern)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard views over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		return api.Serve(signalContext(cmd.Context()), addr, report.FileSource{Config: cfg})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rewrite a JSON snapshot of every view on a cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		expr := cfg.RefreshSchedule
		if watchSchedule != "" {
			expr = watchSchedule
		}
		sched, err := watch.ParseSchedule(expr)
		if err != nil {
			return err
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		w := &watch.Watcher{
			Source:   report.FileSource{Config: cfg},
			Schedule: sched,
			Out:      watchOut,
			Location: loc,
		}
		return w.Run(signalContext(cmd.Context()))
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportView, "view", report.ViewAll, "view to print, or 'all'")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", report.FormatTable, "output format: table, json or mermaid")
	reportCmd.Flags().IntVar(&reportDays, "days", 0, "daily window in days (overrides DAILY_WINDOW_DAYS)")
	reportCmd.Flags().IntVar(&reportHeat, "heat-days", 0, "heatmap window in days (overrides HEAT_WINDOW_DAYS)")
	reportCmd.Flags().BoolVar(&reportEastern, "eastern", false, "use Persian digits (overrides EASTERN_DIGITS)")

	listCmd.Flags().StringVar(&listStatus, "status", "", "only list incidents in this status bucket")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of rows")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")

	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "cron expression or @every duration (overrides REFRESH_SCHEDULE)")
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "snapshot.json", "snapshot output path")
}
