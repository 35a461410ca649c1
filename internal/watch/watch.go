// Package watch rebuilds the dashboard snapshot on a cron schedule and writes
// it to disk for static dashboards to pick up.
package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"incidash/internal/report"
)

// ErrNoNextRun is returned when a schedule has no future activation, as with
// "0 0 30 2 *".
var ErrNoNextRun = errors.New("refresh schedule never fires")

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses a standard 5-field cron expression or a descriptor
// such as "@hourly" or "@every 5m".
func ParseSchedule(expr string) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty refresh schedule")
	}
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", expr, err)
	}
	if sched.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("refresh schedule %q: %w", expr, ErrNoNextRun)
	}
	return sched, nil
}

// Watcher periodically writes a snapshot of Source to Out.
type Watcher struct {
	Source   report.Source
	Schedule cron.Schedule
	Out      string
	Location *time.Location
}

// Run refreshes once immediately, then on every tick of the schedule until
// ctx is done. It returns ErrNoNextRun once the schedule stops firing. A failed refresh is logged and the previous file is left intact.
func (w *Watcher) Run(ctx context.Context) error {
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}

	if err := w.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Snapshot refresh failed")
	}

	for {
		now := time.Now().In(loc)
		next := w.Schedule.Next(now)
		if next.IsZero() {
			return ErrNoNextRun
		}
		wait := next.Sub(now)
		log.Info().Time("next", next).Dur("in", wait.Round(time.Second)).Msg("Next snapshot refresh scheduled")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if err := w.Refresh(ctx); err != nil {
			log.Error().Err(err).Msg("Snapshot refresh failed")
		}
	}
}

// Refresh builds one snapshot and replaces Out with it atomically.
func (w *Watcher) Refresh(ctx context.Context) error {
	start := time.Now()
	recs, p, err := w.Source.Load(ctx)
	if err != nil {
		return err
	}
	snap, err := report.Build(ctx, recs, p)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := writeAtomic(w.Out, data); err != nil {
		return err
	}

	log.Info().
		Str("path", w.Out).
		Int("records", snap.Records).
		Int("pending", snap.KPIs.Pending).
		Int("closed", snap.KPIs.Closed).
		Dur("elapsed", time.Since(start)).
		Msg("Snapshot refreshed")
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
