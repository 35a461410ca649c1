package report

import (
	"context"
	"fmt"

	"incidash/internal/config"
	"incidash/internal/record"
)

// Source supplies the records to aggregate and the parameters to aggregate
// them with. Implementations are read on every request so edits to the export
// show up without a restart.
type Source interface {
	Load(ctx context.Context) ([]record.Record, Params, error)
}

// FileSource reads the export and catalogues named by the configuration.
type FileSource struct {
	Config *config.AppConfig
}

// Load implements Source.
func (f FileSource) Load(ctx context.Context) ([]record.Record, Params, error) {
	if err := ctx.Err(); err != nil {
		return nil, Params{}, err
	}
	p, err := ParamsFromConfig(f.Config)
	if err != nil {
		return nil, Params{}, err
	}
	recs, err := record.LoadFile(f.Config.RecordsFile)
	if err != nil {
		return nil, Params{}, err
	}
	return recs, p, nil
}

// ParamsFromConfig resolves the time zone, status catalogue and location
// catalogue of a configuration into aggregation parameters.
func ParamsFromConfig(cfg *config.AppConfig) (Params, error) {
	opts, err := cfg.Options()
	if err != nil {
		return Params{}, err
	}
	locs, err := cfg.Locations()
	if err != nil {
		return Params{}, fmt.Errorf("failed to load locations: %w", err)
	}
	return Params{
		DailyDays: cfg.DailyWindowDays,
		HeatDays:  cfg.HeatWindowDays,
		Locations: locs,
		Options:   opts,
		Eastern:   cfg.EasternDigits,
	}, nil
}

// StaticSource serves a fixed record set.
type StaticSource struct {
	Records []record.Record
	Params  Params
}

// Load implements Source.
func (s StaticSource) Load(ctx context.Context) ([]record.Record, Params, error) {
	return s.Records, s.Params, ctx.Err()
}
