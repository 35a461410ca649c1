package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"incidash/internal/classify"
	"incidash/internal/record"
	"incidash/internal/stats"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	RecordsFile         string
	StatusCatalog       string
	LocationsFile       string
	Timezone            string
	EasternDigits       bool
	DailyWindowDays     int
	HeatWindowDays      int
	HTTPAddr            string
	RefreshSchedule     string
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              filepath.Join(dataPath, "logs"),
		RecordsFile:         resolve(dataPath, getEnv("RECORDS_FILE", "incidents.jsonl")),
		StatusCatalog:       resolve(dataPath, getEnv("STATUS_CATALOG", "")),
		LocationsFile:       resolve(dataPath, getEnv("LOCATIONS_FILE", "")),
		Timezone:            getEnv("TIMEZONE", "Asia/Tehran"),
		EasternDigits:       getEnvBool("EASTERN_DIGITS", false),
		DailyWindowDays:     getEnvInt("DAILY_WINDOW_DAYS", stats.DefaultDailyDays),
		HeatWindowDays:      getEnvInt("HEAT_WINDOW_DAYS", stats.DefaultHeatDays),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		RefreshSchedule:     getEnv("REFRESH_SCHEDULE", "@every 5m"),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	return cfg, nil
}

// Location resolves the configured time zone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StatusMap builds the status id mapping from the configured catalogue, or the
// fixed default mapping when none is configured.
func (c *AppConfig) StatusMap() (classify.StatusMap, error) {
	if c.StatusCatalog == "" {
		return classify.DefaultStatusMap(), nil
	}
	defs, err := LoadStatusCatalog(c.StatusCatalog)
	if err != nil {
		return nil, err
	}
	sm, err := classify.BuildStatusMap(defs)
	if err != nil {
		return nil, fmt.Errorf("status catalogue %s: %w", c.StatusCatalog, err)
	}
	log.Debug().Int("entries", len(sm)).Str("path", c.StatusCatalog).Msg("Status catalogue loaded")
	return sm, nil
}

// Locations loads the configured location catalogue. No file means an empty lookup.
func (c *AppConfig) Locations() (record.LocationLookup, error) {
	if c.LocationsFile == "" {
		return record.LocationLookup{}, nil
	}
	return LoadLocations(c.LocationsFile)
}

// Options assembles the aggregation options for this configuration.
func (c *AppConfig) Options() (stats.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return stats.Options{}, err
	}
	sm, err := c.StatusMap()
	if err != nil {
		return stats.Options{}, err
	}
	return stats.Options{Location: loc, Statuses: sm}, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Int("default", fallback).Msg("Ignoring invalid integer setting")
	}
	return fallback
}
