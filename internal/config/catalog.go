package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"incidash/internal/classify"
	"incidash/internal/record"
)

// LoadStatusCatalog reads the admin status catalogue. The file is YAML (or
// JSON) and holds either a bare list of {id, name, bucket} entries or the same
// list under a "statuses" key.
func LoadStatusCatalog(path string) ([]classify.StatusDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read status catalogue: %w", err)
	}

	var doc struct {
		Statuses []classify.StatusDef `yaml:"statuses"`
	}
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Statuses) > 0 {
		return doc.Statuses, nil
	}

	var list []classify.StatusDef
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse status catalogue %s: %w", path, err)
	}
	return list, nil
}

// LoadLocations reads the location catalogue: a list of {id, name} entries
// (bare or under a "locations" key) or a plain id-to-name mapping.
func LoadLocations(path string) (record.LocationLookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations: %w", err)
	}

	var doc struct {
		Locations []record.Location `yaml:"locations"`
	}
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Locations) > 0 {
		return record.NewLocationLookup(doc.Locations), nil
	}

	var list []record.Location
	if err := yaml.Unmarshal(data, &list); err == nil {
		return record.NewLocationLookup(list), nil
	}

	var byID map[int]string
	if err := yaml.Unmarshal(data, &byID); err != nil {
		return nil, fmt.Errorf("failed to parse locations %s: %w", path, err)
	}
	lookup := make(record.LocationLookup, len(byID))
	for id, name := range byID {
		if id != 0 {
			lookup[id] = name
		}
	}
	return lookup, nil
}
