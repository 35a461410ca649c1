package record

import (
	"fmt"
	"strings"
)

// Location is an entry of the admin-managed location catalogue.
type Location struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// LocationLookup resolves location ids to display names.
type LocationLookup map[int]string

// NewLocationLookup indexes a location catalogue by id. Entries with id 0 are ignored.
func NewLocationLookup(locs []Location) LocationLookup {
	lookup := make(LocationLookup, len(locs))
	for _, l := range locs {
		if l.ID == 0 {
			continue
		}
		lookup[l.ID] = l.Name
	}
	return lookup
}

const unknownLocation = "نامشخص"

// LocationName resolves the display name of a record's location: an explicit
// name on the record first, then the lookup by id, then a generated placeholder.
func LocationName(r Record, lookup LocationLookup) string {
	if name := r.FirstString("location_name", "location"); name != "" {
		return name
	}
	id, ok := r.Int("location_id")
	if !ok || id == 0 {
		return unknownLocation
	}
	if name := strings.TrimSpace(lookup[id]); name != "" {
		return name
	}
	return PlaceholderLocation(id)
}

// PlaceholderLocation is the label used for a location id missing from the catalogue.
func PlaceholderLocation(id int) string {
	return fmt.Sprintf("محل #%d", id)
}
