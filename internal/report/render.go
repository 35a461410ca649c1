package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"incidash/internal/visuals"
)

// Output formats accepted by Write.
const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatMermaid = "mermaid"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// ViewAll selects every view.
const ViewAll = "all"

// Write renders one view, or every view for ViewAll, in the given format.
func Write(w io.Writer, s *Snapshot, view, format string, eastern bool) error {
	names := []string{canonical(view)}
	if view == "" || canonical(view) == ViewAll {
		names = Views
	}

	switch strings.ToLower(format) {
	case "", FormatTable:
		for _, name := range names {
			tables, err := s.Tables(name)
			if err != nil {
				return err
			}
			for _, t := range tables {
				if err := t.Render(w, eastern); err != nil {
					return err
				}
			}
		}
		return nil

	case FormatJSON:
		var v any = s
		if len(names) == 1 {
			var err error
			if v, err = s.View(names[0]); err != nil {
				return err
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case FormatMermaid:
		r := visuals.Renderer{Eastern: eastern}
		for _, name := range names {
			chart, err := s.Chart(name, r)
			if err != nil {
				return err
			}
			if chart == "" {
				continue
			}
			if _, err := fmt.Fprintf(w, "%s\n\n", chart); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
