package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"incidash/internal/classify"
	"incidash/internal/report"
	"incidash/internal/stats"
)

// Handler answers dashboard requests from a record source.
type Handler struct {
	source report.Source
}

func NewHandler(source report.Source) *Handler {
	return &Handler{source: source}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) ListViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"views": report.Views})
}

// Dashboard returns the full snapshot. ?format=table|mermaid renders text instead of JSON.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, report.ViewAll)
}

// GetView returns a single view named by the {view} path parameter.
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, chi.URLParam(r, "view"))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, view string) {
	snap, p, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = report.FormatJSON
	}
	eastern := p.Eastern
	if v := r.URL.Query().Get("eastern"); v != "" {
		eastern, _ = strconv.ParseBool(v)
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, snap, view, format, eastern); err != nil {
		switch {
		case errors.Is(err, report.ErrUnknownView):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, report.ErrUnknownFormat):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if format == report.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (*report.Snapshot, report.Params, bool) {
	recs, p, err := h.source.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load incident export")
		writeError(w, http.StatusServiceUnavailable, "incident export unavailable")
		return nil, p, false
	}
	for _, win := range []struct {
		param string
		days  *int
	}{{"days", &p.DailyDays}, {"heat_days", &p.HeatDays}} {
		n, err := parseWindow(r.URL.Query().Get(win.param), *win.days)
		if err != nil {
			writeError(w, http.StatusBadRequest, win.param+": "+err.Error())
			return nil, p, false
		}
		*win.days = n
	}

	snap, err := report.Build(r.Context(), recs, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, p, false
	}
	return snap, p, true
}

// ListRecords returns the classified incident listing. ?status= filters by
// bucket and ?limit= caps the number of rows.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	var want classify.Status
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		st, ok := classify.ParseStatus(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown status "+strconv.Quote(raw))
			return
		}
		want = st
	}

	recs, p, err := h.source.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load incident export")
		writeError(w, http.StatusServiceUnavailable, "incident export unavailable")
		return
	}

	rows := report.Filter(report.List(recs, p), want, parseIntDefault(r.URL.Query().Get("limit"), 0))
	writeJSON(w, http.StatusOK, map[string]any{"items": rows, "total": len(rows)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// parseWindow reads a window size in days. Missing or non-positive values
// fall back to def; values above stats.MaxWindowDays are rejected.
func parseWindow(raw string, def int) (int, error) {
	n := parseIntDefault(raw, 0)
	if n > stats.MaxWindowDays {
		return 0, fmt.Errorf("window of %d days exceeds the maximum of %d", n, stats.MaxWindowDays)
	}
	return stats.ClampWindow(n, def), nil
}

func parseIntDefault(raw string, def int) int {
	value := strings.TrimSpace(raw)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
