package mcp

import (
	"encoding/json"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"incidash/internal/record"
	"incidash/internal/report"
	"incidash/internal/stats"
)

const (
	fallbackWarning = "No incident carries a parseable date. The daily series is a positional placeholder and MUST NOT be read as a trend."
	anchorWarning   = "No incident carries a parseable date. Windows are anchored at today and every bucket is zero."
)

// response wraps tool data with warnings the client should relay to the user.
type response struct {
	Data     any      `json:"data"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) result(data any, warnings []string, charts ...string) (*sdk.CallToolResult, any, error) {
	res := textResult(formatResult(response{Data: data, Warnings: warnings}))
	if s.charts {
		for _, c := range charts {
			if c != "" {
				res.Content = append(res.Content, &sdk.TextContent{Text: c})
			}
		}
	}
	return res, nil, nil
}

func textResult(text string) *sdk.CallToolResult {
	return &sdk.CallToolResult{Content: []sdk.Content{&sdk.TextContent{Text: text}}}
}

func formatResult(data any) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}

func snapshotWarnings(snap *report.Snapshot) []string {
	var w []string
	if snap.Daily.IsFallback {
		w = append(w, fallbackWarning)
	} else if !snap.AnchorFromData {
		w = append(w, anchorWarning)
	}
	return w
}

func anchorWarnings(recs []record.Record, p report.Params) []string {
	if _, fromData := stats.AnchorDate(recs, p.Options); !fromData {
		return []string{anchorWarning}
	}
	return nil
}
