// Package mcp exposes the dashboard views as Model Context Protocol tools over stdio.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"incidash/internal/report"
)

// Version is reported to clients during initialization.
var Version = "0.1.0"

// Server holds the state for the MCP server.
type Server struct {
	source report.Source
	charts bool
}

// NewServer creates a new MCP server reading from source. With charts set,
// tool results carry a Mermaid rendering next to the data.
func NewServer(source report.Source, charts bool) *Server {
	return &Server{source: source, charts: charts}
}

// Serve runs the server over stdin/stdout until the client disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("version", Version).Bool("charts", s.charts).Msg("Starting MCP server on stdio")
	return s.build().Run(ctx, &sdk.StdioTransport{})
}

func (s *Server) build() *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: "incidash", Version: Version}, nil)
	s.registerTools(server)
	return server
}
