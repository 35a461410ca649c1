package mcp

import (
	"context"
	"slices"
	"strings"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestServer_InMemorySession(t *testing.T) {
	ctx := context.Background()
	s := testServer(testRecords(), true)

	clientTransport, serverTransport := sdk.NewInMemoryTransports()
	ss, err := s.build().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer ss.Close()

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer cs.Close()

	tools, err := cs.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{"dashboard_snapshot", "get_view", "daily_counts", "weekly_status", "location_pareto", "duration_histogram", "calendar_heat", "kpis", "list_incidents"} {
		if !slices.Contains(names, want) {
			t.Errorf("tool %q not registered (have %v)", want, names)
		}
	}

	res, err := cs.CallTool(ctx, &sdk.CallToolParams{Name: "weekly_status", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatalf("weekly_status returned an error result: %+v", res.Content)
	}
	if !strings.Contains(textOf(t, res, 0), `"pending"`) {
		t.Errorf("unexpected weekly payload: %s", textOf(t, res, 0))
	}

	// The kind enum rejects this either at schema validation or in the handler.
	res, err = cs.CallTool(ctx, &sdk.CallToolParams{Name: "duration_histogram", Arguments: map[string]any{"kind": "latency"}})
	if err == nil && !res.IsError {
		t.Error("expected an unknown histogram kind to be rejected")
	}
}
