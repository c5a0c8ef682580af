// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/devevent/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the DevEvent MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.EventStore) *server.MCPServer {
	s := server.NewMCPServer(
		"DevEvent Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	s.AddTool(mcp.NewTool("list_events",
		mcp.WithDescription("List events, newest first, from the configured database."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of events returned.")),
	), h.handleListEvents)

	s.AddTool(mcp.NewTool("connection_status",
		mcp.WithDescription("Report the state of the shared database connection and the number of stored events."),
	), h.handleConnectionStatus)

	s.AddTool(mcp.NewTool("render_event_card",
		mcp.WithDescription("Render the HTML card for a single event."),
		mcp.WithString("title", mcp.Description("Event title."), mcp.Required()),
		mcp.WithString("image", mcp.Description("Poster image URI.")),
		mcp.WithString("slug", mcp.Description("Event slug.")),
		mcp.WithString("location", mcp.Description("Event location.")),
		mcp.WithString("date", mcp.Description("Event date.")),
		mcp.WithString("time", mcp.Description("Event time.")),
	), h.handleRenderEventCard)

	return s
}

// StartMCPServer serves the DevEvent MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.EventStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
