package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/internal/ui"
	"github.com/huangsam/devevent/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.EventStore
}

func (h *toolHandler) handleListEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}

	events, err := h.store.ListEvents(ctx, cfg.ResultLimit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list events: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(events, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleConnectionStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.store.GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("connection unavailable: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRenderEventCard(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	card := ui.EventCard(schema.Event{
		Title:    title,
		Image:    request.GetString("image", ""),
		Slug:     request.GetString("slug", ""),
		Location: request.GetString("location", ""),
		Date:     request.GetString("date", ""),
		Time:     request.GetString("time", ""),
	})
	return mcp.NewToolResultText(string(card)), nil
}
