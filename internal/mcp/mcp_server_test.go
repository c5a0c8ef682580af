package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/huangsam/devevent/internal/contract"
	"github.com/huangsam/devevent/internal/dbconn"
	mcp_internal "github.com/huangsam/devevent/internal/mcp"
	"github.com/huangsam/devevent/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var sampleEvents = []schema.Event{
	{Title: "GopherCon", Image: "/images/event1.png", Slug: "gophercon", Location: "Chicago, IL", Date: "2025-08-26", Time: "09:00 AM"},
}

func callTool(t *testing.T, store contract.EventStore, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(&contract.Config{ResultLimit: 20}, store)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestListEvents(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		store := &contract.MockEventStore{}
		store.On("ListEvents", mock.Anything, 20).Return(sampleEvents, nil)

		res := callTool(t, store, "list_events", map[string]any{})
		assert.False(t, res.IsError)

		var events []schema.Event
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &events))
		assert.Equal(t, sampleEvents, events)
		store.AssertExpectations(t)
	})

	t.Run("explicit limit", func(t *testing.T) {
		store := &contract.MockEventStore{}
		store.On("ListEvents", mock.Anything, 5).Return([]schema.Event{}, nil)

		res := callTool(t, store, "list_events", map[string]any{"limit": 5.0})
		assert.False(t, res.IsError)
		assert.Equal(t, "[]", resultText(res))
		store.AssertExpectations(t)
	})

	t.Run("connection failure", func(t *testing.T) {
		store := &contract.MockEventStore{}
		store.On("ListEvents", mock.Anything, mock.Anything).
			Return(nil, &dbconn.ConnectionError{Backend: "mongodb", Err: errors.New("refused")})

		res := callTool(t, store, "list_events", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "connection error: mongodb: refused")
	})
}

func TestConnectionStatus(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		store := &contract.MockEventStore{}
		store.On("GetStatus", mock.Anything).Return(schema.StoreStatus{
			Connection:  schema.ConnectionStatus{Backend: "mongodb", State: schema.StateConnected, Attempts: 1},
			TotalEvents: 4,
		}, nil)

		res := callTool(t, store, "connection_status", nil)
		assert.False(t, res.IsError)

		var status schema.StoreStatus
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &status))
		assert.Equal(t, schema.StateConnected, status.Connection.State)
		assert.Equal(t, int64(4), status.TotalEvents)
	})

	t.Run("missing configuration", func(t *testing.T) {
		store := &contract.MockEventStore{}
		store.On("GetStatus", mock.Anything).Return(schema.StoreStatus{}, dbconn.ErrConfiguration)

		res := callTool(t, store, "connection_status", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "configuration error")
	})
}

func TestRenderEventCard(t *testing.T) {
	res := callTool(t, &contract.MockEventStore{}, "render_event_card", map[string]any{
		"title":    "GopherCon",
		"location": "Chicago, IL",
	})
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(res), `id="event-card"`)
	assert.Contains(t, resultText(res), `<p class="title">GopherCon</p>`)

	res = callTool(t, &contract.MockEventStore{}, "render_event_card", map[string]any{})
	assert.True(t, res.IsError)
}
