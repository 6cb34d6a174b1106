// Package mcpserver exposes the document store as Model Context Protocol
// tools, so an AI agent can build landing pages through the same store the
// HTTP editor uses.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pagesmith/internal/document"
	"pagesmith/internal/generate"
)

// Server is the MCP server for PageSmith.
type Server struct {
	mcp       *server.MCPServer
	doc       *document.Store
	generator *generate.Generator // nil without an AI provider
}

// Deps holds the collaborators of the MCP server.
type Deps struct {
	Document  *document.Store
	Generator *generate.Generator
	Version   string
}

// New creates and configures the MCP server with all tools registered.
func New(d Deps) *Server {
	if d.Version == "" {
		d.Version = "dev"
	}
	s := &Server{doc: d.Document, generator: d.Generator}
	s.mcp = server.NewMCPServer(
		"pagesmith",
		d.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registerPageTools()
	s.registerSectionTools()
	return s
}

// ServeStdio serves MCP on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	slog.Info("mcp server listening on stdio")
	return server.ServeStdio(s.mcp)
}

// flush persists pending changes after a tool mutated the collection.
func (s *Server) flush(ctx context.Context) error {
	if err := s.doc.Flush(ctx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult reports a failed operation to the agent as a tool error
// rather than a protocol error.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

func getString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func getInt(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// rawJSON returns the argument as raw JSON. Objects are accepted as is and
// strings are taken to hold JSON text.
func rawJSON(args map[string]any, key string) (json.RawMessage, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return nil, nil
		}
		if !json.Valid([]byte(s)) {
			return nil, fmt.Errorf("%s is not valid JSON", key)
		}
		return json.RawMessage(s), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func boolPtr(v bool) *bool { return &v }
