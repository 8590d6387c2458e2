// Package mcpserver exposes toolbox tools to other agents over the Model
// Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/germanamz/wildlife/pkg/tools/toolbox"
)

// ContextFunc prepares the context a tool handler runs with, typically by
// attaching the dependency bundle the handler expects.
type ContextFunc func(ctx context.Context) context.Context

// Option configures an MCPServer.
type Option func(*MCPServer)

// WithContext sets the hook applied to the context of every tool call.
func WithContext(fn ContextFunc) Option {
	return func(s *MCPServer) { s.prepare = fn }
}

// WithLogger logs every tool call at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(s *MCPServer) { s.log = log }
}

// MCPServer serves tools using the official MCP Go SDK.
type MCPServer struct {
	server  *mcp.Server
	prepare ContextFunc
	log     *slog.Logger
}

// New creates an MCPServer announcing itself with name and version.
func New(name, version string, opts ...Option) *MCPServer {
	s := &MCPServer{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version,
		}, nil),
	}

	for _, o := range opts {
		o(s)
	}

	return s
}

// Register adds tools to the server.
func (s *MCPServer) Register(tools ...toolbox.Tool) {
	for _, t := range tools {
		s.server.AddTool(&mcp.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}, s.handler(t))
	}
}

// RegisterToolBox adds every tool of tb.
func (s *MCPServer) RegisterToolBox(tb *toolbox.ToolBox) {
	s.Register(tb.Tools()...)
}

// Serve reads requests from in and writes responses to out until ctx is
// cancelled or in is exhausted.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return s.run(ctx, &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	})
}

func (s *MCPServer) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

func (s *MCPServer) handler(t toolbox.Tool) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if s.prepare != nil {
			ctx = s.prepare(ctx)
		}

		args := req.Params.Arguments
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}

		result, err := t.Handler(ctx, args)
		if s.log != nil {
			s.log.DebugContext(ctx, "mcp tool call", "tool", t.Name, "error", err)
		}
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result}},
		}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
