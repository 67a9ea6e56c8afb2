// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"

	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/handshake"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// serverName is the name announced to MCP clients.
const serverName = "brssl-bridge"

// ErrNoRunner is returned by [ServerBuilder.Build] without a runner.
var ErrNoRunner = errors.New("mcpserver: no handshake runner configured")

// ToolHandler defines tool handlers. Every handler shares the server's
// [handshake.Runner], and with it the host heap and the session cache.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, r *handshake.Runner) (*mcp.CallToolResult, error)

// ToolDefinition pairs an MCP tool with its handler. Role is
// the stable key the instructions template refers to the tool by.
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
	Role    string
}

// ServerDependencies holds everything the MCP server is built from.
type ServerDependencies struct {
	Version      string
	Runner       *handshake.Runner
	Tools        []ToolDefinition
	Resources    []server.ServerResource
	Instructions string
}

// ServerBuilder constructs the [MCP] server through a fluent interface.
//
// Example:
//
//	s, err := NewServerBuilder().
//	    WithVersion("0.1.0").
//	    WithRunner(handshake.NewRunner(cfg)).
//	    WithTools(createTools()...).
//	    Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a builder with empty dependencies.
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithVersion sets the version announced to clients.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithRunner sets the runner shared by every tool.
func (b *ServerBuilder) WithRunner(r *handshake.Runner) *ServerBuilder {
	b.deps.Runner = r
	return b
}

// WithTools adds tools.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithResources adds resources.
func (b *ServerBuilder) WithResources(resources ...server.ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithInstructions sets the instructions sent on initialisation.
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// Build creates the MCP server and registers every tool and resource.
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	if b.deps.Runner == nil {
		return nil, ErrNoRunner
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
	}
	if b.deps.Instructions != "" {
		opts = append(opts, server.WithInstructions(b.deps.Instructions))
	}
	s := server.NewMCPServer(serverName, b.deps.Version, opts...)

	r := b.deps.Runner
	for _, tool := range b.deps.Tools {
		handler := tool.Handler
		s.AddTool(tool.Tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handler(ctx, request, r)
		})
	}

	for _, resource := range b.deps.Resources {
		s.AddResource(resource.Resource, resource.Handler)
	}

	return s, nil
}
