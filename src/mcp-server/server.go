// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"io"

	"github.com/H0llyW00dzZ/brssl-bridge/src/config"
	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/handshake"
	"github.com/mark3labs/mcp-go/server"
)

// New builds the MCP server with every tool and resource registered on a
// runner created from cfg. The runner is returned so callers can inspect
// the heap after the server stops.
func New(version string, cfg *config.Config) (*server.MCPServer, *handshake.Runner, error) {
	tools := createTools()
	instructions, err := loadInstructions(tools)
	if err != nil {
		return nil, nil, err
	}

	r := handshake.NewRunner(cfg)
	s, err := NewServerBuilder().
		WithVersion(version).
		WithRunner(r).
		WithTools(tools...).
		WithResources(createResources()...).
		WithInstructions(instructions).
		Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build server: %w", err)
	}
	return s, r, nil
}

// Run serves MCP over in and out until ctx is cancelled or in is closed.
//
// Nothing else may write to out while the server runs; logs belong on
// stderr.
func Run(ctx context.Context, version string, cfg *config.Config, in io.Reader, out io.Writer) (*handshake.Runner, error) {
	s, r, err := New(version, cfg)
	if err != nil {
		return nil, err
	}

	stdio := server.NewStdioServer(s)
	errChan := make(chan error, 1)
	go func() {
		errChan <- stdio.Listen(ctx, in, out)
	}()

	select {
	case err := <-errChan:
		return r, err
	case <-ctx.Done():
		return r, fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}
