// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"errors"

	mcpserver "github.com/H0llyW00dzZ/brssl-bridge/src/mcp-server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMCPCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the bridge as MCP tools over stdio",
		Long: `Starts a Model Context Protocol server on stdin and stdout. All tool calls
share one host heap and one session cache, so a later run_handshake call can
resume a session an earlier one established. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.zl.Info("serving MCP over stdio", zap.String("version", cmd.Root().Version))

			r, err := mcpserver.Run(cmd.Context(), cmd.Root().Version, opts.cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			if r != nil {
				checkLeaks(r, opts.zl)
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
