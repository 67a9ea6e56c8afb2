// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"fmt"

	"github.com/H0llyW00dzZ/brssl-bridge/src/bridge"
	"github.com/H0llyW00dzZ/brssl-bridge/src/config"
	"github.com/H0llyW00dzZ/brssl-bridge/src/host"
	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/handshake"
	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/brssl-bridge/src/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options carries the state shared by every subcommand of one invocation.
type options struct {
	configPath string
	debug      bool

	cfg *config.Config
	log logger.Logger
	zl  *zap.Logger
}

// checkLeaks reports buffers or wrappers still alive once a command has
// released everything it created.
func checkLeaks(r *handshake.Runner, zl *zap.Logger) {
	stats := r.Heap().Stats()
	zl.Debug("heap stats",
		zap.Int64("allocations", stats.Allocations),
		zap.Int64("finalizations", stats.Finalizations),
		zap.Int64("refused", stats.Refused),
	)
	if stats.LiveBuffers != 0 || stats.LiveObjects != 0 {
		zl.Warn("host heap not drained",
			zap.Int64("live_buffers", stats.LiveBuffers),
			zap.Int64("live_objects", stats.LiveObjects),
		)
	}
}

// setup loads the configuration and installs the loggers.
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.debug {
		cfg.Log.Debug = true
	}
	o.cfg = cfg

	if cfg.Log.Format == "json" {
		o.log = logger.NewJSONLogger(cmd.ErrOrStderr(), false)
	}

	o.zl = logger.NewZap(cfg.Log.Format, cmd.ErrOrStderr(), cfg.Log.Debug)
	host.SetLogger(o.zl)
	bridge.SetLogger(o.zl)
	return nil
}

// NewRootCommand builds the command tree. log receives human-readable
// progress messages unless the configuration selects JSON logging.
func NewRootCommand(version string, log logger.Logger) *cobra.Command {
	opts := &options{log: log}
	name := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:   name,
		Short: "Drive a BearSSL-style client engine through a refcounted host bridge",
		Long: `Builds trust anchors, a minimal X.509 verifier and a client engine through
the refcounting bridge, then runs the handshake against a peer certificate chain.`,
		Version: version,
		Example: fmt.Sprintf(`  %[1]s anchors roots.pem
  %[1]s handshake --anchors roots.pem --chain peer.pem --server-name example.com
  %[1]s handshake --anchors roots.pem --connect example.com:443 --resume
  %[1]s mcp`, name),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (JSON or YAML, default: $"+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log host and bridge lifecycle events")

	rootCmd.AddCommand(newAnchorsCommand(opts), newHandshakeCommand(opts), newMCPCommand(opts))
	return rootCmd
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return NewRootCommand(version, log).ExecuteContext(ctx)
}
