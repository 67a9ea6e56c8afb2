// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/handshake"
	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/anchors"
	x509chain "github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/chain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrHandshakeFailed is returned when the engine does not reach the
// established state.
var ErrHandshakeFailed = errors.New("handshake failed")

type handshakeFlags struct {
	anchorsFile string
	chainFile   string
	connect     string
	serverName  string
	saveChain   string
	verifyTime  string
	resume      bool
	asJSON      bool
}

func newHandshakeCommand(opts *options) *cobra.Command {
	var f handshakeFlags

	cmd := &cobra.Command{
		Use:   "handshake",
		Short: "Run the client engine against a peer certificate chain",
		Long: `Creates a verifier and a client engine, initialises the engine with the trust
anchors, binds an I/O buffer, resets it for the server name and feeds it the
peer chain read from a file or fetched from a live server.

With --resume the session established by the first run is cached and a
second engine resumes it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHandshake(cmd.Context(), cmd.OutOrStdout(), opts, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.anchorsFile, "anchors", "a", "", "trust anchor bundle (PEM, DER or PKCS#7)")
	flags.StringVarP(&f.chainFile, "chain", "f", "", "peer certificate chain, leaf first")
	flags.StringVar(&f.connect, "connect", "", "fetch the peer chain from HOST[:PORT]")
	flags.StringVarP(&f.serverName, "server-name", "n", "", "server name sent on reset (default: config, then the --connect host)")
	flags.StringVarP(&f.saveChain, "save-chain", "o", "", "write the peer chain as PEM to this file")
	flags.StringVar(&f.verifyTime, "time", "", "verification time in RFC 3339 (default: now)")
	flags.BoolVarP(&f.resume, "resume", "r", false, "resume the cached session in a second engine")
	flags.BoolVarP(&f.asJSON, "json", "j", false, "emit JSON instead of text")

	_ = cmd.MarkFlagRequired("anchors")
	cmd.MarkFlagsOneRequired("chain", "connect")
	cmd.MarkFlagsMutuallyExclusive("chain", "connect")
	return cmd
}

func runHandshake(ctx context.Context, out io.Writer, opts *options, f handshakeFlags) error {
	req := handshake.Request{ServerName: f.serverName, Resume: f.resume, Attempts: 1}
	if f.resume {
		req.Attempts = 2
	}
	if f.verifyTime != "" {
		t, err := time.Parse(time.RFC3339, f.verifyTime)
		if err != nil {
			return fmt.Errorf("invalid --time: %w", err)
		}
		req.Time = t
	}
	if req.ServerName == "" {
		req.ServerName = opts.cfg.Engine.ServerName
	}

	var err error
	if f.connect != "" {
		if req.ServerName == "" {
			req.ServerName = connectHost(f.connect)
		}
		req.Peer, err = x509chain.FetchRemoteChain(ctx, f.connect, req.ServerName)
	} else {
		req.Peer, err = x509chain.LoadFile(f.chainFile)
	}
	if err != nil {
		return err
	}

	if f.saveChain != "" {
		if err := os.WriteFile(f.saveChain, req.Peer.PEM(), 0o644); err != nil {
			return fmt.Errorf("failed to save chain: %w", err)
		}
		opts.log.Printf("Saved %d certificates to %s", req.Peer.Len(), f.saveChain)
	}

	r := handshake.NewRunner(opts.cfg)
	defer checkLeaks(r, opts.zl)

	req.Anchors, _, err = anchors.LoadFile(r.Bridge(), f.anchorsFile)
	if err != nil {
		return err
	}
	defer anchors.Release(req.Anchors)
	opts.log.Printf("Loaded %d trust anchors from %s", len(req.Anchors), f.anchorsFile)

	attempts, err := r.Run(ctx, req)
	if err != nil {
		return err
	}
	opts.zl.Debug("session cache", zap.String("stats", r.Sessions().Stats()))

	last := attempts[len(attempts)-1]
	if err := report(out, f.asJSON, req.Peer, attempts, last.Established()); err != nil {
		return err
	}

	if !last.Established() {
		return fmt.Errorf("%w: %s", ErrHandshakeFailed, last.LastError)
	}
	return nil
}

func report(out io.Writer, asJSON bool, peer *x509chain.Chain, attempts []handshake.Attempt, verified bool) error {
	verdict := "rejected"
	if verified {
		verdict = "established"
	}

	if asJSON {
		chainJSON, err := peer.ToVisualizationJSON(verdict)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(struct {
			Attempts []handshake.Attempt `json:"attempts"`
			Chain    json.RawMessage     `json:"chain"`
		}{attempts, chainJSON}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	for _, a := range attempts {
		line := fmt.Sprintf("Attempt %d: state=%s error=%s", a.Attempt, a.State, a.LastError)
		if a.Resumed {
			line += " resumed=true"
		}
		if a.SessionID != "" {
			line += " session=" + a.SessionID
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(out, peer.RenderASCIITree(verified))
	return err
}

// connectHost returns the host part of a HOST[:PORT] address.
func connectHost(address string) string {
	if h, _, err := net.SplitHostPort(address); err == nil {
		return h
	}
	return address
}
