// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/H0llyW00dzZ/brssl-bridge/src/bridge"
	"github.com/H0llyW00dzZ/brssl-bridge/src/host"
	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/handshake"
	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/anchors"
	x509certs "github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/chain"
	"github.com/mark3labs/mcp-go/mcp"
)

// maxAttempts bounds the engines a single run_handshake call may start.
const maxAttempts = 8

var errBadInput = errors.New("not a valid file path or base64 data")

// readCertificateInput reads input as a file path first, then as base64.
func readCertificateInput(input string) ([]byte, error) {
	if data, err := os.ReadFile(input); err == nil {
		return data, nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(input); err == nil {
		return decoded, nil
	}
	return nil, errBadInput
}

func decodeCertificates(input string) ([]*x509.Certificate, error) {
	data, err := readCertificateInput(input)
	if err != nil {
		return nil, err
	}
	return x509certs.New().DecodeMultiple(data)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func address(hostname string, port int) string {
	return net.JoinHostPort(hostname, strconv.Itoa(port))
}

// handleListTrustAnchors builds anchors from a bundle on the shared heap,
// describes them and releases them again.
func handleListTrustAnchors(ctx context.Context, request mcp.CallToolRequest, r *handshake.Runner) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("bundle")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bundle parameter required: %v", err)), nil
	}

	certs, err := decodeCertificates(input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read bundle: %v", err)), nil
	}

	tas, err := anchors.FromCertificates(r.Bridge(), certs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build trust anchors: %v", err)), nil
	}
	defer anchors.Release(tas)

	infos, err := anchors.Describe(tas, certs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to describe trust anchors: %v", err)), nil
	}
	return jsonResult(infos)
}

// handleFetchRemoteChain returns the chain a server presents as PEM or JSON.
func handleFetchRemoteChain(ctx context.Context, request mcp.CallToolRequest, r *handshake.Runner) (*mcp.CallToolResult, error) {
	hostname, err := request.RequireString("hostname")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hostname parameter required: %v", err)), nil
	}
	port := request.GetInt("port", 443)
	sni := request.GetString("server_name", "")
	format := request.GetString("format", "pem")

	if format != "pem" && format != "json" {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", format)), nil
	}

	ch, err := x509chain.FetchRemoteChain(ctx, address(hostname, port), sni)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch chain: %v", err)), nil
	}

	if format == "pem" {
		return mcp.NewToolResultText(string(ch.PEM())), nil
	}
	data, err := ch.ToVisualizationJSON("unverified")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

type handshakeReport struct {
	Verdict  string              `json:"verdict"`
	Attempts []handshake.Attempt `json:"attempts"`
	Chain    json.RawMessage     `json:"chain"`
}

// handleRunHandshake runs engines against a peer chain. A rejected peer is a
// successful call whose verdict is "rejected".
func handleRunHandshake(ctx context.Context, request mcp.CallToolRequest, r *handshake.Runner) (*mcp.CallToolResult, error) {
	anchorsInput, err := request.RequireString("anchors")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("anchors parameter required: %v", err)), nil
	}
	chainInput := request.GetString("chain", "")
	hostname := request.GetString("hostname", "")
	if (chainInput == "") == (hostname == "") {
		return mcp.NewToolResultError("exactly one of 'chain' or 'hostname' is required"), nil
	}

	req := handshake.Request{
		ServerName: request.GetString("server_name", ""),
		Resume:     request.GetBool("resume", false),
		Attempts:   request.GetInt("attempts", 1),
	}
	if req.Attempts < 1 || req.Attempts > maxAttempts {
		return mcp.NewToolResultError(fmt.Sprintf("attempts must be between 1 and %d", maxAttempts)), nil
	}
	if s := request.GetString("time", ""); s != "" {
		if req.Time, err = time.Parse(time.RFC3339, s); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid time: %v", err)), nil
		}
	}
	if req.ServerName == "" {
		req.ServerName = r.Config().Engine.ServerName
	}

	if hostname != "" {
		if req.ServerName == "" {
			req.ServerName = hostname
		}
		req.Peer, err = x509chain.FetchRemoteChain(ctx, address(hostname, request.GetInt("port", 443)), req.ServerName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to fetch chain: %v", err)), nil
		}
	} else {
		certs, err := decodeCertificates(chainInput)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read chain: %v", err)), nil
		}
		req.Peer = x509chain.New(certs...)
	}

	roots, err := decodeCertificates(anchorsInput)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read anchors: %v", err)), nil
	}
	req.Anchors, err = anchors.FromCertificates(r.Bridge(), roots)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build trust anchors: %v", err)), nil
	}
	defer anchors.Release(req.Anchors)

	attempts, err := r.Run(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("handshake aborted: %v", err)), nil
	}

	verdict := "rejected"
	if attempts[len(attempts)-1].Established() {
		verdict = "established"
	}
	chainJSON, err := req.Peer.ToVisualizationJSON(verdict)
	if err != nil {
		return nil, err
	}
	return jsonResult(handshakeReport{Verdict: verdict, Attempts: attempts, Chain: chainJSON})
}

type bridgeStats struct {
	Heap     host.HeapStats             `json:"heap"`
	Sessions bridge.SessionCacheMetrics `json:"sessions"`
	Summary  string                     `json:"summary"`
}

// handleGetBridgeStats reports heap and session cache usage.
func handleGetBridgeStats(ctx context.Context, request mcp.CallToolRequest, r *handshake.Runner) (*mcp.CallToolResult, error) {
	stats := bridgeStats{
		Heap:     r.Heap().Stats(),
		Sessions: r.Sessions().Metrics(),
		Summary:  r.Sessions().Stats(),
	}
	if request.GetBool("clear_sessions", false) {
		r.Sessions().Clear()
	}
	return jsonResult(stats)
}
