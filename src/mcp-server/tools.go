// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	x509chain "github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/chain"
	"github.com/mark3labs/mcp-go/mcp"
)

// createTools returns every MCP tool definition with its handler:
//   - list_trust_anchors: builds anchors from a bundle and describes them
//   - fetch_remote_chain: fetches the chain a TLS server presents
//   - run_handshake: runs client engines against a peer chain
//   - get_bridge_stats: reports host heap and session cache statistics
func createTools() []ToolDefinition {
	return []ToolDefinition{
		{
			Tool: mcp.NewTool("list_trust_anchors",
				mcp.WithDescription("Build trust anchors from a certificate bundle through the bridge and describe them"),
				mcp.WithString("bundle",
					mcp.Required(),
					mcp.Description("Bundle file path or base64-encoded PEM, DER or PKCS#7 data"),
				),
			),
			Handler: handleListTrustAnchors,
			Role:    "anchorLister",
		},
		{
			Tool: mcp.NewTool("fetch_remote_chain",
				mcp.WithDescription("Fetch the certificate chain a TLS server presents, without verifying it"),
				mcp.WithString("hostname",
					mcp.Required(),
					mcp.Description("Remote hostname to connect to"),
				),
				mcp.WithNumber("port",
					mcp.Description("Port number (default: "+x509chain.DefaultPort+")"),
					mcp.DefaultNumber(443),
				),
				mcp.WithString("server_name",
					mcp.Description("SNI to send (default: hostname)"),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'pem' or 'json' (default: pem)"),
					mcp.DefaultString("pem"),
				),
			),
			Handler: handleFetchRemoteChain,
			Role:    "chainFetcher",
		},
		{
			Tool: mcp.NewTool("run_handshake",
				mcp.WithDescription("Run the client engine against a peer chain with the given trust anchors"),
				mcp.WithString("anchors",
					mcp.Required(),
					mcp.Description("Trust anchor bundle file path or base64-encoded data"),
				),
				mcp.WithString("chain",
					mcp.Description("Peer chain file path or base64-encoded data, leaf first"),
				),
				mcp.WithString("hostname",
					mcp.Description("Fetch the peer chain from this host instead of 'chain'"),
				),
				mcp.WithNumber("port",
					mcp.Description("Port number for 'hostname' (default: "+x509chain.DefaultPort+")"),
					mcp.DefaultNumber(443),
				),
				mcp.WithString("server_name",
					mcp.Description("Server name sent on reset (default: configured name, then hostname)"),
				),
				mcp.WithString("time",
					mcp.Description("Verification time in RFC 3339 (default: now)"),
				),
				mcp.WithBoolean("resume",
					mcp.Description("Resume the session cached for server_name by an earlier run (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithNumber("attempts",
					mcp.Description("Engines to run in sequence (default: 1)"),
					mcp.DefaultNumber(1),
				),
			),
			Handler: handleRunHandshake,
			Role:    "handshakeRunner",
		},
		{
			Tool: mcp.NewTool("get_bridge_stats",
				mcp.WithDescription("Report host heap usage and session cache metrics"),
				mcp.WithBoolean("clear_sessions",
					mcp.Description("Drop every cached session after reporting (default: false)"),
					mcp.DefaultBool(false),
				),
			),
			Handler: handleGetBridgeStats,
			Role:    "statsReporter",
		},
	}
}
