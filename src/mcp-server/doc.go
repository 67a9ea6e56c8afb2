// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver exposes the bridge to [MCP] clients over stdio: trust
// anchor inspection, peer chain fetching, complete handshakes with session
// resumption, and host heap statistics.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
