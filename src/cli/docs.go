// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for brssl-bridge.
//
// It wires the configuration, the host heap, the bridge and the reference
// engine together behind a [cobra] command tree:
//
//   - anchors FILE: build trust anchors from a certificate bundle and list them.
//   - handshake: run a client engine against a peer chain from a file or a
//     live server, optionally resuming the session in a second engine.
//   - mcp: serve the same operations as MCP tools over stdio.
//
// [cobra]: https://github.com/spf13/cobra
package cli
