// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// brssl-bridge is a command-line tool that drives a BearSSL-style client
// engine through the refcounting host bridge.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/brssl-bridge/cmd/brssl-bridge@latest
//
// # Usage
//
//	brssl-bridge anchors FILE [--json]
//	brssl-bridge handshake --anchors FILE (--chain FILE | --connect HOST[:PORT]) [FLAGS]
//
// # Flags
//
//	-c, --config       Configuration file (JSON or YAML, default: $BRSSL_BRIDGE_CONFIG)
//	    --debug        Log host and bridge lifecycle events
//	-a, --anchors      Trust anchor bundle (PEM, DER or PKCS#7)
//	-f, --chain        Peer certificate chain, leaf first
//	    --connect      Fetch the peer chain from a live server
//	-n, --server-name  Server name sent on reset
//	-o, --save-chain   Write the peer chain as PEM
//	    --time         Verification time in RFC 3339
//	-r, --resume       Resume the cached session in a second engine
//	-j, --json         Emit JSON
//
// # Examples
//
// List the anchors built from a bundle:
//
//	brssl-bridge anchors /etc/ssl/certs/ca-certificates.crt
//
// Verify a saved chain:
//
//	brssl-bridge handshake --anchors roots.pem --chain chain.pem --server-name example.com
//
// Fetch a live chain, keep a copy and resume the session:
//
//	brssl-bridge handshake --anchors roots.pem --connect example.com --save-chain chain.pem --resume
package main
