// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package handshake runs complete client engines through the bridge: it
// creates the verifier and engine, initialises them with borrowed trust
// anchors, binds a buffer, resets for the server name, feeds the peer chain
// through the reference record layer and releases everything again.
//
// A [Runner] keeps one host heap and one session cache for its lifetime, so
// consecutive runs against the same server name can resume. Sessions are
// cached per server name and anchor set: a run never resumes a session that
// was authenticated under different anchors.
package handshake
