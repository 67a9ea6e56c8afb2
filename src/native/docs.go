// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package native describes the native TLS client engine the bridge drives:
// its record layouts (public keys, the tagged key union, trust anchors, the
// engine, client and minimal X.509 verifier contexts), its status codes, and
// the entry points the bridge calls.
//
// The layouts follow the [BearSSL] client API. Raw key and name fields are
// plain slices that alias managed host buffers; the engine never owns them.
//
// [Reference] is a pure Go model of the engine used by tests and the CLI. It
// implements the state transitions, buffer sizing and trust-anchor retention
// rules of the real library, and delegates certificate parsing and signature
// checks to [crypto/x509]. It does not implement the record layer: handshake
// progression is exposed through [RecordLayer] so a transport (or a test) can
// deliver the peer's certificate chain.
//
// [BearSSL]: https://bearssl.org/
package native
