// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain acquires and presents the peer certificate chain that is
// fed to the bridge engine. It provides capabilities to:
//   - Load a chain from a PEM, DER or [PKCS#7] bundle.
//   - Fetch the chain a TLS server presents during its handshake.
//   - Render the chain as an ASCII tree or as JSON for external tools.
//
// The package never verifies a chain itself. Verification is the engine's
// job, and the chain is handed over in DER form through [Chain.DER].
//
// [PKCS#7]: https://grokipedia.com/page/PKCS_7
package x509chain
