// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package bridge lets a reference-counted host drive the native TLS client
// engine described by package [native]. It wraps public keys, the tagged key
// union, trust anchors, the minimal X.509 verifier and the client engine
// context as host-managed external objects whose finalizers release exactly
// the host buffers they own.
//
// Ownership follows a few fixed rules:
//   - RSAPublicKey, ECPublicKey and TrustAnchor take over the buffer
//     references they are given. The caller must not release them again.
//   - PKeyRSA, PKeyEC and TrustAnchor consume the key wrapper they are given:
//     they take their own reference on each key buffer and then drop the
//     caller's wrapper reference.
//   - EngineHandle.SetBuffer borrows the I/O buffer. The host keeps it alive
//     for as long as the engine runs.
//   - ClientContext.InitFull copies anchor records into a short-lived array.
//     The anchor wrappers stay the owners of their buffers and must outlive
//     the engine.
//   - ClientContext.Reset consumes the server name on every path.
//
// Usage:
//
//	b := bridge.New(host.NewHeap(host.HeapConfig{}), native.NewReference())
//	n, _ := host.Copy(b.Runtime(), modulus)
//	e, _ := host.Copy(b.Runtime(), exponent)
//	rsa, _ := b.RSAPublicKey(n, e)
//	pkey, _ := b.PKeyRSA(rsa)
//	dn, _ := host.Copy(b.Runtime(), rawSubject)
//	ta, _ := b.TrustAnchor(dn, native.X509TACA, pkey)
//
//	xc, _ := b.X509MinimalContext()
//	cc, _ := b.ClientContext()
//	cc.InitFull(xc, []*bridge.TrustAnchor{ta})
//	cc.Engine().SetBuffer(ioBuf)
//	name, _ := host.Copy(b.Runtime(), []byte("example.com"))
//	if cc.Reset(name, false) == 0 {
//		// inspect cc.LastError()
//	}
//
// Nothing in this package locks. A wrapper must be used by one goroutine at a time.
package bridge
