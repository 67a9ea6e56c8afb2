// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package bridge

import (
	"github.com/H0llyW00dzZ/brssl-bridge/src/host"
	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

// Labels of the external objects the bridge allocates.
const (
	LabelRSAPublicKey  = "rsa_public_key"
	LabelECPublicKey   = "ec_public_key"
	LabelX509PKey      = "x509_pkey"
	LabelTrustAnchor   = "x509_trust_anchor"
	LabelX509Minimal   = "x509_minimal_context"
	LabelClientContext = "ssl_client_context"
)

// Bridge binds a host runtime to a native library.
type Bridge struct {
	rt  host.Runtime
	lib native.Library
}

// New returns a bridge allocating on rt and calling into lib.
func New(rt host.Runtime, lib native.Library) *Bridge {
	return &Bridge{rt: rt, lib: lib}
}

// Runtime returns the host runtime the bridge allocates on.
func (b *Bridge) Runtime() host.Runtime { return b.rt }

// Library returns the native library the bridge calls.
func (b *Bridge) Library() native.Library { return b.lib }

// view returns the contents of buf at its current length, or nil.
func (b *Bridge) view(buf *host.Bytes) []byte {
	if buf == nil {
		return nil
	}
	return buf.Data()[:b.rt.Length(buf)]
}

// object is the host-managed part of every wrapper. Embedding it makes the
// wrapper a [host.Ref].
type object struct {
	*host.Object
	rt host.Runtime
}

// Retain adds one host reference to the wrapper.
func (o *object) Retain() { o.rt.IncRef(o.Object) }

// Release drops one host reference. The wrapper is finalized when none remain.
func (o *object) Release() { o.rt.DecRef(o.Object) }

// retain takes one reference on b unless it is nil.
func retain(rt host.Runtime, b *host.Bytes) {
	if b != nil {
		rt.IncRef(b)
	}
}

// release drops the reference held in *slot, if any, and clears it.
func release(rt host.Runtime, slot **host.Bytes) {
	if *slot == nil {
		return
	}
	rt.DecRef(*slot)
	*slot = nil
}
