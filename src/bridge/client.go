// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package bridge

import (
	"bytes"
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/H0llyW00dzZ/brssl-bridge/src/host"
	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

// ClientContext wraps the native client engine context.
//
// The context does not own its verifier, its anchors or its I/O buffer. The
// host keeps them alive for as long as the engine runs.
type ClientContext struct {
	object
	lib         native.Library
	cc          native.SSLClientContext
	xc          *X509MinimalContext
	initialized bool
}

// ClientContext allocates a zeroed client context in [StateUnconfigured].
func (b *Bridge) ClientContext() (*ClientContext, error) {
	cc := &ClientContext{object: object{rt: b.rt}, lib: b.lib}

	obj, err := b.rt.MakeExternal(LabelClientContext, int(unsafe.Sizeof(cc.cc)), cc.finalize)
	if err != nil {
		return nil, fmt.Errorf("bridge: client context: %w", err)
	}
	cc.Object = obj
	return cc, nil
}

func (cc *ClientContext) finalize() {
	cc.xc = nil
	cc.initialized = false
	cc.cc = native.SSLClientContext{}
}

// InitFull initialises the engine with the full client profile, wires it to
// xc and installs the anchors. The records are copied into a temporary array
// handed to the engine, which is cleared and dropped before returning.
func (cc *ClientContext) InitFull(xc *X509MinimalContext, anchors []*TrustAnchor) {
	records := make([]native.X509TrustAnchor, len(anchors))
	for i, ta := range anchors {
		records[i] = ta.rec
	}

	cc.lib.ClientInitFull(&cc.cc, &xc.ctx, records)
	clear(records)

	cc.xc = xc
	cc.initialized = true
	Logger().Debug("client context initialized", zap.Uint64("id", cc.ID()), zap.Int("anchors", len(anchors)))
}

// Engine returns a borrowed handle on the embedded engine.
func (cc *ClientContext) Engine() *EngineHandle { return &EngineHandle{owner: cc} }

// Reset starts a new handshake for serverName (NUL-terminated or not; bytes
// past the first NUL are ignored). serverName is released on every path; nil
// sends no name. resume asks for an abbreviated handshake with the current
// session parameters. The native status is returned as is: 1 on success,
// 0 on failure with the cause in [ClientContext.LastError].
func (cc *ClientContext) Reset(serverName *host.Bytes, resume bool) int32 {
	var name string
	if serverName != nil {
		defer cc.rt.DecRef(serverName)
		raw := serverName.Data()[:cc.rt.Length(serverName)]
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		name = string(raw)
	}

	rc := cc.lib.ClientReset(&cc.cc, name, resume)
	Logger().Debug("client context reset",
		zap.Uint64("id", cc.ID()),
		zap.String("server_name", name),
		zap.Bool("resume", resume),
		zap.Int32("status", rc),
	)
	return rc
}

// State maps the engine state onto the client lifecycle.
func (cc *ClientContext) State() State {
	if !cc.initialized {
		return StateUnconfigured
	}

	st := cc.lib.EngineCurrentState(&cc.cc.Eng)
	switch {
	case st&native.StateClosed != 0:
		if cc.lib.EngineLastError(&cc.cc.Eng) != native.ErrOK {
			return StateFailed
		}
		return StateInitialized
	case st&native.StateSendApp != 0:
		return StateEstablished
	default:
		return StateHandshaking
	}
}

// LastError returns the engine error code ([native.ErrOK] when none).
func (cc *ClientContext) LastError() int32 { return cc.lib.EngineLastError(&cc.cc.Eng) }

// Verifier returns the verifier installed by InitFull, or nil.
func (cc *ClientContext) Verifier() *X509MinimalContext { return cc.xc }

// SessionParameters returns a copy of the current session parameters.
func (cc *ClientContext) SessionParameters() native.SessionParameters {
	return cc.lib.EngineSessionParameters(&cc.cc.Eng)
}

// SetSessionParameters installs parameters for a later Reset with resume.
func (cc *ClientContext) SetSessionParameters(p native.SessionParameters) {
	cc.lib.EngineSetSessionParameters(&cc.cc.Eng, p)
}

// Native returns the native client context for a record layer. It is valid
// while cc is alive.
func (cc *ClientContext) Native() *native.SSLClientContext { return &cc.cc }

// EngineHandle is a borrowed view of a client's embedded engine. It is valid
// while the owning [ClientContext] is alive.
type EngineHandle struct {
	owner *ClientContext
}

// SetBuffer binds buf as the engine's bidirectional I/O buffer using its
// full current length. buf is borrowed: no reference is taken.
func (h *EngineHandle) SetBuffer(buf *host.Bytes) {
	cc := h.owner
	cc.lib.EngineSetBuffer(&cc.cc.Eng, buf.Data()[:cc.rt.Length(buf)], true)
	Logger().Debug("engine buffer bound",
		zap.Uint64("id", cc.ID()),
		zap.Int("size", cc.rt.Length(buf)),
		zap.Int("max_frag_len", cc.cc.Eng.MaxFragLen()),
	)
}

// Native returns the native engine context.
func (h *EngineHandle) Native() *native.SSLEngineContext { return &h.owner.cc.Eng }
