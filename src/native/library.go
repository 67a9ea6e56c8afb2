// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package native

import (
	"crypto/rand"
	"io"
	"time"
)

// Library is the set of native entry points the bridge calls. Contexts are
// owned by the caller; the library only reads and writes through the
// pointers it is given.
type Library interface {
	// ClientInitFull zeroes cc, installs the full client profile and
	// initialises xc with a copy of anchors.
	ClientInitFull(cc *SSLClientContext, xc *X509MinimalContext, anchors []X509TrustAnchor)
	// EngineSetBuffer binds buf as the engine I/O buffer.
	EngineSetBuffer(eng *SSLEngineContext, buf []byte, bidi bool)
	// ClientReset prepares a new handshake. It returns 1 on success, 0 on failure.
	ClientReset(cc *SSLClientContext, serverName string, resume bool) int32
	EngineCurrentState(eng *SSLEngineContext) uint32
	EngineLastError(eng *SSLEngineContext) int32
	EngineSessionParameters(eng *SSLEngineContext) SessionParameters
	EngineSetSessionParameters(eng *SSLEngineContext, p SessionParameters)
	X509MinimalSetTime(xc *X509MinimalContext, t time.Time)
}

// RecordLayer advances a handshake from the peer side. Transports implement
// the wire protocol on top of it; tests call it directly.
type RecordLayer interface {
	// ClientReceiveChain hands the peer's certificate chain (end-entity
	// first) to a handshaking client. It returns 1 when the engine reaches
	// the application-data state, 0 otherwise.
	ClientReceiveChain(cc *SSLClientContext, chain [][]byte) int32
}

// Reference is the pure Go engine model.
type Reference struct {
	rand io.Reader
}

// NewReference returns a model engine drawing session secrets from crypto/rand.
func NewReference() *Reference {
	return &Reference{rand: rand.Reader}
}

// ClientInitFull implements [Library].
func (r *Reference) ClientInitFull(cc *SSLClientContext, xc *X509MinimalContext, anchors []X509TrustAnchor) {
	xc.init(anchors)
	cc.init(xc)
}

// EngineSetBuffer implements [Library].
func (r *Reference) EngineSetBuffer(eng *SSLEngineContext, buf []byte, bidi bool) {
	eng.setBuffer(buf, bidi)
}

// ClientReset implements [Library].
func (r *Reference) ClientReset(cc *SSLClientContext, serverName string, resume bool) int32 {
	return cc.reset(serverName, resume)
}

// EngineCurrentState implements [Library].
func (r *Reference) EngineCurrentState(eng *SSLEngineContext) uint32 { return eng.currentState() }

// EngineLastError implements [Library].
func (r *Reference) EngineLastError(eng *SSLEngineContext) int32 { return eng.err }

// EngineSessionParameters implements [Library].
func (r *Reference) EngineSessionParameters(eng *SSLEngineContext) SessionParameters {
	return eng.session.clone()
}

// EngineSetSessionParameters implements [Library].
func (r *Reference) EngineSetSessionParameters(eng *SSLEngineContext, p SessionParameters) {
	eng.session = p.clone()
}

// X509MinimalSetTime implements [Library].
func (r *Reference) X509MinimalSetTime(xc *X509MinimalContext, t time.Time) { xc.SetTime(t) }

// ClientReceiveChain implements [RecordLayer].
func (r *Reference) ClientReceiveChain(cc *SSLClientContext, chain [][]byte) int32 {
	eng := &cc.Eng
	if eng.phase != phaseHandshake || eng.x509 == nil {
		eng.fail(ErrBadState)
		return 0
	}

	if eng.resuming {
		eng.phase = phaseApp
		return 1
	}

	if code := eng.x509.verify(chain, eng.serverName); code != ErrX509OK {
		eng.fail(code)
		return 0
	}

	session := SessionParameters{
		SessionID:   make([]byte, MaxSessionIDLen),
		Version:     eng.versionMax,
		CipherSuite: eng.suites[0],
	}
	if _, err := io.ReadFull(r.rand, session.SessionID); err != nil {
		eng.fail(ErrIO)
		return 0
	}
	if _, err := io.ReadFull(r.rand, session.MasterSecret[:]); err != nil {
		eng.fail(ErrIO)
		return 0
	}
	eng.session = session
	eng.phase = phaseApp
	return 1
}

var (
	_ Library     = (*Reference)(nil)
	_ RecordLayer = (*Reference)(nil)
)
