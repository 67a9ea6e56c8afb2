// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package native

// Engine state bits reported by [Library.EngineCurrentState].
const (
	StateClosed  uint32 = 0x0001
	StateSendRec uint32 = 0x0002
	StateRecvRec uint32 = 0x0004
	StateSendApp uint32 = 0x0008
	StateRecvApp uint32 = 0x0010
)

// Protocol versions.
const (
	VersionTLS10 uint16 = 0x0301
	VersionTLS11 uint16 = 0x0302
	VersionTLS12 uint16 = 0x0303
)

// Record overheads and buffer sizes. A bidirectional buffer of
// BufSizeBidi bytes holds a full-size record in each direction.
const (
	MaxFragmentLen   = 16384
	InputOverhead    = 325
	OutputOverhead   = 85
	BufSizeInput     = MaxFragmentLen + InputOverhead
	BufSizeOutput    = MaxFragmentLen + OutputOverhead
	BufSizeBidi      = BufSizeInput + BufSizeOutput
	MaxServerNameLen = 255
	MaxSessionIDLen  = 32
)

// defaultSuites is the suite list installed by ClientInitFull, most preferred first.
var defaultSuites = []uint16{
	0xC02B, // ECDHE_ECDSA_WITH_AES_128_GCM_SHA256
	0xC02F, // ECDHE_RSA_WITH_AES_128_GCM_SHA256
	0xC02C, // ECDHE_ECDSA_WITH_AES_256_GCM_SHA384
	0xC030, // ECDHE_RSA_WITH_AES_256_GCM_SHA384
	0xCCA9, // ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256
	0xCCA8, // ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256
	0x009C, // RSA_WITH_AES_128_GCM_SHA256
	0x002F, // RSA_WITH_AES_128_CBC_SHA
}

// SessionParameters holds what a client needs to resume a session.
type SessionParameters struct {
	SessionID    []byte
	Version      uint16
	CipherSuite  uint16
	MasterSecret [48]byte
}

// clone returns a copy that shares no memory with p.
func (p SessionParameters) clone() SessionParameters {
	if len(p.SessionID) > MaxSessionIDLen {
		p.SessionID = p.SessionID[:MaxSessionIDLen]
	}
	p.SessionID = append([]byte(nil), p.SessionID...)
	return p
}

type phase uint8

const (
	phaseZero phase = iota
	phaseReady
	phaseHandshake
	phaseApp
	phaseClosed
)

// SSLEngineContext is the engine state shared by client and server contexts.
// The zero value is an unconfigured engine.
type SSLEngineContext struct {
	err        int32
	ibuf       []byte
	obuf       []byte
	bidi       bool
	maxFragLen int
	versionMin uint16
	versionMax uint16
	suites     []uint16
	serverName string
	session    SessionParameters
	resuming   bool
	phase      phase
	x509       *X509MinimalContext
}

// MaxFragLen returns the largest record fragment the bound buffer admits, or
// zero when no buffer is bound.
func (e *SSLEngineContext) MaxFragLen() int { return e.maxFragLen }

// Buffers returns the bound input and output buffers. With a bidirectional
// binding they are the two halves of the same host buffer.
func (e *SSLEngineContext) Buffers() (in, out []byte) { return e.ibuf, e.obuf }

// ServerName returns the name sent in the current handshake.
func (e *SSLEngineContext) ServerName() string { return e.serverName }

// Resuming reports whether the current handshake attempts session resumption.
func (e *SSLEngineContext) Resuming() bool { return e.resuming }

// Versions returns the enabled protocol version range.
func (e *SSLEngineContext) Versions() (minVersion, maxVersion uint16) {
	return e.versionMin, e.versionMax
}

// fail records code unless an earlier failure is already recorded, and closes the engine.
func (e *SSLEngineContext) fail(code int32) {
	if e.err == ErrOK {
		e.err = code
	}
	e.phase = phaseClosed
}

// setBuffer binds buf as I/O storage. A bidirectional binding gives the
// output side a full record when buf holds one in each direction and splits
// it in halves otherwise. A half-duplex binding shares buf between directions.
func (e *SSLEngineContext) setBuffer(buf []byte, bidi bool) {
	in, out := buf, buf
	if bidi {
		w := len(buf) >> 1
		if len(buf) >= BufSizeBidi {
			w = len(buf) - BufSizeOutput
		}
		in, out = buf[:w:w], buf[w:]
	}

	frag := 0
	for u := 14; u >= 9; u-- {
		size := 1 << u
		if len(in) >= size+InputOverhead && len(out) >= size+OutputOverhead {
			frag = size
			break
		}
	}

	e.err = ErrOK
	if frag == 0 {
		e.ibuf, e.obuf, e.maxFragLen = nil, nil, 0
		e.fail(ErrBadParam)
		return
	}
	e.ibuf, e.obuf, e.bidi, e.maxFragLen = in, out, bidi, frag
}

// currentState maps the engine phase onto the public state bits.
func (e *SSLEngineContext) currentState() uint32 {
	switch e.phase {
	case phaseHandshake:
		return StateSendRec
	case phaseApp:
		return StateSendApp | StateRecvApp
	default:
		return StateClosed
	}
}
