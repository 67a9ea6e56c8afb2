// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package native

// SSLClientContext is the client-side engine context. Eng is embedded by
// value so a pointer to it can be handed out as the engine handle.
type SSLClientContext struct {
	Eng              SSLEngineContext
	minClientVersion uint16
}

// init zeroes cc and installs the full client profile wired to xc.
func (cc *SSLClientContext) init(xc *X509MinimalContext) {
	*cc = SSLClientContext{}
	cc.minClientVersion = VersionTLS10
	cc.Eng.versionMin = VersionTLS10
	cc.Eng.versionMax = VersionTLS12
	cc.Eng.suites = append([]uint16(nil), defaultSuites...)
	cc.Eng.x509 = xc
	cc.Eng.phase = phaseReady
}

// reset starts a new handshake.
func (cc *SSLClientContext) reset(serverName string, resume bool) int32 {
	eng := &cc.Eng
	if eng.phase == phaseZero || eng.x509 == nil {
		eng.fail(ErrBadState)
		return 0
	}
	if eng.ibuf == nil || eng.obuf == nil {
		eng.fail(ErrBadState)
		return 0
	}
	if len(serverName) > MaxServerNameLen {
		eng.fail(ErrBadParam)
		return 0
	}

	if !resume {
		eng.session = SessionParameters{}
	}
	eng.err = ErrOK
	eng.serverName = serverName
	eng.resuming = resume && len(eng.session.SessionID) > 0
	eng.phase = phaseHandshake
	return 1
}
