// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package native_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/testpki"
	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

const serverName = "bridge.test"

// anchorFor builds a trust-anchor record from a certificate.
func anchorFor(t *testing.T, cert *x509.Certificate, flags uint32) native.X509TrustAnchor {
	t.Helper()

	ta := native.X509TrustAnchor{DN: native.X500Name{Data: cert.RawSubject}, Flags: flags}
	switch pub := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		ta.PKey.KeyType = native.KeyTypeRSA
		ta.PKey.RSA = native.RSAPublicKey{N: pub.N.Bytes(), E: big.NewInt(int64(pub.E)).Bytes()}
	case *ecdsa.PublicKey:
		pk, err := pub.ECDH()
		require.NoError(t, err)
		curve := native.CurveSecp256r1
		if pub.Curve == elliptic.P384() {
			curve = native.CurveSecp384r1
		}
		ta.PKey.KeyType = native.KeyTypeEC
		ta.PKey.EC = native.ECPublicKey{Curve: curve, Q: pk.Bytes()}
	default:
		t.Fatalf("unsupported key %T", pub)
	}
	return ta
}

// handshaking returns a client ready to receive a chain.
func handshaking(t *testing.T, lib *native.Reference, anchors []native.X509TrustAnchor, name string) (*native.SSLClientContext, *native.X509MinimalContext) {
	t.Helper()

	cc, xc := new(native.SSLClientContext), new(native.X509MinimalContext)
	lib.ClientInitFull(cc, xc, anchors)
	lib.EngineSetBuffer(&cc.Eng, make([]byte, native.BufSizeBidi), true)
	require.Equal(t, int32(1), lib.ClientReset(cc, name, false))
	return cc, xc
}

func TestEngineSetBuffer(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		bidi     bool
		wantIn   int
		wantFrag int
		wantErr  int32
	}{
		{name: "full bidi buffer", size: native.BufSizeBidi, bidi: true, wantIn: native.BufSizeInput, wantFrag: native.MaxFragmentLen},
		{name: "16 KiB bidi buffer", size: 16 * 1024, bidi: true, wantIn: 8192, wantFrag: 4096},
		{name: "full mono buffer", size: native.BufSizeInput, bidi: false, wantIn: native.BufSizeInput, wantFrag: native.MaxFragmentLen},
		{name: "smallest usable bidi buffer", size: 2 * (512 + native.InputOverhead), bidi: true, wantIn: 512 + native.InputOverhead, wantFrag: 512},
		{name: "too small", size: 512, bidi: true, wantErr: native.ErrBadParam},
	}

	lib := native.NewReference()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc, xc := new(native.SSLClientContext), new(native.X509MinimalContext)
			lib.ClientInitFull(cc, xc, nil)

			buf := make([]byte, tt.size)
			lib.EngineSetBuffer(&cc.Eng, buf, tt.bidi)

			assert.Equal(t, tt.wantErr, lib.EngineLastError(&cc.Eng))
			assert.Equal(t, tt.wantFrag, cc.Eng.MaxFragLen())
			if tt.wantErr != native.ErrOK {
				assert.Equal(t, native.StateClosed, lib.EngineCurrentState(&cc.Eng))
				return
			}

			in, out := cc.Eng.Buffers()
			assert.Len(t, in, tt.wantIn)
			assert.Same(t, &buf[0], &in[0], "input side must alias the buffer")
			if tt.bidi {
				assert.Len(t, out, tt.size-tt.wantIn)
				assert.Same(t, &buf[tt.wantIn], &out[0], "output side must alias the buffer")
			} else {
				assert.Same(t, &buf[0], &out[0])
			}
		})
	}
}

func TestClientInitFull(t *testing.T) {
	root := testpki.NewRoot(t, "Init Root", testpki.P256)
	anchors := []native.X509TrustAnchor{anchorFor(t, root.Cert, native.X509TACA)}

	lib := native.NewReference()
	cc, xc := new(native.SSLClientContext), new(native.X509MinimalContext)
	lib.ClientInitFull(cc, xc, anchors)

	minVersion, maxVersion := cc.Eng.Versions()
	assert.Equal(t, native.VersionTLS10, minVersion)
	assert.Equal(t, native.VersionTLS12, maxVersion)
	assert.Equal(t, native.StateClosed, lib.EngineCurrentState(&cc.Eng))
	assert.Equal(t, native.ErrOK, lib.EngineLastError(&cc.Eng))

	// The array is copied; the key and name bytes are not.
	anchors[0] = native.X509TrustAnchor{}
	kept := xc.TrustAnchors()
	require.Len(t, kept, 1)
	assert.Equal(t, native.X509TACA, kept[0].Flags)
	assert.Same(t, &root.Cert.RawSubject[0], &kept[0].DN.Data[0])
}

func TestClientReset(t *testing.T) {
	lib := native.NewReference()

	t.Run("uninitialised", func(t *testing.T) {
		cc := new(native.SSLClientContext)
		assert.Equal(t, int32(0), lib.ClientReset(cc, serverName, false))
		assert.Equal(t, native.ErrBadState, lib.EngineLastError(&cc.Eng))
	})

	t.Run("no buffer", func(t *testing.T) {
		cc, xc := new(native.SSLClientContext), new(native.X509MinimalContext)
		lib.ClientInitFull(cc, xc, nil)
		assert.Equal(t, int32(0), lib.ClientReset(cc, serverName, false))
		assert.Equal(t, native.ErrBadState, lib.EngineLastError(&cc.Eng))
		assert.Equal(t, native.StateClosed, lib.EngineCurrentState(&cc.Eng))
	})

	t.Run("name too long", func(t *testing.T) {
		cc, xc := new(native.SSLClientContext), new(native.X509MinimalContext)
		lib.ClientInitFull(cc, xc, nil)
		lib.EngineSetBuffer(&cc.Eng, make([]byte, native.BufSizeBidi), true)
		assert.Equal(t, int32(0), lib.ClientReset(cc, strings.Repeat("a", native.MaxServerNameLen+1), false))
		assert.Equal(t, native.ErrBadParam, lib.EngineLastError(&cc.Eng))
	})

	t.Run("ready", func(t *testing.T) {
		cc, xc := new(native.SSLClientContext), new(native.X509MinimalContext)
		lib.ClientInitFull(cc, xc, nil)
		lib.EngineSetBuffer(&cc.Eng, make([]byte, native.BufSizeBidi), true)
		assert.Equal(t, int32(1), lib.ClientReset(cc, serverName, false))
		assert.Equal(t, native.ErrOK, lib.EngineLastError(&cc.Eng))
		assert.Equal(t, native.StateSendRec, lib.EngineCurrentState(&cc.Eng))
		assert.Equal(t, serverName, cc.Eng.ServerName())
		assert.False(t, cc.Eng.Resuming(), "nothing to resume")
	})
}

func TestClientReceiveChain(t *testing.T) {
	rsaRoot := testpki.NewRoot(t, "RSA Root", testpki.RSA)
	ecRoot := testpki.NewRoot(t, "EC Root", testpki.P256)
	ecInter := ecRoot.Intermediate(t, "EC Intermediate", testpki.P384)
	stranger := testpki.NewRoot(t, "Stranger Root", testpki.P256)

	rsaLeaf := rsaRoot.Leaf(t, serverName, testpki.P256)
	ecLeaf := ecInter.Leaf(t, serverName, testpki.RSA)
	pinned := testpki.SelfSigned(t, serverName, testpki.P256)
	expired := rsaRoot.LeafWithValidity(t, serverName, testpki.P256, testpki.Validity{
		NotBefore: time.Now().Add(-48 * time.Hour),
		NotAfter:  time.Now().Add(-24 * time.Hour),
	})
	notCA := (&testpki.Authority{Cert: rsaLeaf.Cert, Key: rsaLeaf.Key}).Leaf(t, serverName, testpki.P256)

	impostor := anchorFor(t, stranger.Cert, native.X509TACA)
	impostor.DN = native.X500Name{Data: rsaRoot.Cert.RawSubject}

	tests := []struct {
		name    string
		anchors []native.X509TrustAnchor
		chain   [][]byte
		sni     string
		want    int32
	}{
		{
			name:    "RSA root signs leaf",
			anchors: []native.X509TrustAnchor{anchorFor(t, rsaRoot.Cert, native.X509TACA)},
			chain:   testpki.DER(rsaLeaf.Cert),
			sni:     serverName,
			want:    native.ErrOK,
		},
		{
			name:    "EC root through intermediate",
			anchors: []native.X509TrustAnchor{anchorFor(t, ecRoot.Cert, native.X509TACA)},
			chain:   testpki.DER(ecLeaf.Cert, ecInter.Cert),
			sni:     serverName,
			want:    native.ErrOK,
		},
		{
			name:    "intermediate as anchor",
			anchors: []native.X509TrustAnchor{anchorFor(t, ecInter.Cert, native.X509TACA)},
			chain:   testpki.DER(ecLeaf.Cert),
			sni:     serverName,
			want:    native.ErrOK,
		},
		{
			name:    "pinned end-entity",
			anchors: []native.X509TrustAnchor{anchorFor(t, pinned.Cert, 0)},
			chain:   testpki.DER(pinned.Cert),
			sni:     serverName,
			want:    native.ErrOK,
		},
		{
			name:    "no server name check",
			anchors: []native.X509TrustAnchor{anchorFor(t, rsaRoot.Cert, native.X509TACA)},
			chain:   testpki.DER(rsaLeaf.Cert),
			want:    native.ErrOK,
		},
		{
			name:    "empty chain",
			anchors: []native.X509TrustAnchor{anchorFor(t, rsaRoot.Cert, native.X509TACA)},
			sni:     serverName,
			want:    native.ErrX509EmptyChain,
		},
		{
			name:    "garbage",
			anchors: []native.X509TrustAnchor{anchorFor(t, rsaRoot.Cert, native.X509TACA)},
			chain:   [][]byte{{0x30, 0x03, 0x02, 0x01}},
			sni:     serverName,
			want:    native.ErrX509InvalidValue,
		},
		{
			name:    "wrong server name",
			anchors: []native.X509TrustAnchor{anchorFor(t, rsaRoot.Cert, native.X509TACA)},
			chain:   testpki.DER(rsaLeaf.Cert),
			sni:     "other.test",
			want:    native.ErrX509BadServerName,
		},
		{
			name:    "expired leaf",
			anchors: []native.X509TrustAnchor{anchorFor(t, rsaRoot.Cert, native.X509TACA)},
			chain:   testpki.DER(expired.Cert),
			sni:     serverName,
			want:    native.ErrX509Expired,
		},
		{
			name:    "unknown issuer",
			anchors: []native.X509TrustAnchor{anchorFor(t, stranger.Cert, native.X509TACA)},
			chain:   testpki.DER(rsaLeaf.Cert),
			sni:     serverName,
			want:    native.ErrX509NotTrusted,
		},
		{
			name:    "no anchors",
			chain:   testpki.DER(rsaLeaf.Cert),
			sni:     serverName,
			want:    native.ErrX509NotTrusted,
		},
		{
			name:    "name match with wrong key",
			anchors: []native.X509TrustAnchor{impostor},
			chain:   testpki.DER(rsaLeaf.Cert),
			sni:     serverName,
			want:    native.ErrX509BadSignature,
		},
		{
			name:    "issuer is not a CA",
			anchors: []native.X509TrustAnchor{anchorFor(t, rsaRoot.Cert, native.X509TACA)},
			chain:   testpki.DER(notCA.Cert, rsaLeaf.Cert),
			sni:     serverName,
			want:    native.ErrX509NotCA,
		},
		{
			name:    "pinned anchor does not issue",
			anchors: []native.X509TrustAnchor{anchorFor(t, rsaRoot.Cert, 0)},
			chain:   testpki.DER(rsaLeaf.Cert),
			sni:     serverName,
			want:    native.ErrX509NotTrusted,
		},
	}

	lib := native.NewReference()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc, xc := handshaking(t, lib, tt.anchors, tt.sni)

			got := lib.ClientReceiveChain(cc, tt.chain)
			assert.Equal(t, tt.want, lib.EngineLastError(&cc.Eng), "got %s", native.ErrorName(lib.EngineLastError(&cc.Eng)))
			if tt.want == native.ErrOK {
				assert.Equal(t, int32(1), got)
				assert.Equal(t, native.ErrX509OK, xc.LastError())
				assert.Equal(t, native.StateSendApp|native.StateRecvApp, lib.EngineCurrentState(&cc.Eng))
				params := lib.EngineSessionParameters(&cc.Eng)
				assert.Len(t, params.SessionID, native.MaxSessionIDLen)
				assert.Equal(t, native.VersionTLS12, params.Version)
				return
			}
			assert.Equal(t, int32(0), got)
			assert.Equal(t, tt.want, xc.LastError())
			assert.Equal(t, native.StateClosed, lib.EngineCurrentState(&cc.Eng))
		})
	}
}

func TestReceiveChainOutsideHandshake(t *testing.T) {
	lib := native.NewReference()
	cc, xc := new(native.SSLClientContext), new(native.X509MinimalContext)
	lib.ClientInitFull(cc, xc, nil)

	assert.Equal(t, int32(0), lib.ClientReceiveChain(cc, nil))
	assert.Equal(t, native.ErrBadState, lib.EngineLastError(&cc.Eng))
}

func TestX509MinimalSetTime(t *testing.T) {
	root := testpki.NewRoot(t, "Clock Root", testpki.P256)
	leaf := root.Leaf(t, serverName, testpki.P256)
	anchors := []native.X509TrustAnchor{anchorFor(t, root.Cert, native.X509TACA)}
	lib := native.NewReference()

	cc, xc := handshaking(t, lib, anchors, serverName)
	lib.X509MinimalSetTime(xc, time.Now().Add(90*24*time.Hour))
	assert.Equal(t, int32(0), lib.ClientReceiveChain(cc, testpki.DER(leaf.Cert)))
	assert.Equal(t, native.ErrX509Expired, lib.EngineLastError(&cc.Eng))

	// Re-initialising clears the clock.
	lib.ClientInitFull(cc, xc, anchors)
	lib.EngineSetBuffer(&cc.Eng, make([]byte, native.BufSizeBidi), true)
	require.Equal(t, int32(1), lib.ClientReset(cc, serverName, false))
	assert.Equal(t, int32(1), lib.ClientReceiveChain(cc, testpki.DER(leaf.Cert)))
}

func TestSessionResumption(t *testing.T) {
	root := testpki.NewRoot(t, "Session Root", testpki.P256)
	leaf := root.Leaf(t, serverName, testpki.P256)
	anchors := []native.X509TrustAnchor{anchorFor(t, root.Cert, native.X509TACA)}
	lib := native.NewReference()

	first, _ := handshaking(t, lib, anchors, serverName)
	require.Equal(t, int32(1), lib.ClientReceiveChain(first, testpki.DER(leaf.Cert)))
	params := lib.EngineSessionParameters(&first.Eng)

	// The returned parameters are a copy.
	params.SessionID[0] ^= 0xFF
	assert.NotEqual(t, params.SessionID, lib.EngineSessionParameters(&first.Eng).SessionID)

	second, xc := new(native.SSLClientContext), new(native.X509MinimalContext)
	lib.ClientInitFull(second, xc, anchors)
	lib.EngineSetBuffer(&second.Eng, make([]byte, native.BufSizeBidi), true)
	lib.EngineSetSessionParameters(&second.Eng, params)

	require.Equal(t, int32(1), lib.ClientReset(second, serverName, true))
	assert.True(t, second.Eng.Resuming())
	assert.Equal(t, int32(1), lib.ClientReceiveChain(second, nil), "an abbreviated handshake carries no chain")
	assert.Equal(t, native.StateSendApp|native.StateRecvApp, lib.EngineCurrentState(&second.Eng))

	// A full reset forgets the session.
	require.Equal(t, int32(1), lib.ClientReset(second, serverName, false))
	assert.False(t, second.Eng.Resuming())
	assert.Empty(t, lib.EngineSessionParameters(&second.Eng).SessionID)
}

func TestErrorName(t *testing.T) {
	tests := []struct {
		code int32
		want string
	}{
		{native.ErrOK, "BR_ERR_OK"},
		{native.ErrBadState, "BR_ERR_BAD_STATE"},
		{native.ErrX509NotTrusted, "BR_ERR_X509_NOT_TRUSTED"},
		{999, "BR_ERR_999"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, native.ErrorName(tt.code))
		})
	}
}

func TestErrorCodes(t *testing.T) {
	codes := native.ErrorCodes()
	require.Len(t, codes, 13)
	assert.True(t, slices.IsSorted(codes))
	assert.Equal(t, native.ErrOK, codes[0])
	for _, code := range codes {
		assert.NotContains(t, native.ErrorName(code), "BR_ERR_"+strconv.Itoa(int(code)))
	}
}

func TestCurveName(t *testing.T) {
	assert.Equal(t, "secp256r1", native.CurveName(native.CurveSecp256r1))
	assert.Equal(t, "secp521r1", native.CurveName(native.CurveSecp521r1))
	assert.Equal(t, "unknown", native.CurveName(0))
}
