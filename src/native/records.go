// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package native

// Key type tags for [X509PKey].
const (
	KeyTypeRSA uint8 = 1
	KeyTypeEC  uint8 = 2
)

// X509TACA marks a trust anchor that may issue certificates. Without it the
// anchor only matches an end-entity certificate carrying the same name and key.
const X509TACA uint32 = 0x0001

// Named curve identifiers (TLS registry values).
const (
	CurveSecp256r1 = 23
	CurveSecp384r1 = 24
	CurveSecp521r1 = 25
)

// RSAPublicKey is the native RSA public key record. N and E are big-endian
// unsigned integers.
type RSAPublicKey struct {
	N []byte
	E []byte
}

// ECPublicKey is the native elliptic-curve public key record. Q is the
// encoded curve point.
type ECPublicKey struct {
	Curve int
	Q     []byte
}

// X509PKey is the native tagged public key. KeyType selects which of RSA or
// EC is meaningful; the other member must not be read.
type X509PKey struct {
	KeyType uint8
	RSA     RSAPublicKey
	EC      ECPublicKey
}

// X500Name is a DER-encoded distinguished name.
type X500Name struct {
	Data []byte
}

// X509TrustAnchor is the native trust-anchor record.
type X509TrustAnchor struct {
	DN    X500Name
	Flags uint32
	PKey  X509PKey
}

// CurveName returns a display name for a named curve identifier.
func CurveName(curve int) string {
	switch curve {
	case CurveSecp256r1:
		return "secp256r1"
	case CurveSecp384r1:
		return "secp384r1"
	case CurveSecp521r1:
		return "secp521r1"
	default:
		return "unknown"
	}
}
