// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package anchors

import (
	"encoding/asn1"
	"errors"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

var (
	// ErrMalformedKey indicates a SubjectPublicKeyInfo that does not decode.
	ErrMalformedKey = errors.New("anchors: malformed public key")

	// ErrUnsupportedKey indicates a key algorithm or curve the engine cannot use.
	ErrUnsupportedKey = errors.New("anchors: unsupported public key")
)

var (
	oidRSA       = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	oidECDSA     = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidSecp256r1 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidSecp384r1 = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	oidSecp521r1 = asn1.ObjectIdentifier{1, 3, 132, 0, 35}
)

// Key is the raw key material of a trust anchor.
type Key struct {
	Type  uint8  // native.KeyTypeRSA or native.KeyTypeEC
	N, E  []byte // RSA modulus and exponent, big-endian without leading zeros
	Curve int    // EC named curve
	Q     []byte // EC encoded point
}

// Bits returns the modulus size for RSA keys and the field size for EC keys.
func (k Key) Bits() int {
	switch k.Type {
	case native.KeyTypeRSA:
		if len(k.N) == 0 {
			return 0
		}
		bits := (len(k.N) - 1) * 8
		for top := k.N[0]; top != 0; top >>= 1 {
			bits++
		}
		return bits
	case native.KeyTypeEC:
		switch k.Curve {
		case native.CurveSecp256r1:
			return 256
		case native.CurveSecp384r1:
			return 384
		case native.CurveSecp521r1:
			return 521
		}
	}
	return 0
}

// String names the key algorithm.
func (k Key) String() string {
	switch k.Type {
	case native.KeyTypeRSA:
		return "RSA"
	case native.KeyTypeEC:
		return "EC/" + native.CurveName(k.Curve)
	default:
		return "unknown"
	}
}

// ParseSPKI extracts the raw key material of a DER SubjectPublicKeyInfo.
func ParseSPKI(spki []byte) (Key, error) {
	var (
		input     = cryptobyte.String(spki)
		info      cryptobyte.String
		algorithm cryptobyte.String
		oid       asn1.ObjectIdentifier
		keyBits   asn1.BitString
	)
	if !input.ReadASN1(&info, cbasn1.SEQUENCE) || !input.Empty() ||
		!info.ReadASN1(&algorithm, cbasn1.SEQUENCE) ||
		!algorithm.ReadASN1ObjectIdentifier(&oid) ||
		!info.ReadASN1BitString(&keyBits) || !info.Empty() {
		return Key{}, ErrMalformedKey
	}
	if keyBits.BitLength%8 != 0 {
		return Key{}, ErrMalformedKey
	}

	switch {
	case oid.Equal(oidRSA):
		return parseRSA(keyBits.Bytes)
	case oid.Equal(oidECDSA):
		var curveOID asn1.ObjectIdentifier
		if !algorithm.ReadASN1ObjectIdentifier(&curveOID) {
			return Key{}, ErrMalformedKey
		}
		curve, ok := curveID(curveOID)
		if !ok {
			return Key{}, ErrUnsupportedKey
		}
		if len(keyBits.Bytes) == 0 {
			return Key{}, ErrMalformedKey
		}
		return Key{Type: native.KeyTypeEC, Curve: curve, Q: keyBits.Bytes}, nil
	default:
		return Key{}, ErrUnsupportedKey
	}
}

func parseRSA(der []byte) (Key, error) {
	var (
		input = cryptobyte.String(der)
		seq   cryptobyte.String
		n, e  cryptobyte.String
	)
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() ||
		!seq.ReadASN1(&n, cbasn1.INTEGER) ||
		!seq.ReadASN1(&e, cbasn1.INTEGER) || !seq.Empty() {
		return Key{}, ErrMalformedKey
	}

	nb, eb := unsigned(n), unsigned(e)
	if len(nb) == 0 || len(eb) == 0 {
		return Key{}, ErrMalformedKey
	}
	return Key{Type: native.KeyTypeRSA, N: nb, E: eb}, nil
}

// unsigned strips the sign padding of a positive DER integer.
func unsigned(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}

func curveID(oid asn1.ObjectIdentifier) (int, bool) {
	switch {
	case oid.Equal(oidSecp256r1):
		return native.CurveSecp256r1, true
	case oid.Equal(oidSecp384r1):
		return native.CurveSecp384r1, true
	case oid.Equal(oidSecp521r1):
		return native.CurveSecp521r1, true
	default:
		return 0, false
	}
}
