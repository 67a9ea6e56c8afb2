// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package native

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"math/big"
	"time"
)

// X509MinimalContext is the minimal chain verifier. It validates a peer chain
// against the trust anchors installed at engine initialisation.
//
// The anchor records are copied into the context by value. Their DN and key
// slices keep pointing at the caller's buffers, which must stay alive for as
// long as the verifier can run.
type X509MinimalContext struct {
	anchors []X509TrustAnchor
	now     time.Time
	err     int32
}

// SetTime fixes the validation time. The zero time means "now".
// Engine initialisation clears it.
func (x *X509MinimalContext) SetTime(t time.Time) { x.now = t }

// TrustAnchors returns the verifier-owned anchor records.
func (x *X509MinimalContext) TrustAnchors() []X509TrustAnchor { return x.anchors }

// LastError returns the code of the last chain validation, or ErrOK if none ran.
func (x *X509MinimalContext) LastError() int32 { return x.err }

// init replaces the verifier state with a value copy of anchors.
func (x *X509MinimalContext) init(anchors []X509TrustAnchor) {
	*x = X509MinimalContext{}
	x.anchors = make([]X509TrustAnchor, len(anchors))
	copy(x.anchors, anchors)
}

// verify validates chain (end-entity first, DER encoded) and returns
// ErrX509OK or the first failure code.
func (x *X509MinimalContext) verify(chain [][]byte, serverName string) int32 {
	x.err = x.evaluate(chain, serverName)
	return x.err
}

func (x *X509MinimalContext) evaluate(chain [][]byte, serverName string) int32 {
	if len(chain) == 0 {
		return ErrX509EmptyChain
	}

	certs := make([]*x509.Certificate, 0, len(chain))
	for _, der := range chain {
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return ErrX509InvalidValue
		}
		certs = append(certs, cert)
	}

	now := x.now
	if now.IsZero() {
		now = time.Now()
	}
	for _, cert := range certs {
		if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
			return ErrX509Expired
		}
	}

	if serverName != "" && certs[0].VerifyHostname(serverName) != nil {
		return ErrX509BadServerName
	}

	badSignature := false
	for i, cert := range certs {
		for _, ta := range x.anchors {
			if ta.Flags&X509TACA == 0 {
				if i == 0 && bytes.Equal(cert.RawSubject, ta.DN.Data) && keyMatches(ta.PKey, cert.PublicKey) {
					return ErrX509OK
				}
				continue
			}
			if !bytes.Equal(cert.RawIssuer, ta.DN.Data) {
				continue
			}
			key, algo, ok := anchorKey(ta.PKey)
			if !ok {
				continue
			}
			if signedBy(cert, key, algo) {
				return ErrX509OK
			}
			badSignature = true
		}

		if i+1 == len(certs) {
			break
		}
		issuer := certs[i+1]
		if !issuer.BasicConstraintsValid || !issuer.IsCA {
			return ErrX509NotCA
		}
		if cert.CheckSignatureFrom(issuer) != nil {
			return ErrX509BadSignature
		}
	}

	if badSignature {
		return ErrX509BadSignature
	}
	return ErrX509NotTrusted
}

// signedBy checks cert's signature against an anchor key.
func signedBy(cert *x509.Certificate, key crypto.PublicKey, algo x509.PublicKeyAlgorithm) bool {
	parent := &x509.Certificate{
		RawSubject:         cert.RawIssuer,
		PublicKey:          key,
		PublicKeyAlgorithm: algo,
	}
	return cert.CheckSignatureFrom(parent) == nil
}

// curveFor maps a named curve identifier to its implementation.
func curveFor(id int) elliptic.Curve {
	switch id {
	case CurveSecp256r1:
		return elliptic.P256()
	case CurveSecp384r1:
		return elliptic.P384()
	case CurveSecp521r1:
		return elliptic.P521()
	default:
		return nil
	}
}

// anchorKey decodes the raw key material of an anchor.
func anchorKey(pk X509PKey) (crypto.PublicKey, x509.PublicKeyAlgorithm, bool) {
	switch pk.KeyType {
	case KeyTypeRSA:
		if len(pk.RSA.N) == 0 || len(pk.RSA.E) == 0 {
			return nil, x509.UnknownPublicKeyAlgorithm, false
		}
		e := new(big.Int).SetBytes(pk.RSA.E)
		if !e.IsInt64() || e.Int64() > int64(^uint32(0)>>1) {
			return nil, x509.UnknownPublicKeyAlgorithm, false
		}
		return &rsa.PublicKey{N: new(big.Int).SetBytes(pk.RSA.N), E: int(e.Int64())}, x509.RSA, true
	case KeyTypeEC:
		curve := curveFor(pk.EC.Curve)
		if curve == nil {
			return nil, x509.UnknownPublicKeyAlgorithm, false
		}
		//nolint:staticcheck // raw point decoding is exactly what the record carries
		qx, qy := elliptic.Unmarshal(curve, pk.EC.Q)
		if qx == nil {
			return nil, x509.UnknownPublicKeyAlgorithm, false
		}
		return &ecdsa.PublicKey{Curve: curve, X: qx, Y: qy}, x509.ECDSA, true
	default:
		return nil, x509.UnknownPublicKeyAlgorithm, false
	}
}

// keyMatches reports whether an anchor key equals a certificate key.
func keyMatches(pk X509PKey, pub crypto.PublicKey) bool {
	key, _, ok := anchorKey(pk)
	if !ok {
		return false
	}
	type equaler interface {
		Equal(crypto.PublicKey) bool
	}
	k, ok := key.(equaler)
	return ok && k.Equal(pub)
}
