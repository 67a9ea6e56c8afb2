// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package anchors

import (
	"crypto/x509"
	"fmt"

	"github.com/H0llyW00dzZ/brssl-bridge/src/bridge"
	"github.com/H0llyW00dzZ/brssl-bridge/src/host"
	x509certs "github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

// Flags returns the anchor flags for cert.
func Flags(cert *x509.Certificate) uint32 {
	if cert.BasicConstraintsValid && cert.IsCA {
		return native.X509TACA
	}
	return 0
}

// FromCertificate builds a trust anchor for cert on b's runtime. The caller
// owns the returned anchor.
func FromCertificate(b *bridge.Bridge, cert *x509.Certificate) (*bridge.TrustAnchor, error) {
	key, err := ParseSPKI(cert.RawSubjectPublicKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cert.Subject, err)
	}

	pkey, err := newPKey(b, key)
	if err != nil {
		return nil, err
	}

	dn, err := host.Copy(b.Runtime(), cert.RawSubject)
	if err != nil {
		pkey.Release()
		return nil, fmt.Errorf("anchors: subject: %w", err)
	}

	return b.TrustAnchor(dn, Flags(cert), pkey)
}

func newPKey(b *bridge.Bridge, key Key) (*bridge.X509PKey, error) {
	rt := b.Runtime()

	switch key.Type {
	case native.KeyTypeRSA:
		n, err := host.Copy(rt, key.N)
		if err != nil {
			return nil, fmt.Errorf("anchors: modulus: %w", err)
		}
		e, err := host.Copy(rt, key.E)
		if err != nil {
			rt.DecRef(n)
			return nil, fmt.Errorf("anchors: exponent: %w", err)
		}
		rsa, err := b.RSAPublicKey(n, e)
		if err != nil {
			return nil, err
		}
		return b.PKeyRSA(rsa)

	case native.KeyTypeEC:
		q, err := host.Copy(rt, key.Q)
		if err != nil {
			return nil, fmt.Errorf("anchors: point: %w", err)
		}
		ec, err := b.ECPublicKey(q, key.Curve)
		if err != nil {
			return nil, err
		}
		return b.PKeyEC(ec)

	default:
		return nil, ErrUnsupportedKey
	}
}

// FromCertificates builds one anchor per certificate. On error the anchors
// built so far are released.
func FromCertificates(b *bridge.Bridge, certs []*x509.Certificate) ([]*bridge.TrustAnchor, error) {
	out := make([]*bridge.TrustAnchor, 0, len(certs))
	for _, cert := range certs {
		ta, err := FromCertificate(b, cert)
		if err != nil {
			Release(out)
			return nil, err
		}
		out = append(out, ta)
	}
	return out, nil
}

// LoadFile reads a PEM, DER or PKCS#7 bundle and builds its anchors.
func LoadFile(b *bridge.Bridge, path string) ([]*bridge.TrustAnchor, []*x509.Certificate, error) {
	certs, err := x509certs.New().ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	tas, err := FromCertificates(b, certs)
	if err != nil {
		return nil, nil, err
	}
	return tas, certs, nil
}

// Release drops the caller's reference on every anchor.
func Release(tas []*bridge.TrustAnchor) {
	for _, ta := range tas {
		ta.Release()
	}
}
