// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package testpki builds throwaway certificate hierarchies for tests.
package testpki

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// KeyAlg selects the key type of a generated certificate.
type KeyAlg int

const (
	RSA KeyAlg = iota
	P256
	P384
)

var serial atomic.Int64

// Authority is a certificate together with its signing key.
type Authority struct {
	Cert *x509.Certificate
	Key  crypto.Signer
}

// Leaf is an end-entity certificate and its key.
type Leaf struct {
	Cert *x509.Certificate
	Key  crypto.Signer
}

// Validity is the certificate validity window. The zero value means one
// hour ago until one day from now.
type Validity struct {
	NotBefore time.Time
	NotAfter  time.Time
}

func (v Validity) window() (time.Time, time.Time) {
	nb, na := v.NotBefore, v.NotAfter
	if nb.IsZero() {
		nb = time.Now().Add(-time.Hour)
	}
	if na.IsZero() {
		na = time.Now().Add(24 * time.Hour)
	}
	return nb, na
}

// NewKey generates a private key of the given algorithm.
func NewKey(t testing.TB, alg KeyAlg) crypto.Signer {
	t.Helper()

	var (
		key crypto.Signer
		err error
	)
	switch alg {
	case P256:
		key, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case P384:
		key, err = ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	default:
		key, err = rsa.GenerateKey(rand.Reader, 2048)
	}
	require.NoError(t, err, "failed to generate key")
	return key
}

func issue(t testing.TB, template, parent *x509.Certificate, pub crypto.PublicKey, signer crypto.Signer) *x509.Certificate {
	t.Helper()

	template.SerialNumber = big.NewInt(serial.Add(1))
	der, err := x509.CreateCertificate(rand.Reader, template, parent, pub, signer)
	require.NoError(t, err, "failed to create certificate")

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err, "failed to parse certificate")
	return cert
}

// NewRoot creates a self-signed CA.
func NewRoot(t testing.TB, name string, alg KeyAlg) *Authority {
	t.Helper()

	key := NewKey(t, alg)
	nb, na := Validity{}.window()
	template := &x509.Certificate{
		Subject:               pkix.Name{CommonName: name, Organization: []string{"brssl-bridge tests"}},
		NotBefore:             nb,
		NotAfter:              na,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	return &Authority{Cert: issue(t, template, template, key.Public(), key), Key: key}
}

// Intermediate creates a CA signed by a.
func (a *Authority) Intermediate(t testing.TB, name string, alg KeyAlg) *Authority {
	t.Helper()

	key := NewKey(t, alg)
	nb, na := Validity{}.window()
	template := &x509.Certificate{
		Subject:               pkix.Name{CommonName: name},
		NotBefore:             nb,
		NotAfter:              na,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	return &Authority{Cert: issue(t, template, a.Cert, key.Public(), a.Key), Key: key}
}

// Leaf issues an end-entity certificate for dnsName.
func (a *Authority) Leaf(t testing.TB, dnsName string, alg KeyAlg) *Leaf {
	t.Helper()
	return a.LeafWithValidity(t, dnsName, alg, Validity{})
}

// LeafWithValidity issues an end-entity certificate with an explicit window.
func (a *Authority) LeafWithValidity(t testing.TB, dnsName string, alg KeyAlg, v Validity) *Leaf {
	t.Helper()

	key := NewKey(t, alg)
	nb, na := v.window()
	template := &x509.Certificate{
		Subject:               pkix.Name{CommonName: dnsName},
		DNSNames:              []string{dnsName},
		NotBefore:             nb,
		NotAfter:              na,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	return &Leaf{Cert: issue(t, template, a.Cert, key.Public(), a.Key), Key: key}
}

// SelfSigned creates a self-signed end-entity certificate for dnsName.
func SelfSigned(t testing.TB, dnsName string, alg KeyAlg) *Leaf {
	t.Helper()

	key := NewKey(t, alg)
	nb, na := Validity{}.window()
	template := &x509.Certificate{
		Subject:               pkix.Name{CommonName: dnsName},
		DNSNames:              []string{dnsName},
		NotBefore:             nb,
		NotAfter:              na,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	return &Leaf{Cert: issue(t, template, template, key.Public(), key), Key: key}
}

// DER returns the raw encodings of certs in order.
func DER(certs ...*x509.Certificate) [][]byte {
	out := make([][]byte, 0, len(certs))
	for _, c := range certs {
		out = append(out, c.Raw)
	}
	return out
}

// PEM encodes certs as concatenated CERTIFICATE blocks.
func PEM(certs ...*x509.Certificate) []byte {
	var out []byte
	for _, c := range certs {
		out = append(out, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: c.Raw})...)
	}
	return out
}
