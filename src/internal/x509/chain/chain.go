// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/x509"
	"errors"
	"sync"

	x509certs "github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/certs"
)

// ErrEmptyChain is returned when a peer presents no certificates.
var ErrEmptyChain = errors.New("x509chain: no certificates received from peer")

// Chain holds a peer certificate chain in the order it was presented,
// end-entity first.
type Chain struct {
	mu    sync.RWMutex
	Certs []*x509.Certificate
}

// New creates a Chain from certs, leaf first.
func New(certs ...*x509.Certificate) *Chain {
	return &Chain{Certs: append([]*x509.Certificate(nil), certs...)}
}

// LoadFile reads a PEM, DER or PKCS#7 bundle and returns it as a Chain.
//
// The certificates are kept in file order, so the bundle must start with
// the end-entity certificate.
func LoadFile(path string) (*Chain, error) {
	certs, err := x509certs.New().ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(certs...), nil
}

// Len reports the number of certificates in the chain.
func (ch *Chain) Len() int {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return len(ch.Certs)
}

// Leaf returns the end-entity certificate, or nil for an empty chain.
func (ch *Chain) Leaf() *x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return nil
	}
	return ch.Certs[0]
}

// DER returns the raw encoding of every certificate, in chain order. This is
// the form the record layer consumes as a Certificate message.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) DER() [][]byte {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	der := make([][]byte, len(ch.Certs))
	for i, cert := range ch.Certs {
		der[i] = cert.Raw
	}
	return der
}

// PEM encodes the chain as concatenated PEM blocks.
func (ch *Chain) PEM() []byte {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return x509certs.New().EncodeMultiplePEM(ch.Certs)
}

// IsSelfSigned checks whether cert carries a valid signature by its own key.
func (ch *Chain) IsSelfSigned(cert *x509.Certificate) bool {
	return cert.CheckSignatureFrom(cert) == nil
}

// FilterIntermediates returns the certificates between the leaf and the
// last element, or nil when there are none.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) FilterIntermediates() []*x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) <= 2 {
		return nil
	}
	return ch.Certs[1 : len(ch.Certs)-1]
}

// role determines the role of the certificate at index. Servers usually omit
// the root, so the last element is only called a root when it is self-signed.
// The caller must hold ch.mu.
func (ch *Chain) role(index int) string {
	total := len(ch.Certs)
	cert := ch.Certs[index]
	switch {
	case total == 1 && ch.IsSelfSigned(cert):
		return "Self-Signed Certificate"
	case index == 0:
		return "End-Entity (Server/Leaf) Certificate"
	case index == total-1 && ch.IsSelfSigned(cert):
		return "Root CA Certificate"
	default:
		return "Intermediate CA Certificate"
	}
}
