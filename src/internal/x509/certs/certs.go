// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

var (
	// ErrInvalidPEMBlock indicates that the provided data does not contain a valid PEM block.
	ErrInvalidPEMBlock = errors.New("x509certs: invalid PEM block")

	// ErrInvalidBlockType indicates that the PEM block type is not the expected certificate type.
	ErrInvalidBlockType = errors.New("x509certs: invalid block type")

	// ErrParseCertificate indicates a failure to parse the certificate from the provided data.
	ErrParseCertificate = errors.New("x509certs: failed to parse certificate")

	// ErrParsePKCS7 indicates a failure to parse PKCS7 formatted data.
	ErrParsePKCS7 = errors.New("x509certs: failed to parse PKCS7 data")

	// ErrNoCertificatesInPKCS indicates that no certificates were found in the PKCS7 data.
	ErrNoCertificatesInPKCS = errors.New("x509certs: no certificates found in PKCS7 data")

	// ErrEmptyBundle indicates that a bundle decoded to zero certificates.
	ErrEmptyBundle = errors.New("x509certs: bundle contains no certificates")
)

// PEM object names accepted as certificates. BearSSL's tools accept both;
// OpenSSL writes the first.
const (
	blockCertificate     = "CERTIFICATE"
	blockX509Certificate = "X509 CERTIFICATE"
	blockPKCS7           = "PKCS7"
)

// Certificate decodes [X.509] certificates and bundles for trust-anchor and
// peer-chain loading.
//
// PEM input may mix certificates with unrelated objects such as private
// keys; those are skipped. A "PKCS7" object contributes every certificate
// it carries.
//
// [X.509]: https://en.wikipedia.org/wiki/X.509
type Certificate struct {
	certBlockType string
}

// New creates a new Certificate with default settings.
func New() *Certificate {
	return &Certificate{
		certBlockType: blockCertificate,
	}
}

// IsPEM checks if the data is in PEM format.
func (c *Certificate) IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// isCertBlock reports whether a PEM object holds a single DER certificate.
func isCertBlock(block *pem.Block) bool {
	return block.Type == blockCertificate || block.Type == blockX509Certificate
}

// parsePKCS7 extracts every certificate of a PKCS#7 SignedData bundle.
func parsePKCS7(data []byte) ([]*x509.Certificate, error) {
	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParsePKCS7
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificatesInPKCS
	}
	return p.Content.SignedData.Certificates, nil
}

// decodeBinary decodes a concatenated DER chain or a PKCS#7 bundle.
func decodeBinary(data []byte) ([]*x509.Certificate, error) {
	if certs, err := x509.ParseCertificates(data); err == nil {
		if len(certs) == 0 {
			return nil, ErrEmptyBundle
		}
		return certs, nil
	}

	certs, err := parsePKCS7(data)
	switch {
	case err == nil:
		return certs, nil
	case errors.Is(err, ErrNoCertificatesInPKCS):
		return nil, err
	default:
		return nil, ErrParseCertificate
	}
}

// pemCertificates walks every PEM object in data. With first set it stops
// at the first certificate found.
func pemCertificates(data []byte, first bool) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		data = rest

		switch {
		case isCertBlock(block):
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, ErrParseCertificate
			}
			certs = append(certs, cert)
		case block.Type == blockPKCS7:
			bundle, err := parsePKCS7(block.Bytes)
			if err != nil {
				return nil, err
			}
			certs = append(certs, bundle...)
		default:
			continue
		}

		if first {
			break
		}
	}

	if len(certs) == 0 {
		return nil, ErrInvalidBlockType
	}
	return certs, nil
}

// DecodeMultiple decodes every certificate of a PEM bundle, a concatenated
// DER chain or a PKCS#7 bundle, in order.
func (c *Certificate) DecodeMultiple(data []byte) ([]*x509.Certificate, error) {
	if c.IsPEM(data) {
		return pemCertificates(data, false)
	}
	return decodeBinary(data)
}

// Decode decodes a single certificate: the first certificate object of PEM
// input, DER, or the first entry of a PKCS#7 bundle.
func (c *Certificate) Decode(data []byte) (*x509.Certificate, error) {
	if c.IsPEM(data) {
		certs, err := pemCertificates(data, true)
		if err != nil {
			return nil, err
		}
		return certs[0], nil
	}

	if cert, err := x509.ParseCertificate(data); err == nil {
		return cert, nil
	}

	certs, err := decodeBinary(data)
	if err != nil {
		return nil, err
	}
	return certs[0], nil
}

// ReadFile reads and decodes every certificate in the file at path.
func (c *Certificate) ReadFile(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("x509certs: %w", err)
	}

	certs, err := c.DecodeMultiple(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyBundle)
	}
	return certs, nil
}

// EncodeMultiplePEM encodes certs as concatenated PEM blocks.
func (c *Certificate) EncodeMultiplePEM(certs []*x509.Certificate) []byte {
	var data []byte

	for _, cert := range certs {
		data = append(data, pem.EncodeToMemory(&pem.Block{Type: c.certBlockType, Bytes: cert.Raw})...)
	}

	return data
}
