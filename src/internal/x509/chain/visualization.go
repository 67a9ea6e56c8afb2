// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RenderASCIITree renders the chain as an ASCII tree diagram.
//
// Every entry is marked with the engine verdict: a check mark when the
// engine accepted the chain, a cross otherwise.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderASCIITree(verified bool) string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates in chain"
	}

	statusIcon := "✗"
	if verified {
		statusIcon = "✓"
	}

	var result strings.Builder
	for i, cert := range ch.Certs {
		connector := "├── "
		if i == len(ch.Certs)-1 {
			connector = "└── "
		}

		certInfo := fmt.Sprintf("[%s] %s (%s)", statusIcon, cert.Subject.CommonName, ch.role(i))
		result.WriteString(connector + certInfo + "\n")
	}

	return result.String()
}

// CertificateInfo is the summary of one chain element.
type CertificateInfo struct {
	Index              int       `json:"index"`
	Role               string    `json:"role"`
	Subject            string    `json:"subject"`
	Issuer             string    `json:"issuer"`
	SerialNumber       string    `json:"serialNumber"`
	SignatureAlgorithm string    `json:"signatureAlgorithm"`
	PublicKeyAlgorithm string    `json:"publicKeyAlgorithm"`
	KeySize            int       `json:"keySize"`
	NotBefore          time.Time `json:"notBefore"`
	NotAfter           time.Time `json:"notAfter"`
	IsCA               bool      `json:"isCA"`
}

// Describe summarises every certificate in the chain.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Describe() []CertificateInfo {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	infos := make([]CertificateInfo, len(ch.Certs))
	for i, cert := range ch.Certs {
		keySize := 0
		pubKeyAlgo := "unknown"

		switch pubKey := cert.PublicKey.(type) {
		case *rsa.PublicKey:
			keySize = pubKey.Size() * 8
			pubKeyAlgo = "RSA"
		case *ecdsa.PublicKey:
			keySize = pubKey.Curve.Params().BitSize
			pubKeyAlgo = "ECDSA"
		}

		infos[i] = CertificateInfo{
			Index:              i,
			Role:               ch.role(i),
			Subject:            cert.Subject.CommonName,
			Issuer:             cert.Issuer.CommonName,
			SerialNumber:       cert.SerialNumber.String(),
			SignatureAlgorithm: cert.SignatureAlgorithm.String(),
			PublicKeyAlgorithm: pubKeyAlgo,
			KeySize:            keySize,
			NotBefore:          cert.NotBefore,
			NotAfter:           cert.NotAfter,
			IsCA:               cert.IsCA,
		}
	}
	return infos
}

// ToVisualizationJSON converts the chain and the engine verdict to indented
// JSON for external tools. Each certificate is linked to the next one by a
// signed_by relationship.
func (ch *Chain) ToVisualizationJSON(verdict string) ([]byte, error) {
	type RelationshipData struct {
		FromIndex int    `json:"fromIndex"`
		ToIndex   int    `json:"toIndex"`
		Type      string `json:"type"`
	}

	type VisualizationData struct {
		Timestamp     string             `json:"timestamp"`
		Verdict       string             `json:"verdict"`
		ChainLength   int                `json:"chainLength"`
		Certificates  []CertificateInfo  `json:"certificates"`
		Relationships []RelationshipData `json:"relationships"`
	}

	certs := ch.Describe()
	data := VisualizationData{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Verdict:       verdict,
		ChainLength:   len(certs),
		Certificates:  certs,
		Relationships: []RelationshipData{},
	}

	for i := 0; i < len(certs)-1; i++ {
		data.Relationships = append(data.Relationships, RelationshipData{
			FromIndex: i,
			ToIndex:   i + 1,
			Type:      "signed_by",
		})
	}

	return json.MarshalIndent(data, "", "  ")
}
