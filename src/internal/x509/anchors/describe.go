// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package anchors

import (
	"crypto/x509"
	"fmt"

	"github.com/H0llyW00dzZ/brssl-bridge/src/bridge"
	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

// Info summarises one trust anchor for display.
type Info struct {
	Index      int    `json:"index"`
	Subject    string `json:"subject"`
	CA         bool   `json:"ca"`
	KeyType    string `json:"keyType"`
	KeyBits    int    `json:"keyBits"`
	DNBytes    int    `json:"dnBytes"`
	ValidUntil string `json:"validUntil"`
}

// Describe summarises tas, which must have been built from certs in order.
// Index is one-based.
func Describe(tas []*bridge.TrustAnchor, certs []*x509.Certificate) ([]Info, error) {
	if len(tas) != len(certs) {
		return nil, fmt.Errorf("anchors: %d anchors for %d certificates", len(tas), len(certs))
	}

	infos := make([]Info, len(tas))
	for i, ta := range tas {
		key, err := ParseSPKI(certs[i].RawSubjectPublicKeyInfo)
		if err != nil {
			return nil, err
		}
		infos[i] = Info{
			Index:      i + 1,
			Subject:    certs[i].Subject.CommonName,
			CA:         ta.Flags()&native.X509TACA != 0,
			KeyType:    key.String(),
			KeyBits:    key.Bits(),
			DNBytes:    len(ta.Record().DN.Data),
			ValidUntil: certs[i].NotAfter.Format("2006-01-02"),
		}
	}
	return infos, nil
}
