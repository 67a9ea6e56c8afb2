// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/testpki"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchorsCommand(t *testing.T) {
	rsaRoot := testpki.NewRoot(t, "Anchor RSA Root", testpki.RSA)
	ecRoot := testpki.NewRoot(t, "Anchor EC Root", testpki.P384)
	pinned := testpki.SelfSigned(t, "pinned.example.com", testpki.P256)
	bundle := writePEM(t, "roots.pem", rsaRoot.Cert, ecRoot.Cert, pinned.Cert)

	t.Run("table", func(t *testing.T) {
		out, logs, err := run(t, "anchors", bundle)
		require.NoError(t, err)

		assert.Contains(t, logs, "Built 3 trust anchors")
		for _, want := range []string{
			"Anchor RSA Root", "2048-bit RSA",
			"Anchor EC Root", "384-bit EC/secp384r1",
			"pinned.example.com", "256-bit EC/secp256r1", "End-Entity",
		} {
			assert.Contains(t, out, want)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "anchors", "--json", bundle)
		require.NoError(t, err)

		var infos []struct {
			Index   int    `json:"index"`
			Subject string `json:"subject"`
			CA      bool   `json:"ca"`
			KeyType string `json:"keyType"`
			KeyBits int    `json:"keyBits"`
			DNBytes int    `json:"dnBytes"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &infos))
		require.Len(t, infos, 3)

		assert.Equal(t, 1, infos[0].Index)
		assert.True(t, infos[0].CA)
		assert.Equal(t, "RSA", infos[0].KeyType)
		assert.Equal(t, 2048, infos[0].KeyBits)
		assert.Equal(t, len(rsaRoot.Cert.RawSubject), infos[0].DNBytes)

		assert.True(t, infos[1].CA)
		assert.Equal(t, "EC/secp384r1", infos[1].KeyType)

		assert.False(t, infos[2].CA)
		assert.Equal(t, "pinned.example.com", infos[2].Subject)
	})
}

func TestAnchorsCommand_Errors(t *testing.T) {
	garbage := writeFile(t, "garbage.pem", "not a certificate")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing argument", args: []string{"anchors"}},
		{name: "missing file", args: []string{"anchors", filepath.Join(t.TempDir(), "none.pem")}},
		{name: "undecodable file", args: []string{"anchors", garbage}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
