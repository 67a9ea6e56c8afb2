// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package handshake_test

import (
	"context"
	"crypto/x509"
	"testing"
	"time"

	"github.com/H0llyW00dzZ/brssl-bridge/src/config"
	"github.com/H0llyW00dzZ/brssl-bridge/src/host"
	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/handshake"
	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/testpki"
	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/anchors"
	x509chain "github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peerName = "runner.bridge.test"

func TestRunner(t *testing.T) {
	root := testpki.NewRoot(t, "Runner Root", testpki.P256)
	inter := root.Intermediate(t, "Runner Intermediate", testpki.RSA)
	leaf := inter.Leaf(t, peerName, testpki.P256)
	stranger := testpki.NewRoot(t, "Runner Stranger", testpki.RSA)
	peer := x509chain.New(leaf.Cert, inter.Cert)

	tests := []struct {
		name        string
		roots       []*x509.Certificate
		req         handshake.Request
		wantStates  []string
		wantErrors  []string
		wantResumed []bool
	}{
		{
			name:        "established",
			roots:       []*x509.Certificate{root.Cert},
			req:         handshake.Request{ServerName: peerName},
			wantStates:  []string{"established"},
			wantErrors:  []string{"BR_ERR_OK"},
			wantResumed: []bool{false},
		},
		{
			name:        "not trusted",
			roots:       []*x509.Certificate{stranger.Cert},
			req:         handshake.Request{ServerName: peerName},
			wantStates:  []string{"failed"},
			wantErrors:  []string{"BR_ERR_X509_NOT_TRUSTED"},
			wantResumed: []bool{false},
		},
		{
			name:        "expired",
			roots:       []*x509.Certificate{root.Cert},
			req:         handshake.Request{ServerName: peerName, Time: time.Now().Add(48 * time.Hour)},
			wantStates:  []string{"failed"},
			wantErrors:  []string{"BR_ERR_X509_EXPIRED"},
			wantResumed: []bool{false},
		},
		{
			name:        "resumed second attempt",
			roots:       []*x509.Certificate{root.Cert},
			req:         handshake.Request{ServerName: peerName, Resume: true, Attempts: 2},
			wantStates:  []string{"established", "established"},
			wantErrors:  []string{"BR_ERR_OK", "BR_ERR_OK"},
			wantResumed: []bool{false, true},
		},
		{
			name:        "failed sessions are not cached",
			roots:       []*x509.Certificate{stranger.Cert},
			req:         handshake.Request{ServerName: peerName, Resume: true, Attempts: 2},
			wantStates:  []string{"failed", "failed"},
			wantErrors:  []string{"BR_ERR_X509_NOT_TRUSTED", "BR_ERR_X509_NOT_TRUSTED"},
			wantResumed: []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := handshake.NewRunner(nil)
			tas, err := anchors.FromCertificates(r.Bridge(), tt.roots)
			require.NoError(t, err)

			req := tt.req
			req.Anchors = tas
			req.Peer = peer

			attempts, err := r.Run(context.Background(), req)
			require.NoError(t, err)
			require.Len(t, attempts, len(tt.wantStates))

			for i, a := range attempts {
				assert.Equal(t, i+1, a.Attempt)
				assert.Equal(t, tt.wantStates[i], a.State)
				assert.Equal(t, tt.wantErrors[i], a.LastError)
				assert.Equal(t, tt.wantResumed[i], a.Resumed)
				assert.Equal(t, a.Established(), a.SessionID != "")
			}
			if len(attempts) == 2 && attempts[1].Resumed {
				assert.Equal(t, attempts[0].SessionID, attempts[1].SessionID)
			}

			anchors.Release(tas)
			stats := r.Heap().Stats()
			assert.Zero(t, stats.LiveBuffers)
			assert.Zero(t, stats.LiveObjects)
		})
	}
}

func TestRunner_SessionsOutliveRuns(t *testing.T) {
	root := testpki.NewRoot(t, "Cache Root", testpki.P256)
	peer := x509chain.New(root.Leaf(t, peerName, testpki.P256).Cert)

	r := handshake.NewRunner(nil)
	tas, err := anchors.FromCertificates(r.Bridge(), []*x509.Certificate{root.Cert})
	require.NoError(t, err)
	defer anchors.Release(tas)

	req := handshake.Request{Anchors: tas, Peer: peer, ServerName: peerName, Resume: true}

	first, err := r.Run(context.Background(), req)
	require.NoError(t, err)
	second, err := r.Run(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, first[0].Resumed)
	assert.True(t, second[0].Resumed)
	assert.Equal(t, int64(1), r.Sessions().Metrics().Size)
}

func TestRunner_ResumeRequiresSameAnchors(t *testing.T) {
	root := testpki.NewRoot(t, "Resume Root", testpki.P256)
	other := testpki.NewRoot(t, "Resume Other Root", testpki.RSA)
	third := testpki.NewRoot(t, "Resume Third Root", testpki.P256)
	trusted := x509chain.New(root.Leaf(t, peerName, testpki.P256).Cert)
	untrusted := x509chain.New(third.Leaf(t, peerName, testpki.P256).Cert)

	tests := []struct {
		name        string
		roots       []*x509.Certificate
		peer        *x509chain.Chain
		wantState   string
		wantError   string
		wantResumed bool
	}{
		{
			name:        "same anchors resume",
			roots:       []*x509.Certificate{root.Cert},
			peer:        trusted,
			wantState:   "established",
			wantError:   "BR_ERR_OK",
			wantResumed: true,
		},
		{
			name:      "other anchors verify the chain",
			roots:     []*x509.Certificate{other.Cert},
			peer:      untrusted,
			wantState: "failed",
			wantError: "BR_ERR_X509_NOT_TRUSTED",
		},
		{
			name:      "anchor superset is a different set",
			roots:     []*x509.Certificate{root.Cert, other.Cert},
			peer:      trusted,
			wantState: "established",
			wantError: "BR_ERR_OK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := handshake.NewRunner(nil)

			first, err := anchors.FromCertificates(r.Bridge(), []*x509.Certificate{root.Cert})
			require.NoError(t, err)
			established, err := r.Run(context.Background(), handshake.Request{
				Anchors: first, Peer: trusted, ServerName: peerName,
			})
			require.NoError(t, err)
			anchors.Release(first)
			require.True(t, established[0].Established())

			second, err := anchors.FromCertificates(r.Bridge(), tt.roots)
			require.NoError(t, err)
			defer anchors.Release(second)

			attempts, err := r.Run(context.Background(), handshake.Request{
				Anchors: second, Peer: tt.peer, ServerName: peerName, Resume: true,
			})
			require.NoError(t, err)
			require.Len(t, attempts, 1)

			a := attempts[0]
			assert.Equal(t, tt.wantState, a.State)
			assert.Equal(t, tt.wantError, a.LastError)
			assert.Equal(t, tt.wantResumed, a.Resumed)
			if tt.wantResumed {
				assert.Equal(t, established[0].SessionID, a.SessionID)
			} else {
				assert.NotEqual(t, established[0].SessionID, a.SessionID)
			}
		})
	}
}

func TestRunner_Errors(t *testing.T) {
	root := testpki.NewRoot(t, "Error Root", testpki.P256)
	peer := x509chain.New(root.Leaf(t, peerName, testpki.P256).Cert)

	t.Run("no peer", func(t *testing.T) {
		_, err := handshake.NewRunner(nil).Run(context.Background(), handshake.Request{})
		assert.ErrorIs(t, err, handshake.ErrNoPeer)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		attempts, err := handshake.NewRunner(nil).Run(ctx, handshake.Request{Peer: peer})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, attempts)
	})

	t.Run("buffer refused", func(t *testing.T) {
		cfg := config.Default()
		cfg.Heap.LimitBytes = 4096
		r := handshake.NewRunner(cfg)

		_, err := r.Run(context.Background(), handshake.Request{Peer: peer, ServerName: peerName})
		assert.ErrorIs(t, err, host.ErrOutOfMemory)

		stats := r.Heap().Stats()
		assert.Zero(t, stats.LiveBuffers)
		assert.Zero(t, stats.LiveObjects)
		assert.NotZero(t, stats.Refused)
	})
}
