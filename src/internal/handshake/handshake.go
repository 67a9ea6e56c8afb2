// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package handshake

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"hash"
	"time"

	"github.com/H0llyW00dzZ/brssl-bridge/src/bridge"
	"github.com/H0llyW00dzZ/brssl-bridge/src/config"
	"github.com/H0llyW00dzZ/brssl-bridge/src/host"
	x509chain "github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

// ErrNoPeer is returned by [Runner.Run] when the request carries no chain.
var ErrNoPeer = errors.New("handshake: no peer chain")

// Request describes a handshake run. Anchors are borrowed for the duration
// of the run.
type Request struct {
	Anchors    []*bridge.TrustAnchor
	Peer       *x509chain.Chain
	ServerName string    // empty sends no name and skips the name check
	Time       time.Time // zero verifies at the current time
	Resume     bool      // install the session cached for ServerName under the same Anchors, if any
	Attempts   int       // engines to run in sequence (0 means 1)
}

// Attempt is the outcome of one engine run.
type Attempt struct {
	Attempt   int    `json:"attempt"`
	Resumed   bool   `json:"resumed"`
	State     string `json:"state"`
	LastError string `json:"lastError"`
	SessionID string `json:"sessionId,omitempty"`

	state bridge.State
}

// Established reports whether the engine authenticated the peer.
func (a Attempt) Established() bool { return a.state == bridge.StateEstablished }

// Runner owns a host heap, the reference engine, a bridge over both and a
// session cache shared by every run.
//
// Runner is safe for concurrent use by multiple goroutines.
type Runner struct {
	cfg   *config.Config
	heap  *host.Heap
	ref   *native.Reference
	b     *bridge.Bridge
	cache *bridge.SessionCache
}

// NewRunner creates a Runner sized by cfg (nil uses [config.Default]).
func NewRunner(cfg *config.Config) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}

	heap := host.NewHeap(host.HeapConfig{LimitBytes: cfg.Heap.LimitBytes})
	ref := native.NewReference()
	return &Runner{
		cfg:  cfg,
		heap: heap,
		ref:  ref,
		b:    bridge.New(heap, ref),
		cache: bridge.NewSessionCache(&bridge.SessionCacheConfig{
			MaxSize: cfg.Sessions.MaxSize,
			MaxAge:  cfg.SessionMaxAge(),
		}),
	}
}

// Config returns the configuration the runner was sized by.
func (r *Runner) Config() *config.Config { return r.cfg }

// Bridge returns the bridge anchors must be built on.
func (r *Runner) Bridge() *bridge.Bridge { return r.b }

// Heap returns the host heap.
func (r *Runner) Heap() *host.Heap { return r.heap }

// Sessions returns the session cache.
func (r *Runner) Sessions() *bridge.SessionCache { return r.cache }

// Run drives req.Attempts engines over req.Peer, one after the other. Every
// engine saves its session on success, so with Resume set the later attempts
// resume the session of the first.
//
// Run only returns an error when the host refuses an allocation or ctx is
// done; a rejected peer is reported through the attempts.
func (r *Runner) Run(ctx context.Context, req Request) ([]Attempt, error) {
	if req.Peer == nil {
		return nil, ErrNoPeer
	}

	n := max(req.Attempts, 1)
	attempts := make([]Attempt, 0, n)
	for i := range n {
		if err := ctx.Err(); err != nil {
			return attempts, err
		}
		a, err := r.once(req)
		if err != nil {
			return attempts, err
		}
		a.Attempt = i + 1
		attempts = append(attempts, a)
	}
	return attempts, nil
}

// once runs a single engine and releases everything it created.
func (r *Runner) once(req Request) (Attempt, error) {
	xc, err := r.b.X509MinimalContext()
	if err != nil {
		return Attempt{}, err
	}
	defer xc.Release()

	cc, err := r.b.ClientContext()
	if err != nil {
		return Attempt{}, err
	}
	defer cc.Release()

	// Init zeroes the engine, so time and buffer come after it.
	cc.InitFull(xc, req.Anchors)
	if !req.Time.IsZero() {
		xc.SetTime(req.Time)
	}

	buf, err := r.heap.MakeBytes(r.cfg.Engine.BufferSize, 0)
	if err != nil {
		return Attempt{}, err
	}
	defer r.heap.DecRef(buf)
	cc.Engine().SetBuffer(buf)

	key := sessionKey(req)
	resumed := req.Resume && r.cache.Resume(cc, key)

	var sni *host.Bytes
	if req.ServerName != "" {
		if sni, err = host.Copy(r.heap, []byte(req.ServerName)); err != nil {
			return Attempt{}, err
		}
	}

	if cc.Reset(sni, resumed) != 0 {
		r.ref.ClientReceiveChain(cc.Native(), req.Peer.DER())
		r.cache.Save(cc, key)
	}

	a := Attempt{
		Resumed:   resumed,
		State:     cc.State().String(),
		LastError: native.ErrorName(cc.LastError()),
		state:     cc.State(),
	}
	if a.Established() {
		a.SessionID = hex.EncodeToString(cc.SessionParameters().SessionID)
	}
	return a, nil
}

// sessionKey names the cache slot of a run: the server name plus a digest of
// the anchor records. A resumed engine skips chain validation, so a session
// must only be offered to runs that trust exactly the same anchors.
func sessionKey(req Request) string {
	h := sha256.New()
	for _, ta := range req.Anchors {
		rec := ta.Record()
		writeField(h, rec.DN.Data)
		_ = binary.Write(h, binary.BigEndian, rec.Flags)
		_ = binary.Write(h, binary.BigEndian, rec.PKey.KeyType)
		switch rec.PKey.KeyType {
		case native.KeyTypeRSA:
			writeField(h, rec.PKey.RSA.N)
			writeField(h, rec.PKey.RSA.E)
		case native.KeyTypeEC:
			_ = binary.Write(h, binary.BigEndian, int64(rec.PKey.EC.Curve))
			writeField(h, rec.PKey.EC.Q)
		}
	}
	return req.ServerName + "#" + hex.EncodeToString(h.Sum(nil))
}

// writeField writes b length-prefixed so adjacent fields cannot collide.
func writeField(h hash.Hash, b []byte) {
	_ = binary.Write(h, binary.BigEndian, uint32(len(b)))
	h.Write(b)
}
