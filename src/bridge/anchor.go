// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package bridge

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/H0llyW00dzZ/brssl-bridge/src/host"
	"github.com/H0llyW00dzZ/brssl-bridge/src/native"
)

// TrustAnchor owns a distinguished-name buffer and the buffers of one tagged key.
type TrustAnchor struct {
	object
	rec  native.X509TrustAnchor
	dn   *host.Bytes
	keys keyRefs
}

// TrustAnchor builds a trust anchor from a DER-encoded name, anchor flags
// ([native.X509TACA] for a CA) and a tagged key. The dn reference is taken
// over with its length snapshotted; pkey is consumed like in [Bridge.PKeyRSA].
//
// On allocation failure dn and pkey are released and the error wraps
// [host.ErrOutOfMemory].
func (b *Bridge) TrustAnchor(dn *host.Bytes, flags uint32, pkey *X509PKey) (*TrustAnchor, error) {
	ta := &TrustAnchor{
		object: object{rt: b.rt},
		rec: native.X509TrustAnchor{
			DN:    native.X500Name{Data: b.view(dn)},
			Flags: flags,
			PKey:  pkey.rec,
		},
		dn:   dn,
		keys: pkey.keys,
	}

	obj, err := b.rt.MakeExternal(LabelTrustAnchor, int(unsafe.Sizeof(ta.rec)), ta.finalize)
	if err != nil {
		ta.keys = keyRefs{}
		ta.finalize()
		pkey.Release()
		return nil, fmt.Errorf("bridge: trust anchor: %w", err)
	}
	ta.Object = obj

	ta.keys.retain(b.rt)
	pkey.Release()

	Logger().Debug("trust anchor created",
		zap.Uint64("id", obj.ID()),
		zap.Int("dn_len", len(ta.rec.DN.Data)),
		zap.Bool("ca", flags&native.X509TACA != 0),
	)
	return ta, nil
}

// Flags returns the anchor flags.
func (ta *TrustAnchor) Flags() uint32 { return ta.rec.Flags }

// Record returns the native record. Its slices alias the owned buffers.
func (ta *TrustAnchor) Record() native.X509TrustAnchor { return ta.rec }

func (ta *TrustAnchor) finalize() {
	release(ta.rt, &ta.dn)
	ta.keys.release(ta.rt)
	ta.rec = native.X509TrustAnchor{}
}
