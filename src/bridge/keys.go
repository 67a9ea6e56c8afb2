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

// RSAPublicKey owns the modulus and exponent buffers of a native RSA key.
type RSAPublicKey struct {
	object
	rec  native.RSAPublicKey
	n, e *host.Bytes
}

// RSAPublicKey wraps a modulus and public exponent (big-endian, unsigned).
// Both references are taken over. The record snapshots each buffer's
// current length; the values are not validated.
//
// On allocation failure n and e are released and the error wraps
// [host.ErrOutOfMemory].
func (b *Bridge) RSAPublicKey(n, e *host.Bytes) (*RSAPublicKey, error) {
	k := &RSAPublicKey{
		object: object{rt: b.rt},
		rec:    native.RSAPublicKey{N: b.view(n), E: b.view(e)},
		n:      n,
		e:      e,
	}

	obj, err := b.rt.MakeExternal(LabelRSAPublicKey, int(unsafe.Sizeof(k.rec)), k.finalize)
	if err != nil {
		k.finalize()
		return nil, fmt.Errorf("bridge: rsa public key: %w", err)
	}
	k.Object = obj

	Logger().Debug("rsa public key created", zap.Uint64("id", obj.ID()), zap.Int("modulus_len", len(k.rec.N)))
	return k, nil
}

// Record returns the native record. Its slices alias the owned buffers.
func (k *RSAPublicKey) Record() native.RSAPublicKey { return k.rec }

func (k *RSAPublicKey) finalize() {
	release(k.rt, &k.n)
	release(k.rt, &k.e)
	k.rec = native.RSAPublicKey{}
}

// ECPublicKey owns the encoded point buffer of a native EC key.
type ECPublicKey struct {
	object
	rec native.ECPublicKey
	q   *host.Bytes
}

// ECPublicKey wraps an encoded curve point on the named curve. The point
// reference is taken over and its length snapshotted; neither the point nor
// the curve is validated.
//
// On allocation failure q is released and the error wraps [host.ErrOutOfMemory].
func (b *Bridge) ECPublicKey(q *host.Bytes, curve int) (*ECPublicKey, error) {
	k := &ECPublicKey{
		object: object{rt: b.rt},
		rec:    native.ECPublicKey{Curve: curve, Q: b.view(q)},
		q:      q,
	}

	obj, err := b.rt.MakeExternal(LabelECPublicKey, int(unsafe.Sizeof(k.rec)), k.finalize)
	if err != nil {
		k.finalize()
		return nil, fmt.Errorf("bridge: ec public key: %w", err)
	}
	k.Object = obj

	Logger().Debug("ec public key created", zap.Uint64("id", obj.ID()), zap.String("curve", native.CurveName(curve)))
	return k, nil
}

// Record returns the native record. Its point slice aliases the owned buffer.
func (k *ECPublicKey) Record() native.ECPublicKey { return k.rec }

func (k *ECPublicKey) finalize() {
	release(k.rt, &k.q)
	k.rec = native.ECPublicKey{}
}
