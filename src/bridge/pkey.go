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

// keyRefs holds the buffer references behind a tagged key record. Slot use
// depends on the tag: RSA keeps the modulus in slot 0 and the exponent in
// slot 1, EC keeps the point in slot 0 and never reads slot 1.
type keyRefs struct {
	tag  uint8
	refs [2]*host.Bytes
}

// retain takes one reference on each buffer of the active variant. Empty
// slots are skipped, as in release.
func (s *keyRefs) retain(rt host.Runtime) {
	switch s.tag {
	case native.KeyTypeRSA:
		retain(rt, s.refs[0])
		retain(rt, s.refs[1])
	case native.KeyTypeEC:
		retain(rt, s.refs[0])
	}
}

// release drops the references of the active variant.
func (s *keyRefs) release(rt host.Runtime) {
	switch s.tag {
	case native.KeyTypeRSA:
		release(rt, &s.refs[0])
		release(rt, &s.refs[1])
	case native.KeyTypeEC:
		release(rt, &s.refs[0])
	}
	s.tag = 0
}

// X509PKey is the tagged public key union.
type X509PKey struct {
	object
	rec  native.X509PKey
	keys keyRefs
}

// PKeyRSA converts an RSA key into a tagged key. It takes its own reference
// on the modulus and exponent, then releases k. The caller must not use k
// afterwards.
func (b *Bridge) PKeyRSA(k *RSAPublicKey) (*X509PKey, error) {
	p := &X509PKey{
		object: object{rt: b.rt},
		rec:    native.X509PKey{KeyType: native.KeyTypeRSA, RSA: k.rec},
		keys:   keyRefs{tag: native.KeyTypeRSA, refs: [2]*host.Bytes{k.n, k.e}},
	}
	return b.adoptKey(p, &k.object)
}

// PKeyEC converts an EC key into a tagged key. It takes its own reference on
// the point, then releases k. The caller must not use k afterwards.
func (b *Bridge) PKeyEC(k *ECPublicKey) (*X509PKey, error) {
	p := &X509PKey{
		object: object{rt: b.rt},
		rec:    native.X509PKey{KeyType: native.KeyTypeEC, EC: k.rec},
		keys:   keyRefs{tag: native.KeyTypeEC, refs: [2]*host.Bytes{k.q}},
	}
	return b.adoptKey(p, &k.object)
}

// adoptKey allocates p and consumes the source wrapper.
func (b *Bridge) adoptKey(p *X509PKey, src *object) (*X509PKey, error) {
	obj, err := b.rt.MakeExternal(LabelX509PKey, int(unsafe.Sizeof(p.rec)), p.finalize)
	if err != nil {
		src.Release()
		return nil, fmt.Errorf("bridge: tagged public key: %w", err)
	}
	p.Object = obj

	p.keys.retain(b.rt)
	src.Release()

	Logger().Debug("tagged public key created", zap.Uint64("id", obj.ID()), zap.Uint8("key_type", p.rec.KeyType))
	return p, nil
}

// KeyType returns the active variant tag.
func (p *X509PKey) KeyType() uint8 { return p.rec.KeyType }

// Record returns the native record. Only the member selected by KeyType is meaningful.
func (p *X509PKey) Record() native.X509PKey { return p.rec }

func (p *X509PKey) finalize() {
	p.keys.release(p.rt)
	p.rec = native.X509PKey{}
}
