// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package anchors turns [X.509] certificates into bridge trust anchors.
//
// The anchor name is the certificate's raw subject. The key is taken from the
// SubjectPublicKeyInfo as raw big-endian modulus and exponent (RSA) or as the
// encoded point and named curve (EC). Certificates with a CA basic constraint
// become CA anchors; any other certificate is pinned as an end-entity anchor.
//
// [X.509]: https://grokipedia.com/page/X.509
package anchors
