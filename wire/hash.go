// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "crypto/sha256"

// sha256d computes the double SHA-256 digest used throughout the wire
// protocol for frame checksums, transaction IDs and block hashes. There is
// no ecosystem library among the examples for this single, fixed hash
// composition; wrapping stdlib crypto/sha256 twice is the idiomatic choice
// the reference btcsuite code itself makes (see chainhash.DoubleHashB).
func sha256d(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}
