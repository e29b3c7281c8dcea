// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "github.com/nodewarp/warp/chaincfg/chainhash"

// merkleParent computes the parent node of two leaves/nodes by hashing
// their concatenated little-endian byte representations.
func merkleParent(left, right chainhash.Hash) chainhash.Hash {
	var buf [2 * chainhash.HashSize]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])
	return chainhash.Hash(sha256d(buf[:]))
}

// merkleRoot computes the root of the merkle tree built over hashes, using
// the classic bitcoin algorithm: when a level has an odd number of nodes,
// the last node is duplicated to pair with itself.
func merkleRoot(hashes []chainhash.Hash) chainhash.Hash {
	if len(hashes) == 0 {
		return chainhash.Hash{}
	}
	if len(hashes) == 1 {
		return hashes[0]
	}

	level := make([]chainhash.Hash, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		next := make([]chainhash.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, merkleParent(left, right))
		}
		level = next
	}
	return level[0]
}
