// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// This file exports internal functions for use in tests.
// It is compiled only when running tests.

package wire

import "github.com/nodewarp/warp/chaincfg/chainhash"

// TstMerkleRoot makes the internal merkleRoot function available to tests.
func TstMerkleRoot(hashes []chainhash.Hash) chainhash.Hash {
	return merkleRoot(hashes)
}
