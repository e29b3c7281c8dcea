// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// MaxBlockHeaderPayload is the number of bytes a block header occupies on
// the wire: 4 version + 32 prev hash + 32 merkle root + 4 time + 4 bits +
// 4 nonce.
const MaxBlockHeaderPayload = 80

// BlockHeader defines information about a block and is used in the bitcoin
// block (MsgBlock) and headers (MsgHeaders) messages.
type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version int32

	// Hash of the previous block in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created.
	Timestamp time.Time

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32

	// cachedHash is this header's own hash, computed once at construction
	// or deserialization time and never reserialized afterward.
	cachedHash chainhash.Hash
}

// NewBlockHeader returns a new BlockHeader with its own hash computed and
// cached.
func NewBlockHeader(version int32, prevHash, merkleRootHash *chainhash.Hash,
	bits uint32, nonce uint32) *BlockHeader {

	h := &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
	h.setCachedHash()
	return h
}

// BlockHash returns this header's own double-sha256 hash.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	return h.cachedHash
}

// setCachedHash recomputes and stores the header's own hash. Called once
// after every field assignment path (construction, deserialization).
func (h *BlockHeader) setCachedHash() {
	var buf bytes.Buffer
	_ = h.Serialize(&buf)
	sum := sha256d(buf.Bytes())
	h.cachedHash = chainhash.Hash(sum)
}

// Serialize encodes a block header. The wire encoding never includes the
// cached own-hash field.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := writeElement(w, h.Version); err != nil {
		return err
	}
	if err := writeElement(w, h.PrevBlock); err != nil {
		return err
	}
	if err := writeElement(w, h.MerkleRoot); err != nil {
		return err
	}
	if err := writeElement(w, uint32(h.Timestamp.Unix())); err != nil {
		return err
	}
	if err := writeElement(w, h.Bits); err != nil {
		return err
	}
	return writeElement(w, h.Nonce)
}

// Deserialize decodes a block header from r and computes its own hash.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	if err := readElement(r, &h.Version); err != nil {
		return err
	}
	if err := readElement(r, &h.PrevBlock); err != nil {
		return err
	}
	if err := readElement(r, &h.MerkleRoot); err != nil {
		return err
	}
	var ts uint32
	if err := readElement(r, &ts); err != nil {
		return err
	}
	h.Timestamp = time.Unix(int64(ts), 0)
	if err := readElement(r, &h.Bits); err != nil {
		return err
	}
	if err := readElement(r, &h.Nonce); err != nil {
		return err
	}
	h.setCachedHash()
	return nil
}
