// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// MaxBlockPayload is the maximum bytes a block message can be. The largest
// block payload this package will accept is bounded by the overall message
// payload limit, since blocks exceeding it could never have been relayed.
const MaxBlockPayload = MaxMessagePayload

// MsgBlock implements the Message interface and represents a bitcoin block
// message. Deserialization enforces the structural invariants that make an
// invalid block unrepresentable: at least one transaction, the first (and
// only the first) is a coinbase, and the transactions merkle-ize to the
// header's advertised root.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// BtcEncode implements the Message interface.
func (msg *MsgBlock) BtcEncode(w io.Writer, pver uint32) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.BtcEncode(w, pver); err != nil {
			return err
		}
	}
	return nil
}

// BtcDecode implements the Message interface.
func (msg *MsgBlock) BtcDecode(r io.Reader, pver uint32) error {
	var hdr BlockHeader
	if err := hdr.Deserialize(r); err != nil {
		return err
	}

	txCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txCount == 0 {
		return fmt.Errorf("wire: block contains no transactions")
	}

	first := &MsgTx{}
	if err := first.BtcDecode(r, pver); err != nil {
		return err
	}
	if !first.IsCoinBase() {
		return fmt.Errorf("wire: block did not contain coinbase in first position")
	}

	txs := make([]*MsgTx, 1, txCount)
	txs[0] = first

	leaves := make([]chainhash.Hash, 1, txCount)
	leaves[0] = first.TxHash()

	for i := uint64(1); i < txCount; i++ {
		tx := &MsgTx{}
		if err := tx.BtcDecode(r, pver); err != nil {
			return err
		}
		if tx.IsCoinBase() {
			return fmt.Errorf("wire: block contained second coinbase transaction")
		}
		txs = append(txs, tx)
		leaves = append(leaves, tx.TxHash())
	}

	root := merkleRoot(leaves)
	if !root.IsEqual(&hdr.MerkleRoot) {
		return fmt.Errorf("wire: block transactions do not merkle-ize to the header's merkle root")
	}

	msg.Header = hdr
	msg.Transactions = txs
	return nil
}

// Command implements the Message interface.
func (msg *MsgBlock) Command() string { return CmdBlock }

// MaxPayloadLength implements the Message interface.
func (msg *MsgBlock) MaxPayloadLength(pver uint32) uint64 {
	return MaxBlockPayload
}

// BlockHash returns the header's own hash.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// TxHashes returns the transaction ids of every transaction in the block, in
// order.
func (msg *MsgBlock) TxHashes() []chainhash.Hash {
	hashes := make([]chainhash.Hash, len(msg.Transactions))
	for i, tx := range msg.Transactions {
		hashes[i] = tx.TxHash()
	}
	return hashes
}
