// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// MaxBlockTxnIndexesPerMsg bounds the index list of a getblocktxn message.
const MaxBlockTxnIndexesPerMsg = 100000

// MsgGetBlockTxn implements the Message interface and requests specific
// transactions, identified by their position within BlockHash, that were
// omitted from an earlier cmpctblock announcement.
type MsgGetBlockTxn struct {
	BlockHash chainhash.Hash
	Indexes   []uint64
}

// BtcEncode implements the Message interface.
func (msg *MsgGetBlockTxn) BtcEncode(w io.Writer, pver uint32) error {
	if _, err := w.Write(msg.BlockHash[:]); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Indexes))); err != nil {
		return err
	}
	for _, idx := range msg.Indexes {
		if err := WriteVarInt(w, idx); err != nil {
			return err
		}
	}
	return nil
}

// BtcDecode implements the Message interface.
func (msg *MsgGetBlockTxn) BtcDecode(r io.Reader, pver uint32) error {
	if _, err := io.ReadFull(r, msg.BlockHash[:]); err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxBlockTxnIndexesPerMsg {
		return fmt.Errorf("wire: too many indexes for getblocktxn [count %d, max %d]", count, MaxBlockTxnIndexesPerMsg)
	}
	indexes := make([]uint64, count)
	for i := uint64(0); i < count; i++ {
		idx, err := ReadVarInt(r)
		if err != nil {
			return err
		}
		indexes[i] = idx
	}
	msg.Indexes = indexes
	return nil
}

// Command implements the Message interface.
func (msg *MsgGetBlockTxn) Command() string { return CmdGetBlockTxn }

// MaxPayloadLength implements the Message interface.
func (msg *MsgGetBlockTxn) MaxPayloadLength(pver uint32) uint64 {
	return 32 + uint64(VarIntSerializeSize(MaxBlockTxnIndexesPerMsg)) + MaxBlockTxnIndexesPerMsg*9
}
