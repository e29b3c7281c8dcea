// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// MsgBlockTxn implements the Message interface and carries the full
// transactions a peer requested via getblocktxn, in response to an earlier
// cmpctblock announcement.
type MsgBlockTxn struct {
	BlockHash chainhash.Hash
	Txs       []*MsgTx
}

// BtcEncode implements the Message interface.
func (msg *MsgBlockTxn) BtcEncode(w io.Writer, pver uint32) error {
	if _, err := w.Write(msg.BlockHash[:]); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Txs))); err != nil {
		return err
	}
	for _, tx := range msg.Txs {
		if err := tx.BtcEncode(w, pver); err != nil {
			return err
		}
	}
	return nil
}

// BtcDecode implements the Message interface.
func (msg *MsgBlockTxn) BtcDecode(r io.Reader, pver uint32) error {
	if _, err := io.ReadFull(r, msg.BlockHash[:]); err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxTxInPerMessage {
		return fmt.Errorf("wire: too many transactions for blocktxn [count %d, max %d]", count, MaxTxInPerMessage)
	}
	txs := make([]*MsgTx, count)
	for i := uint64(0); i < count; i++ {
		tx := &MsgTx{}
		if err := tx.BtcDecode(r, pver); err != nil {
			return err
		}
		txs[i] = tx
	}
	msg.Txs = txs
	return nil
}

// Command implements the Message interface.
func (msg *MsgBlockTxn) Command() string { return CmdBlockTxn }

// MaxPayloadLength implements the Message interface.
func (msg *MsgBlockTxn) MaxPayloadLength(pver uint32) uint64 {
	return uint64(MaxBlockPayload)
}
