// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// MaxBlockLocatorsPerMsg is the maximum number of block locator hashes
// allowed per message.
const MaxBlockLocatorsPerMsg = 500

// MsgGetBlocks implements the Message interface and is used to request a
// list of blocks starting after the last known hash in BlockLocatorHashes,
// up to HashStop or 500 blocks, whichever comes first. An all-zero HashStop
// requests as many as the peer will send.
type MsgGetBlocks struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []chainhash.Hash
	HashStop           chainhash.Hash
}

// NewMsgGetBlocks returns a new getblocks message using the provided stop
// hash of the most recent known block.
func NewMsgGetBlocks(hashStop *chainhash.Hash) *MsgGetBlocks {
	return &MsgGetBlocks{
		ProtocolVersion:    ProtocolVersion,
		BlockLocatorHashes: make([]chainhash.Hash, 0, MaxBlockLocatorsPerMsg),
		HashStop:           *hashStop,
	}
}

// AddBlockLocatorHash appends a new locator hash, failing if doing so would
// exceed MaxBlockLocatorsPerMsg.
func (msg *MsgGetBlocks) AddBlockLocatorHash(hash *chainhash.Hash) error {
	if len(msg.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		return fmt.Errorf("wire: too many block locator hashes for message [max %d]", MaxBlockLocatorsPerMsg)
	}
	msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, *hash)
	return nil
}

// BtcEncode implements the Message interface.
func (msg *MsgGetBlocks) BtcEncode(w io.Writer, pver uint32) error {
	if err := writeElement(w, msg.ProtocolVersion); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.BlockLocatorHashes))); err != nil {
		return err
	}
	for _, h := range msg.BlockLocatorHashes {
		if err := writeElement(w, h); err != nil {
			return err
		}
	}
	return writeElement(w, msg.HashStop)
}

// BtcDecode implements the Message interface.
func (msg *MsgGetBlocks) BtcDecode(r io.Reader, pver uint32) error {
	if err := readElement(r, &msg.ProtocolVersion); err != nil {
		return err
	}
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxBlockLocatorsPerMsg {
		return fmt.Errorf("wire: too many block locator hashes for message [count %d, max %d]", count, MaxBlockLocatorsPerMsg)
	}
	msg.BlockLocatorHashes = make([]chainhash.Hash, count)
	for i := uint64(0); i < count; i++ {
		if err := readElement(r, &msg.BlockLocatorHashes[i]); err != nil {
			return err
		}
	}
	return readElement(r, &msg.HashStop)
}

// Command implements the Message interface.
func (msg *MsgGetBlocks) Command() string { return CmdGetBlocks }

// MaxPayloadLength implements the Message interface.
func (msg *MsgGetBlocks) MaxPayloadLength(pver uint32) uint64 {
	return 4 + uint64(VarIntSerializeSize(MaxBlockLocatorsPerMsg)) + (MaxBlockLocatorsPerMsg * chainhash.HashSize) + chainhash.HashSize
}
