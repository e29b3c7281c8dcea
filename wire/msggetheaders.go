// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// MaxBlockHeadersPerMsg caps the number of headers a single MsgHeaders can
// carry and doubles as the response size limit for a getheaders request.
const MaxBlockHeadersPerMsg = 2000

// MsgGetHeaders implements the Message interface and is identical in shape
// to MsgGetBlocks: it requests up to 2000 headers starting after the last
// known locator hash.
type MsgGetHeaders struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []chainhash.Hash
	HashStop           chainhash.Hash
}

// NewMsgGetHeaders returns a new getheaders message.
func NewMsgGetHeaders(hashStop *chainhash.Hash) *MsgGetHeaders {
	return &MsgGetHeaders{
		ProtocolVersion:    ProtocolVersion,
		BlockLocatorHashes: make([]chainhash.Hash, 0, MaxBlockLocatorsPerMsg),
		HashStop:           *hashStop,
	}
}

// AddBlockLocatorHash appends a new locator hash, failing if doing so would
// exceed MaxBlockLocatorsPerMsg.
func (msg *MsgGetHeaders) AddBlockLocatorHash(hash *chainhash.Hash) error {
	if len(msg.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		return fmt.Errorf("wire: too many block locator hashes for message [max %d]", MaxBlockLocatorsPerMsg)
	}
	msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, *hash)
	return nil
}

// BtcEncode implements the Message interface.
func (msg *MsgGetHeaders) BtcEncode(w io.Writer, pver uint32) error {
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
func (msg *MsgGetHeaders) BtcDecode(r io.Reader, pver uint32) error {
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
func (msg *MsgGetHeaders) Command() string { return CmdGetHeaders }

// MaxPayloadLength implements the Message interface.
func (msg *MsgGetHeaders) MaxPayloadLength(pver uint32) uint64 {
	return 4 + uint64(VarIntSerializeSize(MaxBlockLocatorsPerMsg)) + (MaxBlockLocatorsPerMsg * chainhash.HashSize) + chainhash.HashSize
}
