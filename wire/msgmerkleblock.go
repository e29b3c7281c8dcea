// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// MaxFlagsPerMerkleBlock caps the partial-merkle-tree flag bitfield carried
// alongside a merkleblock message.
const MaxFlagsPerMerkleBlock = 2000

// MsgMerkleBlock implements the Message interface and carries a block
// header along with a partial merkle branch proving that a subset of the
// block's transactions (those matched by a previously loaded bloom filter)
// are included in it.
type MsgMerkleBlock struct {
	Header       BlockHeader
	Transactions uint32
	Hashes       []chainhash.Hash
	Flags        []byte
}

// BtcEncode implements the Message interface.
func (msg *MsgMerkleBlock) BtcEncode(w io.Writer, pver uint32) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}
	if err := writeElement(w, msg.Transactions); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Hashes))); err != nil {
		return err
	}
	for _, h := range msg.Hashes {
		if _, err := w.Write(h[:]); err != nil {
			return err
		}
	}
	return WriteVarBytes(w, msg.Flags)
}

// BtcDecode implements the Message interface.
func (msg *MsgMerkleBlock) BtcDecode(r io.Reader, pver uint32) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return err
	}
	if err := readElement(r, &msg.Transactions); err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	maxHashes := uint64(MaxBlockPayload) / uint64(chainhash.HashSize)
	if count > maxHashes {
		return fmt.Errorf("wire: too many hashes for merkleblock [count %d, max %d]", count, maxHashes)
	}
	hashes := make([]chainhash.Hash, count)
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(r, hashes[i][:]); err != nil {
			return err
		}
	}
	msg.Hashes = hashes

	flags, err := ReadVarBytes(r, MaxFlagsPerMerkleBlock, "merkleblock flags")
	if err != nil {
		return err
	}
	msg.Flags = flags
	return nil
}

// Command implements the Message interface.
func (msg *MsgMerkleBlock) Command() string { return CmdMerkleBlock }

// MaxPayloadLength implements the Message interface.
func (msg *MsgMerkleBlock) MaxPayloadLength(pver uint32) uint64 {
	return MaxBlockHeaderPayload + 4 + uint64(MaxBlockPayload)
}
