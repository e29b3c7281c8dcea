// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MaxHeadersPerMsg is the maximum number of headers a single headers
// message can carry.
const MaxHeadersPerMsg = MaxBlockHeadersPerMsg

// MsgHeaders implements the Message interface and is used to deliver block
// headers in response to a getheaders message. Each serialized header on
// the wire is followed by a one-byte transaction-count stub that is always
// zero; encodePayload and decodeBody in message.go handle that framing
// quirk directly rather than through BtcEncode/BtcDecode, since it isn't
// part of the header itself.
type MsgHeaders struct {
	Headers []*BlockHeader
}

// AddBlockHeader appends a header, failing if doing so would exceed
// MaxHeadersPerMsg.
func (msg *MsgHeaders) AddBlockHeader(h *BlockHeader) error {
	if len(msg.Headers)+1 > MaxHeadersPerMsg {
		return fmt.Errorf("wire: too many block headers for message [max %d]", MaxHeadersPerMsg)
	}
	msg.Headers = append(msg.Headers, h)
	return nil
}

// BtcEncode implements the Message interface. It is not used by
// WriteMessage, which calls encodePayload directly to apply the trailing
// stub byte per header; it is provided so MsgHeaders satisfies Message.
func (msg *MsgHeaders) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarInt(w, uint64(len(msg.Headers))); err != nil {
		return err
	}
	for _, h := range msg.Headers {
		if err := h.Serialize(w); err != nil {
			return err
		}
		if _, err := w.Write([]byte{0x00}); err != nil {
			return err
		}
	}
	return nil
}

// BtcDecode implements the Message interface. It decodes count headers,
// each followed by its stub byte, the same way decodeBody does. It is not
// used by ReadMessage/FrameDecoder, which call decodeBody directly; it is
// provided so MsgHeaders satisfies Message.
func (msg *MsgHeaders) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxHeadersPerMsg {
		return fmt.Errorf("wire: too many headers for message [count %d, max %d]", count, MaxHeadersPerMsg)
	}
	headers := make([]*BlockHeader, 0, count)
	for i := uint64(0); i < count; i++ {
		h := &BlockHeader{}
		if err := h.Deserialize(r); err != nil {
			return err
		}
		var stub [1]byte
		if _, err := io.ReadFull(r, stub[:]); err != nil {
			return err
		}
		headers = append(headers, h)
	}
	msg.Headers = headers
	return nil
}

// Command implements the Message interface.
func (msg *MsgHeaders) Command() string { return CmdHeaders }

// MaxPayloadLength implements the Message interface.
func (msg *MsgHeaders) MaxPayloadLength(pver uint32) uint64 {
	return uint64(VarIntSerializeSize(MaxHeadersPerMsg)) + MaxHeadersPerMsg*(MaxBlockHeaderPayload+1)
}
