// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgPong implements the Message interface and replies to a MsgPing,
// echoing back its Nonce.
type MsgPong struct {
	Nonce uint64
}

// BtcEncode implements the Message interface.
func (msg *MsgPong) BtcEncode(w io.Writer, pver uint32) error {
	return writeElement(w, msg.Nonce)
}

// BtcDecode implements the Message interface.
func (msg *MsgPong) BtcDecode(r io.Reader, pver uint32) error {
	return readElement(r, &msg.Nonce)
}

// Command implements the Message interface.
func (msg *MsgPong) Command() string { return CmdPong }

// MaxPayloadLength implements the Message interface.
func (msg *MsgPong) MaxPayloadLength(pver uint32) uint64 { return 8 }
