// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgPing implements the Message interface and is used to confirm a peer
// connection is still valid. A Pong carrying the same Nonce is the expected
// reply, answered synchronously regardless of the receiving peer's session
// state.
type MsgPing struct {
	Nonce uint64
}

// BtcEncode implements the Message interface.
func (msg *MsgPing) BtcEncode(w io.Writer, pver uint32) error {
	return writeElement(w, msg.Nonce)
}

// BtcDecode implements the Message interface.
func (msg *MsgPing) BtcDecode(r io.Reader, pver uint32) error {
	return readElement(r, &msg.Nonce)
}

// Command implements the Message interface.
func (msg *MsgPing) Command() string { return CmdPing }

// MaxPayloadLength implements the Message interface.
func (msg *MsgPing) MaxPayloadLength(pver uint32) uint64 { return 8 }
