// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgSendCmpct implements the Message interface and negotiates compact
// block relay with a peer.
type MsgSendCmpct struct {
	Announce bool
	Version  uint64
}

// BtcEncode implements the Message interface.
func (msg *MsgSendCmpct) BtcEncode(w io.Writer, pver uint32) error {
	if err := writeElement(w, msg.Announce); err != nil {
		return err
	}
	return writeElement(w, msg.Version)
}

// BtcDecode implements the Message interface.
func (msg *MsgSendCmpct) BtcDecode(r io.Reader, pver uint32) error {
	if err := readElement(r, &msg.Announce); err != nil {
		return err
	}
	return readElement(r, &msg.Version)
}

// Command implements the Message interface.
func (msg *MsgSendCmpct) Command() string { return CmdSendCmpct }

// MaxPayloadLength implements the Message interface.
func (msg *MsgSendCmpct) MaxPayloadLength(pver uint32) uint64 { return 9 }
