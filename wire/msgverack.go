// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgVerAck defines a bitcoin verack message, sent in reply to a version
// message to acknowledge the peer's version. It carries no payload.
type MsgVerAck struct{}

// BtcEncode implements the Message interface.
func (msg *MsgVerAck) BtcEncode(w io.Writer, pver uint32) error { return nil }

// BtcDecode implements the Message interface.
func (msg *MsgVerAck) BtcDecode(r io.Reader, pver uint32) error { return nil }

// Command implements the Message interface.
func (msg *MsgVerAck) Command() string { return CmdVerack }

// MaxPayloadLength implements the Message interface.
func (msg *MsgVerAck) MaxPayloadLength(pver uint32) uint64 { return 0 }
