// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgSendHeaders implements the Message interface and signals that the
// sender prefers to receive new blocks announced via headers rather than an
// inv message. It carries no payload.
type MsgSendHeaders struct{}

// BtcEncode implements the Message interface.
func (msg *MsgSendHeaders) BtcEncode(w io.Writer, pver uint32) error { return nil }

// BtcDecode implements the Message interface.
func (msg *MsgSendHeaders) BtcDecode(r io.Reader, pver uint32) error { return nil }

// Command implements the Message interface.
func (msg *MsgSendHeaders) Command() string { return CmdSendHeaders }

// MaxPayloadLength implements the Message interface.
func (msg *MsgSendHeaders) MaxPayloadLength(pver uint32) uint64 { return 0 }
