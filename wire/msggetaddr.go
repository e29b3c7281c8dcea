// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgGetAddr implements the Message interface and requests an addr message
// describing known active peers. It carries no payload.
type MsgGetAddr struct{}

// BtcEncode implements the Message interface.
func (msg *MsgGetAddr) BtcEncode(w io.Writer, pver uint32) error { return nil }

// BtcDecode implements the Message interface.
func (msg *MsgGetAddr) BtcDecode(r io.Reader, pver uint32) error { return nil }

// Command implements the Message interface.
func (msg *MsgGetAddr) Command() string { return CmdGetAddr }

// MaxPayloadLength implements the Message interface.
func (msg *MsgGetAddr) MaxPayloadLength(pver uint32) uint64 { return 0 }
