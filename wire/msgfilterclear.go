// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgFilterClear implements the Message interface and requests the peer
// remove a previously loaded bloom filter. It carries no payload.
type MsgFilterClear struct{}

// BtcEncode implements the Message interface.
func (msg *MsgFilterClear) BtcEncode(w io.Writer, pver uint32) error { return nil }

// BtcDecode implements the Message interface.
func (msg *MsgFilterClear) BtcDecode(r io.Reader, pver uint32) error { return nil }

// Command implements the Message interface.
func (msg *MsgFilterClear) Command() string { return CmdFilterClear }

// MaxPayloadLength implements the Message interface.
func (msg *MsgFilterClear) MaxPayloadLength(pver uint32) uint64 { return 0 }
