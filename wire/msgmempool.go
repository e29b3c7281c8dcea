// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgMemPool implements the Message interface and requests a peer's pool of
// unconfirmed transactions. It carries no payload.
type MsgMemPool struct{}

// BtcEncode implements the Message interface.
func (msg *MsgMemPool) BtcEncode(w io.Writer, pver uint32) error { return nil }

// BtcDecode implements the Message interface.
func (msg *MsgMemPool) BtcDecode(r io.Reader, pver uint32) error { return nil }

// Command implements the Message interface.
func (msg *MsgMemPool) Command() string { return CmdMemPool }

// MaxPayloadLength implements the Message interface.
func (msg *MsgMemPool) MaxPayloadLength(pver uint32) uint64 { return 0 }
