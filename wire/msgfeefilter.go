// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgFeeFilter implements the Message interface and requests the peer only
// relay transactions paying at least MinFee satoshis per kilobyte.
type MsgFeeFilter struct {
	MinFee int64
}

// BtcEncode implements the Message interface.
func (msg *MsgFeeFilter) BtcEncode(w io.Writer, pver uint32) error {
	return writeElement(w, uint64(msg.MinFee))
}

// BtcDecode implements the Message interface.
func (msg *MsgFeeFilter) BtcDecode(r io.Reader, pver uint32) error {
	var fee uint64
	if err := readElement(r, &fee); err != nil {
		return err
	}
	msg.MinFee = int64(fee)
	return nil
}

// Command implements the Message interface.
func (msg *MsgFeeFilter) Command() string { return CmdFeeFilter }

// MaxPayloadLength implements the Message interface.
func (msg *MsgFeeFilter) MaxPayloadLength(pver uint32) uint64 { return 8 }
