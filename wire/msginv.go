// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MaxInvPerMsg is the maximum number of inventory vectors that can be
// contained in a single bitcoin inv message.
const MaxInvPerMsg = 50000

// MsgInv implements the Message interface and announces data available for
// the receiving peer to request via getdata.
type MsgInv struct {
	InvList []*InvVect
}

// AddInvVect appends an inventory vector, failing if doing so would exceed
// MaxInvPerMsg.
func (msg *MsgInv) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return fmt.Errorf("wire: too many inventory entries for message [max %d]", MaxInvPerMsg)
	}
	msg.InvList = append(msg.InvList, iv)
	return nil
}

// BtcEncode implements the Message interface.
func (msg *MsgInv) BtcEncode(w io.Writer, pver uint32) error {
	return writeInvVectList(w, msg.InvList)
}

// BtcDecode implements the Message interface.
func (msg *MsgInv) BtcDecode(r io.Reader, pver uint32) error {
	list, err := readInvVectList(r, MaxInvPerMsg)
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}

// Command implements the Message interface.
func (msg *MsgInv) Command() string { return CmdInv }

// MaxPayloadLength implements the Message interface.
func (msg *MsgInv) MaxPayloadLength(pver uint32) uint64 {
	return uint64(VarIntSerializeSize(MaxInvPerMsg)) + MaxInvPerMsg*(4+32)
}
