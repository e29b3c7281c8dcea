// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MsgGetData implements the Message interface and requests specific data
// identified by one or more inventory vectors.
type MsgGetData struct {
	InvList []*InvVect
}

// AddInvVect appends an inventory vector, failing if doing so would exceed
// MaxInvPerMsg.
func (msg *MsgGetData) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return fmt.Errorf("wire: too many inventory entries for message [max %d]", MaxInvPerMsg)
	}
	msg.InvList = append(msg.InvList, iv)
	return nil
}

// BtcEncode implements the Message interface.
func (msg *MsgGetData) BtcEncode(w io.Writer, pver uint32) error {
	return writeInvVectList(w, msg.InvList)
}

// BtcDecode implements the Message interface.
func (msg *MsgGetData) BtcDecode(r io.Reader, pver uint32) error {
	list, err := readInvVectList(r, MaxInvPerMsg)
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}

// Command implements the Message interface.
func (msg *MsgGetData) Command() string { return CmdGetData }

// MaxPayloadLength implements the Message interface.
func (msg *MsgGetData) MaxPayloadLength(pver uint32) uint64 {
	return uint64(VarIntSerializeSize(MaxInvPerMsg)) + MaxInvPerMsg*(4+32)
}
