// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MsgNotFound implements the Message interface and is sent in reply to a
// getdata message to report entries the peer could not find.
type MsgNotFound struct {
	InvList []*InvVect
}

// AddInvVect appends an inventory vector, failing if doing so would exceed
// MaxInvPerMsg.
func (msg *MsgNotFound) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return fmt.Errorf("wire: too many inventory entries for message [max %d]", MaxInvPerMsg)
	}
	msg.InvList = append(msg.InvList, iv)
	return nil
}

// BtcEncode implements the Message interface.
func (msg *MsgNotFound) BtcEncode(w io.Writer, pver uint32) error {
	return writeInvVectList(w, msg.InvList)
}

// BtcDecode implements the Message interface.
func (msg *MsgNotFound) BtcDecode(r io.Reader, pver uint32) error {
	list, err := readInvVectList(r, MaxInvPerMsg)
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}

// Command implements the Message interface.
func (msg *MsgNotFound) Command() string { return CmdNotFound }

// MaxPayloadLength implements the Message interface.
func (msg *MsgNotFound) MaxPayloadLength(pver uint32) uint64 {
	return uint64(VarIntSerializeSize(MaxInvPerMsg)) + MaxInvPerMsg*(4+32)
}
