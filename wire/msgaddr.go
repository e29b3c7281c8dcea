// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MaxAddrPerMsg is the maximum number of addresses that can be in a single
// bitcoin addr message.
const MaxAddrPerMsg = 1000

// MsgAddr implements the Message interface and is used to provide
// information about known active peers. Unlike the addresses embedded in a
// version message, each entry here carries a leading timestamp.
type MsgAddr struct {
	AddrList []*NetAddress
}

// AddAddress appends a known active peer, failing if doing so would exceed
// MaxAddrPerMsg.
func (msg *MsgAddr) AddAddress(na *NetAddress) error {
	if len(msg.AddrList)+1 > MaxAddrPerMsg {
		return fmt.Errorf("wire: too many addresses for message [max %d]", MaxAddrPerMsg)
	}
	msg.AddrList = append(msg.AddrList, na)
	return nil
}

// BtcEncode implements the Message interface.
func (msg *MsgAddr) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarInt(w, uint64(len(msg.AddrList))); err != nil {
		return err
	}
	for _, na := range msg.AddrList {
		if err := na.Serialize(w, true); err != nil {
			return err
		}
	}
	return nil
}

// BtcDecode implements the Message interface.
func (msg *MsgAddr) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxAddrPerMsg {
		return fmt.Errorf("wire: too many addresses for message [count %d, max %d]", count, MaxAddrPerMsg)
	}
	addrs := make([]*NetAddress, count)
	for i := uint64(0); i < count; i++ {
		na := &NetAddress{}
		if err := na.Deserialize(r, true); err != nil {
			return err
		}
		addrs[i] = na
	}
	msg.AddrList = addrs
	return nil
}

// Command implements the Message interface.
func (msg *MsgAddr) Command() string { return CmdAddr }

// MaxPayloadLength implements the Message interface.
func (msg *MsgAddr) MaxPayloadLength(pver uint32) uint64 {
	return uint64(VarIntSerializeSize(MaxAddrPerMsg)) + MaxAddrPerMsg*MaxNetAddressPayload(true)
}
