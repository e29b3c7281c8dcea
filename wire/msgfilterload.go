// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MaxFilterLoadFilterSize is the maximum size in bytes of a bloom filter's
// data array, per BIP0037.
const MaxFilterLoadFilterSize = 36000

// MaxFilterLoadHashFuncs is the maximum number of hash functions a bloom
// filter may specify, per BIP0037.
const MaxFilterLoadHashFuncs = 50

// BloomUpdateType defines how a matched bloom filter element affects the
// filter going forward.
type BloomUpdateType uint8

// These constants define the bloom update mode values supported by
// filterload.
const (
	BloomUpdateNone         BloomUpdateType = 0
	BloomUpdateAll          BloomUpdateType = 1
	BloomUpdateP2PubkeyOnly BloomUpdateType = 2
)

// MsgFilterLoad implements the Message interface and replaces the
// receiving peer's bloom filter with the contents described here.
type MsgFilterLoad struct {
	Filter    []byte
	HashFuncs uint32
	Tweak     uint32
	Flags     BloomUpdateType
}

// BtcEncode implements the Message interface.
func (msg *MsgFilterLoad) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarBytes(w, msg.Filter); err != nil {
		return err
	}
	if err := writeElement(w, msg.HashFuncs); err != nil {
		return err
	}
	if err := writeElement(w, msg.Tweak); err != nil {
		return err
	}
	return writeElement(w, uint8(msg.Flags))
}

// BtcDecode implements the Message interface.
func (msg *MsgFilterLoad) BtcDecode(r io.Reader, pver uint32) error {
	filter, err := ReadVarBytes(r, MaxFilterLoadFilterSize, "filterload filter")
	if err != nil {
		return err
	}
	msg.Filter = filter

	if err := readElement(r, &msg.HashFuncs); err != nil {
		return err
	}
	if err := readElement(r, &msg.Tweak); err != nil {
		return err
	}
	var flags uint8
	if err := readElement(r, &flags); err != nil {
		return err
	}
	msg.Flags = BloomUpdateType(flags)
	return nil
}

// Command implements the Message interface.
func (msg *MsgFilterLoad) Command() string { return CmdFilterLoad }

// MaxPayloadLength implements the Message interface.
func (msg *MsgFilterLoad) MaxPayloadLength(pver uint32) uint64 {
	return uint64(VarIntSerializeSize(MaxFilterLoadFilterSize)) + MaxFilterLoadFilterSize + 4 + 4 + 1
}
