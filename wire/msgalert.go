// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgAlert implements the Message interface for the legacy alert system.
// Alert is insecure and deprecated: decodeBody rejects every occurrence of
// this command on the wire before a MsgAlert value is ever produced, so
// BtcDecode here only exists to satisfy the Message interface and is never
// exercised in practice.
type MsgAlert struct {
	Payload   []byte
	Signature []byte
}

// BtcEncode implements the Message interface.
func (msg *MsgAlert) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarBytes(w, msg.Payload); err != nil {
		return err
	}
	return WriteVarBytes(w, msg.Signature)
}

// BtcDecode implements the Message interface.
func (msg *MsgAlert) BtcDecode(r io.Reader, pver uint32) error {
	payload, err := ReadVarBytes(r, MaxMessagePayload, "alert payload")
	if err != nil {
		return err
	}
	sig, err := ReadVarBytes(r, MaxMessagePayload, "alert signature")
	if err != nil {
		return err
	}
	msg.Payload = payload
	msg.Signature = sig
	return nil
}

// Command implements the Message interface.
func (msg *MsgAlert) Command() string { return CmdAlert }

// MaxPayloadLength implements the Message interface.
func (msg *MsgAlert) MaxPayloadLength(pver uint32) uint64 { return MaxMessagePayload }
