// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"errors"
	"io"
)

// RejectCode represents a numeric value by which a remote peer indicates
// why a message was rejected.
type RejectCode uint8

// These constants define the various supported reject codes.
const (
	RejectMalformed       RejectCode = 0x01
	RejectInvalid         RejectCode = 0x10
	RejectObsolete        RejectCode = 0x11
	RejectDuplicate       RejectCode = 0x12
	RejectNonstandard     RejectCode = 0x40
	RejectDust            RejectCode = 0x41
	RejectInsufficientFee RejectCode = 0x42
	RejectCheckpoint      RejectCode = 0x43
)

// MaxRejectMessageLen and MaxRejectReasonLen bound the two free-text fields
// of a reject message.
const (
	MaxRejectMessageLen = 12
	MaxRejectReasonLen  = 250
)

// MsgReject implements the Message interface and notifies the receiving
// peer that one of its previous messages was rejected. ExtraData carries
// the hash of the rejected block or transaction when present; its presence
// is signaled purely by whether any bytes remain in the payload after
// Reason, not by a length prefix.
type MsgReject struct {
	Message   string
	Code      RejectCode
	Reason    string
	ExtraData []byte
}

// BtcEncode implements the Message interface.
func (msg *MsgReject) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarString(w, msg.Message); err != nil {
		return err
	}
	if err := writeElement(w, uint8(msg.Code)); err != nil {
		return err
	}
	if err := WriteVarString(w, msg.Reason); err != nil {
		return err
	}
	if len(msg.ExtraData) == 0 {
		return nil
	}
	_, err := w.Write(msg.ExtraData)
	return err
}

// BtcDecode implements the Message interface.
func (msg *MsgReject) BtcDecode(r io.Reader, pver uint32) error {
	message, err := ReadVarString(r, MaxRejectMessageLen)
	if err != nil {
		return err
	}
	msg.Message = message

	var code uint8
	if err := readElement(r, &code); err != nil {
		return err
	}
	msg.Code = RejectCode(code)

	reason, err := ReadVarString(r, MaxRejectReasonLen)
	if err != nil {
		return err
	}
	msg.Reason = reason

	extra, err := io.ReadAll(r)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if len(extra) > 0 {
		msg.ExtraData = extra
	}
	return nil
}

// Command implements the Message interface.
func (msg *MsgReject) Command() string { return CmdReject }

// MaxPayloadLength implements the Message interface.
func (msg *MsgReject) MaxPayloadLength(pver uint32) uint64 {
	return uint64(VarIntSerializeSize(MaxRejectMessageLen)) + MaxRejectMessageLen + 1 +
		uint64(VarIntSerializeSize(MaxRejectReasonLen)) + MaxRejectReasonLen + 32
}
