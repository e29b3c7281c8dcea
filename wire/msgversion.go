// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"net"
	"time"
)

// MaxUserAgentLen is the maximum allowed length for the user agent field in
// a version message.
const MaxUserAgentLen = 256

// MsgVersion implements the Message interface and is exchanged as the first
// message of the handshake. Unlike a general NetAddress, the embedded
// Receiver/Transmitter addresses never carry a timestamp field.
type MsgVersion struct {
	ProtocolVersion     uint32
	Services            ServiceFlag
	Timestamp           time.Time
	ReceiverServices    ServiceFlag
	Receiver            net.TCPAddr
	TransmitterServices ServiceFlag
	Transmitter         net.TCPAddr
	Nonce               uint64
	UserAgent           string
	LastBlock           int32
	Relay               bool
}

// NewMsgVersion returns a new version message using the provided parameters
// and defaults for the remaining fields. Both embedded addresses are
// advertised with the same service flags as the local node.
func NewMsgVersion(protocolVersion uint32, services ServiceFlag, receiver, transmitter *net.TCPAddr, nonce uint64, userAgent string, lastBlock int32) *MsgVersion {
	return &MsgVersion{
		ProtocolVersion:     protocolVersion,
		Services:            services,
		Timestamp:           time.Unix(time.Now().Unix(), 0),
		ReceiverServices:    services,
		Receiver:            *receiver,
		TransmitterServices: services,
		Transmitter:         *transmitter,
		Nonce:               nonce,
		UserAgent:           userAgent,
		LastBlock:           lastBlock,
		Relay:               true,
	}
}

// BtcEncode implements the Message interface.
func (msg *MsgVersion) BtcEncode(w io.Writer, pver uint32) error {
	if err := writeElement(w, msg.ProtocolVersion); err != nil {
		return err
	}
	if err := writeElement(w, uint64(msg.Services)); err != nil {
		return err
	}
	if err := writeElement(w, uint64(msg.Timestamp.Unix())); err != nil {
		return err
	}
	if err := writeNetAddress(w, msg.ReceiverServices, &msg.Receiver, false, 0); err != nil {
		return err
	}
	if err := writeNetAddress(w, msg.TransmitterServices, &msg.Transmitter, false, 0); err != nil {
		return err
	}
	if err := writeElement(w, msg.Nonce); err != nil {
		return err
	}
	if err := WriteVarString(w, msg.UserAgent); err != nil {
		return err
	}
	if err := writeElement(w, msg.LastBlock); err != nil {
		return err
	}
	return writeElement(w, msg.Relay)
}

// BtcDecode implements the Message interface.
func (msg *MsgVersion) BtcDecode(r io.Reader, pver uint32) error {
	if err := readElement(r, &msg.ProtocolVersion); err != nil {
		return err
	}
	var services uint64
	if err := readElement(r, &services); err != nil {
		return err
	}
	msg.Services = ServiceFlag(services)

	var ts uint64
	if err := readElement(r, &ts); err != nil {
		return err
	}
	msg.Timestamp = time.Unix(int64(ts), 0)

	_, recvServices, recvAddr, err := readNetAddress(r, false)
	if err != nil {
		return err
	}
	msg.ReceiverServices = recvServices
	msg.Receiver = *recvAddr

	_, txServices, txAddr, err := readNetAddress(r, false)
	if err != nil {
		return err
	}
	msg.TransmitterServices = txServices
	msg.Transmitter = *txAddr

	if err := readElement(r, &msg.Nonce); err != nil {
		return err
	}

	ua, err := ReadVarString(r, MaxUserAgentLen)
	if err != nil {
		return err
	}
	msg.UserAgent = ua

	if err := readElement(r, &msg.LastBlock); err != nil {
		return err
	}
	return readElement(r, &msg.Relay)
}

// Command implements the Message interface.
func (msg *MsgVersion) Command() string { return CmdVersion }

// MaxPayloadLength implements the Message interface.
func (msg *MsgVersion) MaxPayloadLength(pver uint32) uint64 {
	return 33 + 2*MaxNetAddressPayload(false) + MaxUserAgentLen + uint64(VarIntSerializeSize(MaxUserAgentLen))
}
