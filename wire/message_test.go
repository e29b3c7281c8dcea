// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/nodewarp/warp/wire"
	"github.com/stretchr/testify/require"
)

func sha256Sum(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// TestVerackExactBytes pins the mainnet verack frame to its known wire
// representation: magic 0xF9BEB4D9 little-endian, the zero-padded
// "verack" command, a zero-length empty payload, and the checksum of an
// empty payload.
func TestVerackExactBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.WriteMessage(&buf, &wire.MsgVerAck{}, wire.ProtocolVersion, wire.MainNet))

	want, err := hex.DecodeString(
		"f9beb4d9" + // magic
			"76657261636b000000000000" + // "verack" + 6 zero bytes
			"00000000" + // payload length 0
			"5df6e0e2", // checksum of empty payload
	)
	require.NoError(t, err)
	require.Equal(t, want, buf.Bytes(), spew.Sdump(buf.Bytes()))

	msg, err := wire.ReadMessage(&buf, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)
	require.IsType(t, &wire.MsgVerAck{}, msg)
}

// TestHeaderChecksumIsTruncatedDoubleSHA256 checks that the last 4 bytes
// of a written frame's header are the first 4 bytes of sha256(sha256(payload)),
// using a ping message (an 8-byte nonce payload) as the vehicle.
func TestHeaderChecksumIsTruncatedDoubleSHA256(t *testing.T) {
	var buf bytes.Buffer
	ping := &wire.MsgPing{Nonce: 0x1122334455667788}
	require.NoError(t, wire.WriteMessage(&buf, ping, wire.ProtocolVersion, wire.MainNet))

	raw := buf.Bytes()
	require.Equal(t, wire.MessageHeaderSize+8, len(raw))

	payload := raw[wire.MessageHeaderSize:]
	checksum := raw[20:24]

	first := sha256Sum(payload)
	second := sha256Sum(first[:])
	require.Equal(t, second[:4], checksum)
}

func TestPingPongNonceEcho(t *testing.T) {
	ping := &wire.MsgPing{Nonce: 0xdeadbeefcafed00d}
	var buf bytes.Buffer
	require.NoError(t, wire.WriteMessage(&buf, ping, wire.ProtocolVersion, wire.MainNet))

	msg, err := wire.ReadMessage(&buf, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)
	decoded, ok := msg.(*wire.MsgPing)
	require.True(t, ok)
	require.Equal(t, ping.Nonce, decoded.Nonce)

	pong := &wire.MsgPong{Nonce: decoded.Nonce}
	buf.Reset()
	require.NoError(t, wire.WriteMessage(&buf, pong, wire.ProtocolVersion, wire.MainNet))
	msg, err = wire.ReadMessage(&buf, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)
	decodedPong, ok := msg.(*wire.MsgPong)
	require.True(t, ok)
	require.Equal(t, ping.Nonce, decodedPong.Nonce)
}

// TestAlertRejectedLeavesStreamDecodable checks that an alert frame is
// rejected without corrupting the stream: the next frame after it still
// decodes correctly.
func TestAlertRejectedLeavesStreamDecodable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.WriteMessage(&buf, &wire.MsgAlert{Payload: []byte("bogus"), Signature: []byte("sig")}, wire.ProtocolVersion, wire.MainNet))
	require.NoError(t, wire.WriteMessage(&buf, &wire.MsgVerAck{}, wire.ProtocolVersion, wire.MainNet))

	_, err := wire.ReadMessage(&buf, wire.ProtocolVersion, wire.MainNet)
	require.Error(t, err)

	msg, err := wire.ReadMessage(&buf, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)
	require.IsType(t, &wire.MsgVerAck{}, msg)
}

// TestFrameDecoderResyncsAfterError mirrors the alert-rejection scenario
// through the incremental FrameDecoder instead of ReadMessage, checking
// that a rejected frame resets decoder state for the next one.
func TestFrameDecoderResyncsAfterError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.WriteMessage(&buf, &wire.MsgAlert{Payload: []byte("bogus"), Signature: []byte("sig")}, wire.ProtocolVersion, wire.MainNet))
	require.NoError(t, wire.WriteMessage(&buf, &wire.MsgVerAck{}, wire.ProtocolVersion, wire.MainNet))

	d := wire.NewFrameDecoder(wire.MainNet, wire.ProtocolVersion)
	require.Equal(t, wire.StateAwaitingHeader, d.State())

	data := buf.Bytes()
	var lastErr error
	consumed := 0
	var msg wire.Message
	for consumed < len(data) {
		m, n, err := d.Decode(data[consumed:])
		consumed += n
		if err != nil {
			lastErr = err
			continue
		}
		if m != nil {
			msg = m
			break
		}
		if n == 0 {
			break
		}
	}
	require.Error(t, lastErr)
	require.NotNil(t, msg)
	require.IsType(t, &wire.MsgVerAck{}, msg)
	require.Equal(t, wire.StateAwaitingHeader, d.State())
}
