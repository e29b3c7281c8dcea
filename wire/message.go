// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
)

// MessageHeaderSize is the number of bytes in a frame header: magic (4) +
// command (12) + payload length (4) + checksum (4).
const MessageHeaderSize = 24

// MaxMessagePayload is the maximum bytes a message payload can be regardless
// of other individually imposed limits: this is the system's configured
// max_message_size, applied identically across mainnet, testnet and
// regtest.
const MaxMessagePayload = 4 * 1000 * 1000

// Message is the interface every wire protocol message variant implements.
// A type has complete control over its own wire representation; BtcEncode
// and BtcDecode operate on the payload only, the frame header is handled by
// WriteMessage/ReadMessage and FrameDecoder.
type Message interface {
	BtcEncode(w io.Writer, pver uint32) error
	BtcDecode(r io.Reader, pver uint32) error
	Command() string
	MaxPayloadLength(pver uint32) uint64
}

// messageHeader is the decoded form of a frame header.
type messageHeader struct {
	magic    BitcoinNet
	command  string
	length   uint32
	checksum [4]byte
}

// makeEmptyMessage returns a zero-valued concrete Message for the given
// command, or an error if the command is not one of the known 27.
func makeEmptyMessage(command string) (Message, error) {
	switch command {
	case CmdVersion:
		return &MsgVersion{}, nil
	case CmdVerack:
		return &MsgVerAck{}, nil
	case CmdGetAddr:
		return &MsgGetAddr{}, nil
	case CmdAddr:
		return &MsgAddr{}, nil
	case CmdGetBlocks:
		return &MsgGetBlocks{}, nil
	case CmdInv:
		return &MsgInv{}, nil
	case CmdGetData:
		return &MsgGetData{}, nil
	case CmdNotFound:
		return &MsgNotFound{}, nil
	case CmdBlock:
		return &MsgBlock{}, nil
	case CmdTx:
		return &MsgTx{}, nil
	case CmdGetHeaders:
		return &MsgGetHeaders{}, nil
	case CmdHeaders:
		return &MsgHeaders{}, nil
	case CmdPing:
		return &MsgPing{}, nil
	case CmdPong:
		return &MsgPong{}, nil
	case CmdAlert:
		return &MsgAlert{}, nil
	case CmdMemPool:
		return &MsgMemPool{}, nil
	case CmdFilterAdd:
		return &MsgFilterAdd{}, nil
	case CmdFilterClear:
		return &MsgFilterClear{}, nil
	case CmdFilterLoad:
		return &MsgFilterLoad{}, nil
	case CmdMerkleBlock:
		return &MsgMerkleBlock{}, nil
	case CmdReject:
		return &MsgReject{}, nil
	case CmdSendHeaders:
		return &MsgSendHeaders{}, nil
	case CmdFeeFilter:
		return &MsgFeeFilter{}, nil
	case CmdSendCmpct:
		return &MsgSendCmpct{}, nil
	case CmdCmpctBlock:
		return &MsgCmpctBlock{}, nil
	case CmdGetBlockTxn:
		return &MsgGetBlockTxn{}, nil
	case CmdBlockTxn:
		return &MsgBlockTxn{}, nil
	default:
		return nil, fmt.Errorf("unhandled command [%s]", command)
	}
}

// readMessageHeader parses the 24-byte frame header out of buf, verifying
// the magic against expectedMagic.
func readMessageHeader(buf []byte, expectedMagic BitcoinNet) (*messageHeader, error) {
	if len(buf) < MessageHeaderSize {
		return nil, fmt.Errorf("wire: short header: got %d bytes, want %d", len(buf), MessageHeaderSize)
	}

	r := bytes.NewReader(buf[:MessageHeaderSize])

	var magic uint32
	var cmd [CommandSize]byte
	var length uint32
	var checksum [4]byte

	if err := readElement(r, &magic); err != nil {
		return nil, err
	}
	if err := readElement(r, &cmd); err != nil {
		return nil, err
	}
	if err := readElement(r, &length); err != nil {
		return nil, err
	}
	if err := readElement(r, &checksum); err != nil {
		return nil, err
	}

	if BitcoinNet(magic) != expectedMagic {
		return nil, fmt.Errorf("wire: message from other network [%s]", BitcoinNet(magic))
	}

	command, ok := commandFromTag(cmd)
	if !ok {
		return nil, fmt.Errorf("wire: unrecognized command tag %x", cmd)
	}

	return &messageHeader{
		magic:    BitcoinNet(magic),
		command:  command,
		length:   length,
		checksum: checksum,
	}, nil
}

// writeMessageHeader writes a frame header to w. The checksum is computed by
// the caller over the already-serialized payload, since it's not known until
// the payload has been encoded.
func writeMessageHeader(w io.Writer, magic BitcoinNet, command string, payload []byte) error {
	if err := writeElement(w, uint32(magic)); err != nil {
		return err
	}
	if err := writeElement(w, commandTag(command)); err != nil {
		return err
	}
	if err := writeElement(w, uint32(len(payload))); err != nil {
		return err
	}
	var checksum [4]byte
	copy(checksum[:], sha256d(payload)[:4])
	return writeElement(w, checksum)
}

// encodePayload serializes a message's body into its canonical wire form,
// which for most messages is simply its BtcEncode but for Headers requires
// an extra trailing transaction-count stub per element.
func encodePayload(msg Message, pver uint32) ([]byte, error) {
	var buf bytes.Buffer

	if headers, ok := msg.(*MsgHeaders); ok {
		if err := WriteVarInt(&buf, uint64(len(headers.Headers))); err != nil {
			return nil, err
		}
		for _, h := range headers.Headers {
			if err := h.Serialize(&buf); err != nil {
				return nil, err
			}
			if err := buf.WriteByte(0x00); err != nil {
				return nil, err
			}
		}
		return buf.Bytes(), nil
	}

	if err := msg.BtcEncode(&buf, pver); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteMessage writes a complete frame (header plus payload) for msg to w.
func WriteMessage(w io.Writer, msg Message, pver uint32, net BitcoinNet) error {
	payload, err := encodePayload(msg, pver)
	if err != nil {
		return err
	}

	if len(payload) > MaxMessagePayload {
		return fmt.Errorf("wire: message payload is too large - encoded %d bytes, but max message payload is %d bytes", len(payload), MaxMessagePayload)
	}
	if mpl := msg.MaxPayloadLength(pver); uint64(len(payload)) > mpl {
		return fmt.Errorf("wire: message payload is too large for type [%s] - encoded %d bytes, max %d", msg.Command(), len(payload), mpl)
	}

	var hdr bytes.Buffer
	if err := writeMessageHeader(&hdr, net, msg.Command(), payload); err != nil {
		return err
	}

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// decodeBody dispatches to the concrete message type named by command and
// decodes its payload. The Headers command requires custom handling: each
// encoded header is followed by a one-byte transaction-count stub that is
// always zero and carries no information; it is consumed and discarded here
// rather than in MsgHeaders.BtcDecode.
//
// Note the upstream reference implementation has a bug where it loops over
// the length of a freshly allocated (and therefore empty) result vector
// instead of the decoded count, so it decodes zero headers regardless of
// what the peer sent. That bug is not reproduced here: decoding walks the
// decoded count.
func decodeBody(command string, r io.Reader, pver uint32) (Message, error) {
	if command == CmdHeaders {
		count, err := ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		if count > MaxHeadersPerMsg {
			return nil, fmt.Errorf("wire: too many headers for message [count %d, max %d]", count, MaxHeadersPerMsg)
		}
		headers := make([]*BlockHeader, 0, count)
		for i := uint64(0); i < count; i++ {
			h := &BlockHeader{}
			if err := h.Deserialize(r); err != nil {
				return nil, err
			}
			var txCountStub [1]byte
			if _, err := io.ReadFull(r, txCountStub[:]); err != nil {
				return nil, err
			}
			headers = append(headers, h)
		}
		return &MsgHeaders{Headers: headers}, nil
	}

	if command == CmdAlert {
		return nil, errAlertRejected
	}

	msg, err := makeEmptyMessage(command)
	if err != nil {
		return nil, err
	}
	if err := msg.BtcDecode(r, pver); err != nil {
		return nil, err
	}
	return msg, nil
}

// errAlertRejected is returned for every Alert message. Alert is insecure
// and deprecated; the stream remains valid for the next frame.
var errAlertRejected = fmt.Errorf("wire: received alert message: alert is insecure and deprecated")

// ReadMessage reads, validates and decodes the next complete frame from r.
func ReadMessage(r io.Reader, pver uint32, net BitcoinNet) (Message, error) {
	var rawHdr [MessageHeaderSize]byte
	if _, err := io.ReadFull(r, rawHdr[:]); err != nil {
		return nil, err
	}

	hdr, err := readMessageHeader(rawHdr[:], net)
	if err != nil {
		// Skip the rejected frame's declared payload so the next read
		// starts at the following header.
		if n := littleEndian.Uint32(rawHdr[16:20]); n <= MaxMessagePayload {
			discardInput(r, uint64(n))
		}
		return nil, err
	}

	if hdr.length > MaxMessagePayload {
		discardInput(r, uint64(hdr.length))
		return nil, fmt.Errorf("wire: header indicates %d byte payload, max is %d", hdr.length, MaxMessagePayload)
	}

	payload := make([]byte, hdr.length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	checksum := sha256d(payload)
	if !bytes.Equal(checksum[:4], hdr.checksum[:]) {
		return nil, fmt.Errorf("wire: payload checksum failed - header indicates %x, actual is %x", hdr.checksum, checksum[:4])
	}

	return decodeBody(hdr.command, bytes.NewReader(payload), pver)
}

// discardInput reads and discards n bytes from r, in bounded chunks, so a
// peer cannot force an unbounded allocation via a forged length field.
func discardInput(r io.Reader, n uint64) {
	const chunkSize = 10 * 1024
	buf := make([]byte, chunkSize)
	for n > 0 {
		want := uint64(chunkSize)
		if n < want {
			want = n
		}
		read, err := io.ReadFull(r, buf[:want])
		n -= uint64(read)
		if err != nil {
			return
		}
	}
}

// DecoderState names the two states of FrameDecoder: waiting for a complete
// header, or waiting for a complete body of a known length.
type DecoderState int

const (
	// StateAwaitingHeader is the state before a full 24-byte header has
	// been seen.
	StateAwaitingHeader DecoderState = iota

	// StateAwaitingBody is the state after a header has been parsed and
	// validated, before its payload has fully arrived.
	StateAwaitingBody
)

// FrameDecoder incrementally decodes frames out of a byte stream that may
// arrive in arbitrary-sized chunks, such as from a non-blocking socket read.
// It holds exactly the two states described above; Decode never blocks and
// returns a nil message and a nil error when more bytes are needed. A
// header that has fully arrived is consumed even when its body has not,
// leaving the decoder in StateAwaitingBody.
type FrameDecoder struct {
	magic BitcoinNet
	pver  uint32
	state DecoderState
	hdr   *messageHeader
}

// NewFrameDecoder returns a FrameDecoder for the given network and protocol
// version, starting in StateAwaitingHeader.
func NewFrameDecoder(magic BitcoinNet, pver uint32) *FrameDecoder {
	return &FrameDecoder{magic: magic, pver: pver, state: StateAwaitingHeader}
}

// State returns the decoder's current state.
func (d *FrameDecoder) State() DecoderState {
	return d.state
}

// Decode attempts to decode a single message from the front of buf. It
// returns the decoded message (nil if more bytes are required), the number
// of bytes consumed from buf, and any decode error. On error the decoder
// resets to StateAwaitingHeader so the caller can resynchronize on the next
// frame rather than getting stuck.
func (d *FrameDecoder) Decode(buf []byte) (Message, int, error) {
	switch d.state {
	case StateAwaitingHeader:
		if len(buf) < MessageHeaderSize {
			return nil, 0, nil
		}

		hdr, err := readMessageHeader(buf[:MessageHeaderSize], d.magic)
		if err != nil {
			return nil, 0, err
		}
		if hdr.length > MaxMessagePayload {
			return nil, 0, fmt.Errorf("wire: header indicates %d byte payload, max is %d", hdr.length, MaxMessagePayload)
		}

		d.hdr = hdr
		d.state = StateAwaitingBody

		msg, n, err := d.Decode(buf[MessageHeaderSize:])
		if err != nil {
			d.state = StateAwaitingHeader
			d.hdr = nil
			return nil, MessageHeaderSize + n, err
		}
		return msg, MessageHeaderSize + n, nil

	case StateAwaitingBody:
		hdr := d.hdr
		if uint32(len(buf)) < hdr.length {
			return nil, 0, nil
		}

		payload := buf[:hdr.length]
		checksum := sha256d(payload)
		if !bytes.Equal(checksum[:4], hdr.checksum[:]) {
			d.state = StateAwaitingHeader
			d.hdr = nil
			return nil, int(hdr.length), fmt.Errorf("wire: payload checksum failed - header indicates %x, actual is %x", hdr.checksum, checksum[:4])
		}

		msg, err := decodeBody(hdr.command, bytes.NewReader(payload), d.pver)
		d.state = StateAwaitingHeader
		d.hdr = nil
		if err != nil {
			return nil, int(hdr.length), err
		}
		return msg, int(hdr.length), nil

	default:
		return nil, 0, fmt.Errorf("wire: decoder in unknown state %d", d.state)
	}
}
