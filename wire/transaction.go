// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"math"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// MaxTxInPerMessage and MaxTxOutPerMessage are sanity bounds on the number
// of inputs/outputs a single transaction can declare, derived from the
// smallest possible encoding of each (so a maximal-size message can never
// claim more than this many without running out of bytes first).
const (
	MaxTxInPerMessage  = (MaxMessagePayload / 41) + 1
	MaxTxOutPerMessage = (MaxMessagePayload / 9) + 1
)

// OutPoint defines a bitcoin data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new bitcoin transaction outpoint.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

// Len returns the number of bytes this entry occupies on the wire.
func (o *OutPoint) Len() int {
	return chainhash.HashSize + 4
}

func (o *OutPoint) serialize(w io.Writer) error {
	if err := writeElement(w, o.Hash); err != nil {
		return err
	}
	return writeElement(w, o.Index)
}

func (o *OutPoint) deserialize(r io.Reader) error {
	if err := readElement(r, &o.Hash); err != nil {
		return err
	}
	return readElement(r, &o.Index)
}

// TxIn defines a bitcoin transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// Len returns the number of bytes this input occupies on the wire.
func (t *TxIn) Len() int {
	return t.PreviousOutPoint.Len() + VarIntSerializeSize(uint64(len(t.SignatureScript))) + len(t.SignatureScript) + 4
}

// IsCoinBaseInput reports whether this input is the unique coinbase input:
// a previous outpoint of the zero hash and an index of 0xffffffff.
func (t *TxIn) IsCoinBaseInput() bool {
	zero := chainhash.Hash{}
	return t.PreviousOutPoint.Hash.IsEqual(&zero) && t.PreviousOutPoint.Index == math.MaxUint32
}

func (t *TxIn) serialize(w io.Writer) error {
	if err := t.PreviousOutPoint.serialize(w); err != nil {
		return err
	}
	if err := WriteVarBytes(w, t.SignatureScript); err != nil {
		return err
	}
	return writeElement(w, t.Sequence)
}

func (t *TxIn) deserialize(r io.Reader, maxScriptSize uint32) error {
	if err := t.PreviousOutPoint.deserialize(r); err != nil {
		return err
	}
	script, err := ReadVarBytes(r, maxScriptSize, "signature script")
	if err != nil {
		return err
	}
	t.SignatureScript = script
	return readElement(r, &t.Sequence)
}

// TxOut defines a bitcoin transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// Len returns the number of bytes this output occupies on the wire.
func (t *TxOut) Len() int {
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

func (t *TxOut) serialize(w io.Writer) error {
	if err := writeElement(w, t.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, t.PkScript)
}

func (t *TxOut) deserialize(r io.Reader, maxScriptSize uint32) error {
	if err := readElement(r, &t.Value); err != nil {
		return err
	}
	script, err := ReadVarBytes(r, maxScriptSize, "pk script")
	if err != nil {
		return err
	}
	t.PkScript = script
	return nil
}

// MsgTx implements the Message interface and represents a bitcoin tx
// message, used both standalone and embedded in a block's transaction list.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32

	cachedHash *chainhash.Hash
}

// Len returns the number of bytes this transaction occupies on the wire.
func (msg *MsgTx) Len() int {
	n := 4 + VarIntSerializeSize(uint64(len(msg.TxIn)))
	for _, in := range msg.TxIn {
		n += in.Len()
	}
	n += VarIntSerializeSize(uint64(len(msg.TxOut)))
	for _, out := range msg.TxOut {
		n += out.Len()
	}
	return n + 4 // lock time
}

// IsCoinBase reports whether this is a coinbase transaction: exactly one
// input, and that input is the coinbase input.
func (msg *MsgTx) IsCoinBase() bool {
	return len(msg.TxIn) == 1 && msg.TxIn[0].IsCoinBaseInput()
}

// TxHash returns this transaction's cached double-sha256 id, computing and
// caching it on first use.
func (msg *MsgTx) TxHash() chainhash.Hash {
	if msg.cachedHash != nil {
		return *msg.cachedHash
	}
	var buf bytes.Buffer
	_ = msg.BtcEncode(&buf, ProtocolVersion)
	sum := sha256d(buf.Bytes())
	h := chainhash.Hash(sum)
	msg.cachedHash = &h
	return h
}

// BtcEncode implements the Message interface.
func (msg *MsgTx) BtcEncode(w io.Writer, pver uint32) error {
	if err := writeElement(w, msg.Version); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := ti.serialize(w); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := to.serialize(w); err != nil {
			return err
		}
	}
	return writeElement(w, msg.LockTime)
}

// BtcDecode implements the Message interface. The decoded bytes are hashed
// immediately afterward so TxHash never needs to be called on a tx whose
// original wire bytes have been discarded.
func (msg *MsgTx) BtcDecode(r io.Reader, pver uint32) error {
	if err := readElement(r, &msg.Version); err != nil {
		return err
	}

	txInCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txInCount > MaxTxInPerMessage {
		return errTooManyTxIn(txInCount)
	}
	msg.TxIn = make([]*TxIn, txInCount)
	for i := uint64(0); i < txInCount; i++ {
		ti := &TxIn{}
		if err := ti.deserialize(r, MaxMessagePayload); err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}

	txOutCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txOutCount > MaxTxOutPerMessage {
		return errTooManyTxOut(txOutCount)
	}
	msg.TxOut = make([]*TxOut, txOutCount)
	for i := uint64(0); i < txOutCount; i++ {
		to := &TxOut{}
		if err := to.deserialize(r, MaxMessagePayload); err != nil {
			return err
		}
		msg.TxOut[i] = to
	}

	if err := readElement(r, &msg.LockTime); err != nil {
		return err
	}

	var buf bytes.Buffer
	_ = msg.BtcEncode(&buf, pver)
	sum := sha256d(buf.Bytes())
	h := chainhash.Hash(sum)
	msg.cachedHash = &h
	return nil
}

// Command implements the Message interface.
func (msg *MsgTx) Command() string { return CmdTx }

// MaxPayloadLength implements the Message interface.
func (msg *MsgTx) MaxPayloadLength(pver uint32) uint64 {
	return MaxMessagePayload
}

func errTooManyTxIn(count uint64) error {
	return &messageError{"MsgTx.BtcDecode", "too many transaction inputs to fit into max message size"}
}

func errTooManyTxOut(count uint64) error {
	return &messageError{"MsgTx.BtcDecode", "too many transaction outputs to fit into max message size"}
}

// messageError describes an issue with a message.
type messageError struct {
	Func        string
	Description string
}

func (e *messageError) Error() string {
	if e.Func != "" {
		return e.Func + ": " + e.Description
	}
	return e.Description
}
