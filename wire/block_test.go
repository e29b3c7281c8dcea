// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/nodewarp/warp/chaincfg/chainhash"
	"github.com/nodewarp/warp/wire"
	"github.com/stretchr/testify/require"
)

func coinbaseTx() *wire.MsgTx {
	return &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Hash: chainhash.Hash{}, Index: math.MaxUint32},
			SignatureScript:  []byte{0x01, 0x02},
			Sequence:         0xffffffff,
		}},
		TxOut: []*wire.TxOut{{
			Value:    5000000000,
			PkScript: []byte{0x51},
		}},
	}
}

func ordinaryTx(prev chainhash.Hash) *wire.MsgTx {
	return &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Hash: prev, Index: 0},
			SignatureScript:  []byte{0x51},
			Sequence:         0xffffffff,
		}},
		TxOut: []*wire.TxOut{{
			Value:    1000,
			PkScript: []byte{0x51},
		}},
	}
}

func buildBlock(t *testing.T, txs []*wire.MsgTx) *wire.MsgBlock {
	t.Helper()
	leaves := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		leaves[i] = tx.TxHash()
	}
	root := wire.TstMerkleRoot(leaves)
	hdr := wire.NewBlockHeader(1, &chainhash.Hash{}, &root, 0x1d00ffff, 0)
	return &wire.MsgBlock{Header: *hdr, Transactions: txs}
}

func TestBlockRoundTrip(t *testing.T) {
	cb := coinbaseTx()
	tx := ordinaryTx(cb.TxHash())
	block := buildBlock(t, []*wire.MsgTx{cb, tx})

	var buf bytes.Buffer
	require.NoError(t, block.BtcEncode(&buf, wire.ProtocolVersion))

	var decoded wire.MsgBlock
	require.NoError(t, decoded.BtcDecode(&buf, wire.ProtocolVersion))
	require.Equal(t, block.BlockHash(), decoded.BlockHash())
	require.Len(t, decoded.Transactions, 2)
}

func TestBlockTruncatedPayloadFailsToDeserialize(t *testing.T) {
	cb := coinbaseTx()
	block := buildBlock(t, []*wire.MsgTx{cb})

	var buf bytes.Buffer
	require.NoError(t, block.BtcEncode(&buf, wire.ProtocolVersion))

	truncated := buf.Bytes()[:buf.Len()-4]
	var decoded wire.MsgBlock
	err := decoded.BtcDecode(bytes.NewReader(truncated), wire.ProtocolVersion)
	require.Error(t, err)
}

func TestBlockRejectsZeroTransactions(t *testing.T) {
	hdr := wire.NewBlockHeader(1, &chainhash.Hash{}, &chainhash.Hash{}, 0x1d00ffff, 0)
	var buf bytes.Buffer
	require.NoError(t, hdr.Serialize(&buf))
	require.NoError(t, wire.WriteVarInt(&buf, 0))

	var decoded wire.MsgBlock
	err := decoded.BtcDecode(&buf, wire.ProtocolVersion)
	require.Error(t, err)
}

func TestBlockRejectsNonCoinbaseFirstTransaction(t *testing.T) {
	tx1 := ordinaryTx(chainhash.Hash{})
	tx2 := ordinaryTx(tx1.TxHash())
	block := buildBlock(t, []*wire.MsgTx{tx1, tx2})

	var buf bytes.Buffer
	require.NoError(t, block.BtcEncode(&buf, wire.ProtocolVersion))

	var decoded wire.MsgBlock
	err := decoded.BtcDecode(&buf, wire.ProtocolVersion)
	require.Error(t, err)
}

func TestBlockRejectsSecondCoinbaseTransaction(t *testing.T) {
	cb1 := coinbaseTx()
	cb2 := coinbaseTx()
	cb2.LockTime = 1 // differentiate the hash from cb1

	leaves := []chainhash.Hash{cb1.TxHash(), cb2.TxHash()}
	root := wire.TstMerkleRoot(leaves)
	hdr := wire.NewBlockHeader(1, &chainhash.Hash{}, &root, 0x1d00ffff, 0)

	var buf bytes.Buffer
	require.NoError(t, hdr.Serialize(&buf))
	require.NoError(t, wire.WriteVarInt(&buf, 2))
	require.NoError(t, cb1.BtcEncode(&buf, wire.ProtocolVersion))
	require.NoError(t, cb2.BtcEncode(&buf, wire.ProtocolVersion))

	var decoded wire.MsgBlock
	err := decoded.BtcDecode(&buf, wire.ProtocolVersion)
	require.Error(t, err)
}

func TestBlockRejectsMismatchedMerkleRoot(t *testing.T) {
	cb := coinbaseTx()
	tx := ordinaryTx(cb.TxHash())

	hdr := wire.NewBlockHeader(1, &chainhash.Hash{}, &chainhash.Hash{}, 0x1d00ffff, 0) // wrong root
	var buf bytes.Buffer
	require.NoError(t, hdr.Serialize(&buf))
	require.NoError(t, wire.WriteVarInt(&buf, 2))
	require.NoError(t, cb.BtcEncode(&buf, wire.ProtocolVersion))
	require.NoError(t, tx.BtcEncode(&buf, wire.ProtocolVersion))

	var decoded wire.MsgBlock
	err := decoded.BtcDecode(&buf, wire.ProtocolVersion)
	require.Error(t, err)
}
