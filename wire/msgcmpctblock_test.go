// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire_test

import (
	"bytes"
	"testing"

	"github.com/nodewarp/warp/wire"
	"github.com/stretchr/testify/require"
)

func TestNewMsgCmpctBlockPrefillsCoinbaseAndShortIDsTheRest(t *testing.T) {
	cb := coinbaseTx()
	tx1 := ordinaryTx(cb.TxHash())
	tx2 := ordinaryTx(tx1.TxHash())
	block := buildBlock(t, []*wire.MsgTx{cb, tx1, tx2})

	cmpct := wire.NewMsgCmpctBlock(block, 0x1122334455667788)

	require.Equal(t, block.Header, cmpct.Header)
	require.Len(t, cmpct.PrefilledTxns, 1)
	require.Equal(t, uint64(0), cmpct.PrefilledTxns[0].Index)
	require.Equal(t, cb.TxHash(), cmpct.PrefilledTxns[0].Tx.TxHash())
	require.Len(t, cmpct.ShortIDs, 2)

	// Short IDs only use the low 48 bits of the SipHash digest.
	for _, id := range cmpct.ShortIDs {
		require.Equal(t, uint64(0), id&0xffff000000000000)
	}
	require.NotEqual(t, cmpct.ShortIDs[0], cmpct.ShortIDs[1])
}

func TestMsgCmpctBlockRoundTrip(t *testing.T) {
	cb := coinbaseTx()
	tx1 := ordinaryTx(cb.TxHash())
	block := buildBlock(t, []*wire.MsgTx{cb, tx1})

	cmpct := wire.NewMsgCmpctBlock(block, 42)

	var buf bytes.Buffer
	require.NoError(t, cmpct.BtcEncode(&buf, wire.ProtocolVersion))

	var decoded wire.MsgCmpctBlock
	require.NoError(t, decoded.BtcDecode(&buf, wire.ProtocolVersion))
	require.Equal(t, cmpct.Nonce, decoded.Nonce)
	require.Equal(t, cmpct.ShortIDs, decoded.ShortIDs)
	require.Len(t, decoded.PrefilledTxns, 1)
}
