// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire_test

import (
	"bytes"
	"testing"

	"github.com/nodewarp/warp/wire"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestVarIntRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 0xFC, 0xFD, 0xFFFF, 0x10000,
		0xFFFFFFFF, 0x100000000, 0xFFFFFFFFFFFFFFFF,
	}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, wire.WriteVarInt(&buf, v))
		require.Equal(t, wire.VarIntSerializeSize(v), buf.Len())

		got, err := wire.ReadVarInt(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

// TestVarIntRoundTripProperty checks the round-trip law over the full
// uint64 domain, not just the boundary values above.
func TestVarIntRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64().Draw(t, "v")

		var buf bytes.Buffer
		require.NoError(t, wire.WriteVarInt(&buf, v))
		require.Equal(t, wire.VarIntSerializeSize(v), buf.Len())

		got, err := wire.ReadVarInt(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, 0, buf.Len(), "decode must consume exactly what was written")
	})
}

func TestVarIntShortestForm(t *testing.T) {
	cases := []struct {
		v    uint64
		size int
	}{
		{0, 1},
		{0xFC, 1},
		{0xFD, 3},
		{0xFFFF, 3},
		{0x10000, 5},
		{0xFFFFFFFF, 5},
		{0x100000000, 9},
	}
	for _, c := range cases {
		require.Equal(t, c.size, wire.VarIntSerializeSize(c.v))
	}
}
