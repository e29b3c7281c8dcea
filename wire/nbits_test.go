// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire_test

import (
	"bytes"
	"testing"

	"github.com/nodewarp/warp/chaincfg/chainhash"
	"github.com/nodewarp/warp/wire"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestCompactTargetRoundTrip checks NewCompactTarget(c.Target()) == c for
// every well-formed compact target, and that the signed-mantissa values
// (high bit of the mantissa set) decode to the zero target instead, per
// the reference behavior this decoder preserves. A compact value whose
// exponent discards every nonzero mantissa byte also decodes to the zero
// target even though its sign bit is clear, so zeroTarget is a property
// of the decoded result rather than just the sign-bit check.
func TestCompactTargetRoundTrip(t *testing.T) {
	cases := []struct {
		name       string
		compact    wire.CompactTarget
		zeroTarget bool
	}{
		{"typical", 0x01003456, true},
		{"zero", 0x00000000, false},
		{"mantissa exactly 0x80 boundary", 0x02008000, false},
		{"leading zero mantissa byte (5 byte)", 0x05009234, false},
		{"signed mantissa high bit set (4 byte)", 0x04923456, true},
		{"mantissa no high bit (4 byte)", 0x04123456, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			target := c.compact.Target()
			if c.zeroTarget {
				require.Equal(t, chainhash.Hash{}, target)
				require.Equal(t, wire.CompactTarget(0), wire.NewCompactTarget(target))
				return
			}
			require.Equal(t, c.compact, wire.NewCompactTarget(target))
		})
	}
}

// TestCompactTargetNarrowExponentDropsMantissa checks the case where the
// exponent only has room for one of the mantissa's three bytes: the
// decoded target keeps just that byte, so re-encoding it does not
// reproduce the original compact value.
func TestCompactTargetNarrowExponentDropsMantissa(t *testing.T) {
	compact := wire.CompactTarget(0x01123456)
	target := compact.Target()

	want := chainhash.Hash{}
	want[0] = 0x12
	require.Equal(t, want, target)
	require.Equal(t, wire.CompactTarget(0x01120000), wire.NewCompactTarget(target))
}

func TestCompactTargetSerializeDeserialize(t *testing.T) {
	values := []wire.CompactTarget{0, 0x01003456, 0x1d00ffff, 0xffffffff}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, v.Serialize(&buf))
		require.Equal(t, 4, buf.Len())

		var got wire.CompactTarget
		require.NoError(t, got.Deserialize(&buf))
		require.Equal(t, v, got)
	}
}

// TestCompactTargetSerializeRoundTripProperty checks that every 4-byte
// encoding round-trips through Serialize/Deserialize exactly, independent
// of whether it decodes to a meaningful target.
func TestCompactTargetSerializeRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.Uint32().Draw(t, "raw")
		v := wire.CompactTarget(raw)

		var buf bytes.Buffer
		require.NoError(t, v.Serialize(&buf))

		var got wire.CompactTarget
		require.NoError(t, got.Deserialize(&buf))
		require.Equal(t, v, got)
	})
}
