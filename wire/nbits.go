// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// CompactTarget is the 4-byte "nBits" encoding of a difficulty target: a
// base-256 floating point value with a 1-byte exponent and 3-byte mantissa.
type CompactTarget uint32

// Target decodes c into the 256-bit target it represents.
//
// The reference implementation treats the mantissa as a signed quantity: if
// its high bit is set, the decoded target is zero regardless of exponent or
// the remaining mantissa bits. That behavior is preserved here rather than
// "corrected", since peers on the network compute difficulty the same way
// and a decoder that disagrees would reject valid chain state.
func (c CompactTarget) Target() chainhash.Hash {
	mantissa := uint32(c) & 0x007fffff
	if uint32(c)&0x00800000 != 0 {
		return chainhash.Hash{}
	}

	exponent := (uint32(c) & 0xff000000) >> 24
	var raw [32]byte
	for i := 2; i >= 0; i-- {
		if exponent == 0 {
			break
		}
		exponent--
		raw[exponent] = byte(mantissa >> (8 * uint(i)))
	}

	var h chainhash.Hash
	copy(h[:], raw[:])
	return h
}

// NewCompactTarget encodes target into its nBits form. When the rounded
// 3-byte mantissa would itself have its high bit set (making it ambiguous
// with the sign convention above), the mantissa is shifted down and the
// exponent bumped, matching the reference encoder.
func NewCompactTarget(target chainhash.Hash) CompactTarget {
	var raw [32]byte
	copy(raw[:], target[:])

	var mantissa uint32
	var exponent uint32
	hitSignificand := false
	remaining := 3

	for revIndex := 0; revIndex < 32; revIndex++ {
		val := raw[31-revIndex]

		if remaining == 0 {
			if val >= 0x80 {
				mantissa++
			}
			break
		}

		if val != 0 && !hitSignificand {
			hitSignificand = true
			exponent = 32 - uint32(revIndex)
		}

		if hitSignificand {
			remaining--
			mantissa += uint32(val) << (uint(remaining) * 8)
		}
	}

	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	return CompactTarget(mantissa | (exponent << 24))
}

// Serialize writes the 4-byte little-endian encoding of c.
func (c CompactTarget) Serialize(w io.Writer) error {
	return writeElement(w, uint32(c))
}

// Deserialize reads a CompactTarget from r.
func (c *CompactTarget) Deserialize(r io.Reader) error {
	var raw uint32
	if err := readElement(r, &raw); err != nil {
		return err
	}
	*c = CompactTarget(raw)
	return nil
}
