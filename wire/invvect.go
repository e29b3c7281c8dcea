// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// InvType represents the allowed types of an inventory vector.
type InvType uint32

// These constants define the various supported inventory item types, one
// for each of the seven kinds the protocol defines. Any other value
// encountered on the wire is a parse error.
const (
	InvTypeTx                   InvType = 1
	InvTypeBlock                InvType = 2
	InvTypeFilteredBlock        InvType = 3
	InvTypeCompactBlock         InvType = 4
	InvTypeWitnessTx            InvType = 5
	InvTypeWitnessBlock         InvType = 6
	InvTypeFilteredWitnessBlock InvType = 7
)

var ivStrings = map[InvType]string{
	InvTypeTx:                   "MSG_TX",
	InvTypeBlock:                "MSG_BLOCK",
	InvTypeFilteredBlock:        "MSG_FILTERED_BLOCK",
	InvTypeCompactBlock:         "MSG_CMPCT_BLOCK",
	InvTypeWitnessTx:            "MSG_WITNESS_TX",
	InvTypeWitnessBlock:         "MSG_WITNESS_BLOCK",
	InvTypeFilteredWitnessBlock: "MSG_FILTERED_WITNESS_BLOCK",
}

// String returns the InvType in human-readable form.
func (i InvType) String() string {
	if s, ok := ivStrings[i]; ok {
		return s
	}
	return fmt.Sprintf("Unknown InvType (%d)", uint32(i))
}

// InvVect defines a bitcoin inventory vector, used to describe data as
// specified by the Type field, referenced by Hash.
type InvVect struct {
	Type InvType
	Hash chainhash.Hash
}

// NewInvVect returns a new InvVect using the provided type and hash.
func NewInvVect(typ InvType, hash *chainhash.Hash) *InvVect {
	return &InvVect{Type: typ, Hash: *hash}
}

// Len returns the number of bytes this entry occupies on the wire: a 4-byte
// type plus a 32-byte hash.
func (iv *InvVect) Len() int {
	return 4 + chainhash.HashSize
}

// Serialize writes the InvVect to w.
func (iv *InvVect) Serialize(w io.Writer) error {
	if err := writeElement(w, uint32(iv.Type)); err != nil {
		return err
	}
	return writeElement(w, iv.Hash)
}

// Deserialize reads an InvVect from r, rejecting any type outside the seven
// known kinds.
func (iv *InvVect) Deserialize(r io.Reader) error {
	var typ uint32
	if err := readElement(r, &typ); err != nil {
		return err
	}
	switch InvType(typ) {
	case InvTypeTx, InvTypeBlock, InvTypeFilteredBlock, InvTypeCompactBlock,
		InvTypeWitnessTx, InvTypeWitnessBlock, InvTypeFilteredWitnessBlock:
		iv.Type = InvType(typ)
	default:
		return fmt.Errorf("wire: unreadable inventory type: %d", typ)
	}
	return readElement(r, &iv.Hash)
}

// readInvVectList reads a CompactInt-prefixed list of InvVect entries,
// rejecting lists longer than maxAllowed.
func readInvVectList(r io.Reader, maxAllowed uint64) ([]*InvVect, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, fmt.Errorf("wire: too many inventory entries for message [count %d, max %d]", count, maxAllowed)
	}

	list := make([]*InvVect, 0, count)
	for i := uint64(0); i < count; i++ {
		iv := &InvVect{}
		if err := iv.Deserialize(r); err != nil {
			return nil, err
		}
		list = append(list, iv)
	}
	return list, nil
}

// writeInvVectList writes a CompactInt-prefixed list of InvVect entries.
func writeInvVectList(w io.Writer, list []*InvVect) error {
	if err := WriteVarInt(w, uint64(len(list))); err != nil {
		return err
	}
	for _, iv := range list {
		if err := iv.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}
