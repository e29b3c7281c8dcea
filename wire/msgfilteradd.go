// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MaxFilterAddDataSize is the maximum size in bytes of a data element added
// to a bloom filter via filteradd.
const MaxFilterAddDataSize = 520

// MsgFilterAdd implements the Message interface and adds a single data
// element to a previously loaded bloom filter.
type MsgFilterAdd struct {
	Data []byte
}

// BtcEncode implements the Message interface.
func (msg *MsgFilterAdd) BtcEncode(w io.Writer, pver uint32) error {
	return WriteVarBytes(w, msg.Data)
}

// BtcDecode implements the Message interface.
func (msg *MsgFilterAdd) BtcDecode(r io.Reader, pver uint32) error {
	data, err := ReadVarBytes(r, MaxFilterAddDataSize, "filteradd data")
	if err != nil {
		return err
	}
	if len(data) > MaxFilterAddDataSize {
		return fmt.Errorf("wire: filteradd data is too large [len %d, max %d]", len(data), MaxFilterAddDataSize)
	}
	msg.Data = data
	return nil
}

// Command implements the Message interface.
func (msg *MsgFilterAdd) Command() string { return CmdFilterAdd }

// MaxPayloadLength implements the Message interface.
func (msg *MsgFilterAdd) MaxPayloadLength(pver uint32) uint64 {
	return uint64(VarIntSerializeSize(MaxFilterAddDataSize)) + MaxFilterAddDataSize
}
