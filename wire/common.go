// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// MaxVarIntPayload is the maximum payload size for a variable length integer.
const MaxVarIntPayload = 9

var littleEndian = binary.LittleEndian

// binaryFreeList is a pool of byte slices used to avoid repeated small
// allocations when reading and writing the fixed-width integers that make
// up the bulk of every message on the wire.
type binaryFreeList chan []byte

// Borrow returns a byte slice from the free list with a length of 8. A new
// buffer is allocated if there are no free ones available.
func (l binaryFreeList) Borrow() []byte {
	var buf []byte
	select {
	case buf = <-l:
	default:
		buf = make([]byte, 8)
	}
	return buf[:8]
}

// Return puts the provided byte slice back on the free list.
func (l binaryFreeList) Return(buf []byte) {
	select {
	case l <- buf:
	default:
		// Let it be garbage collected.
	}
}

var binarySerializer binaryFreeList = make(chan []byte, 32)

func (l binaryFreeList) Uint8(r io.Reader) (uint8, error) {
	buf := l.Borrow()[:1]
	if _, err := io.ReadFull(r, buf); err != nil {
		l.Return(buf)
		return 0, err
	}
	rv := buf[0]
	l.Return(buf)
	return rv, nil
}

func (l binaryFreeList) Uint16(r io.Reader) (uint16, error) {
	buf := l.Borrow()[:2]
	if _, err := io.ReadFull(r, buf); err != nil {
		l.Return(buf)
		return 0, err
	}
	rv := littleEndian.Uint16(buf)
	l.Return(buf)
	return rv, nil
}

func (l binaryFreeList) Uint32(r io.Reader) (uint32, error) {
	buf := l.Borrow()[:4]
	if _, err := io.ReadFull(r, buf); err != nil {
		l.Return(buf)
		return 0, err
	}
	rv := littleEndian.Uint32(buf)
	l.Return(buf)
	return rv, nil
}

func (l binaryFreeList) Uint64(r io.Reader) (uint64, error) {
	buf := l.Borrow()[:8]
	if _, err := io.ReadFull(r, buf); err != nil {
		l.Return(buf)
		return 0, err
	}
	rv := littleEndian.Uint64(buf)
	l.Return(buf)
	return rv, nil
}

func (l binaryFreeList) PutUint8(w io.Writer, val uint8) error {
	buf := l.Borrow()[:1]
	buf[0] = val
	_, err := w.Write(buf)
	l.Return(buf)
	return err
}

func (l binaryFreeList) PutUint16(w io.Writer, val uint16) error {
	buf := l.Borrow()[:2]
	littleEndian.PutUint16(buf, val)
	_, err := w.Write(buf)
	l.Return(buf)
	return err
}

func (l binaryFreeList) PutUint32(w io.Writer, val uint32) error {
	buf := l.Borrow()[:4]
	littleEndian.PutUint32(buf, val)
	_, err := w.Write(buf)
	l.Return(buf)
	return err
}

func (l binaryFreeList) PutUint64(w io.Writer, val uint64) error {
	buf := l.Borrow()[:8]
	littleEndian.PutUint64(buf, val)
	_, err := w.Write(buf)
	l.Return(buf)
	return err
}

// readElement reads the next sequence of bytes from r using the passed
// fixed-width little-endian encoding into element, which must be a pointer.
func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *int32:
		rv, err := binarySerializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = int32(rv)
		return nil

	case *uint32:
		rv, err := binarySerializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int64:
		rv, err := binarySerializer.Uint64(r)
		if err != nil {
			return err
		}
		*e = int64(rv)
		return nil

	case *uint64:
		rv, err := binarySerializer.Uint64(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *bool:
		rv, err := binarySerializer.Uint8(r)
		if err != nil {
			return err
		}
		switch rv {
		case 0:
			*e = false
		case 1:
			*e = true
		default:
			return fmt.Errorf("invalid bool encoding 0x%x", rv)
		}
		return nil

	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err

	case *[4]byte:
		_, err := io.ReadFull(r, e[:])
		return err

	case *[12]byte:
		_, err := io.ReadFull(r, e[:])
		return err
	}

	return binary.Read(r, littleEndian, element)
}

// writeElement writes the little-endian representation of element to w.
func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case int32:
		return binarySerializer.PutUint32(w, uint32(e))

	case uint32:
		return binarySerializer.PutUint32(w, e)

	case int64:
		return binarySerializer.PutUint64(w, uint64(e))

	case uint64:
		return binarySerializer.PutUint64(w, e)

	case bool:
		var v uint8
		if e {
			v = 1
		}
		return binarySerializer.PutUint8(w, v)

	case chainhash.Hash:
		_, err := w.Write(e[:])
		return err

	case [4]byte:
		_, err := w.Write(e[:])
		return err

	case [12]byte:
		_, err := w.Write(e[:])
		return err
	}

	return binary.Write(w, littleEndian, element)
}

// ReadVarInt reads a CompactInt (Bitcoin's variable-length unsigned integer
// encoding) from r. Any well-formed encoding is accepted on decode.
func ReadVarInt(r io.Reader) (uint64, error) {
	discriminant, err := binarySerializer.Uint8(r)
	if err != nil {
		return 0, err
	}

	switch discriminant {
	case 0xff:
		rv, err := binarySerializer.Uint64(r)
		if err != nil {
			return 0, err
		}
		return rv, nil

	case 0xfe:
		rv, err := binarySerializer.Uint32(r)
		if err != nil {
			return 0, err
		}
		return uint64(rv), nil

	case 0xfd:
		rv, err := binarySerializer.Uint16(r)
		if err != nil {
			return 0, err
		}
		return uint64(rv), nil

	default:
		return uint64(discriminant), nil
	}
}

// WriteVarInt emits x in its shortest possible CompactInt form.
func WriteVarInt(w io.Writer, x uint64) error {
	if x < 0xfd {
		return binarySerializer.PutUint8(w, uint8(x))
	}

	if x <= 0xffff {
		if err := binarySerializer.PutUint8(w, 0xfd); err != nil {
			return err
		}
		return binarySerializer.PutUint16(w, uint16(x))
	}

	if x <= 0xffffffff {
		if err := binarySerializer.PutUint8(w, 0xfe); err != nil {
			return err
		}
		return binarySerializer.PutUint32(w, uint32(x))
	}

	if err := binarySerializer.PutUint8(w, 0xff); err != nil {
		return err
	}
	return binarySerializer.PutUint64(w, x)
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// x as a CompactInt.
func VarIntSerializeSize(x uint64) int {
	if x < 0xfd {
		return 1
	}
	if x <= 0xffff {
		return 3
	}
	if x <= 0xffffffff {
		return 5
	}
	return 9
}

// ReadVarString reads a length-prefixed UTF-8 byte vector. Per the reference
// implementation, bytes that are not valid UTF-8 are not treated as an
// error; invalid sequences are replaced rather than rejected.
func ReadVarString(r io.Reader, maxLen uint32) (string, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if count > uint64(maxLen) {
		return "", fmt.Errorf("variable length string is too long [count %d, max %d]", count, maxLen)
	}

	buf := make([]byte, count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(buf), "�"), nil
}

// WriteVarString writes s as a CompactInt-length-prefixed byte vector.
func WriteVarString(w io.Writer, s string) error {
	if err := WriteVarInt(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

// ReadVarBytes reads a length-prefixed byte vector, failing if the declared
// length exceeds maxAllowed.
func ReadVarBytes(r io.Reader, maxAllowed uint32, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > uint64(maxAllowed) {
		return nil, fmt.Errorf("%s is larger than the max allowed size [count %d, max %d]", fieldName, count, maxAllowed)
	}

	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteVarBytes writes b as a CompactInt-length-prefixed byte vector.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// writeNetAddress writes a socket address as a 16-byte IPv4-mapped IPv6
// address followed by a big-endian port, optionally preceded by a 4-byte
// timestamp (the Version message's embedded addresses omit it).
func writeNetAddress(w io.Writer, services ServiceFlag, addr *net.TCPAddr, includeTimestamp bool, ts uint32) error {
	if includeTimestamp {
		if err := binarySerializer.PutUint32(w, ts); err != nil {
			return err
		}
	}

	if err := binarySerializer.PutUint64(w, uint64(services)); err != nil {
		return err
	}

	var ip [16]byte
	if addr != nil && addr.IP != nil {
		if v4 := addr.IP.To4(); v4 != nil {
			copy(ip[:12], []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff})
			copy(ip[12:], v4)
		} else {
			copy(ip[:], addr.IP.To16())
		}
	}
	if _, err := w.Write(ip[:]); err != nil {
		return err
	}

	var port uint16
	if addr != nil {
		port = uint16(addr.Port)
	}
	return binary.Write(w, binary.BigEndian, port)
}

// readNetAddress is the inverse of writeNetAddress.
func readNetAddress(r io.Reader, includeTimestamp bool) (ts uint32, services ServiceFlag, addr *net.TCPAddr, err error) {
	if includeTimestamp {
		if ts, err = binarySerializer.Uint32(r); err != nil {
			return
		}
	}

	var svc uint64
	if svc, err = binarySerializer.Uint64(r); err != nil {
		return
	}
	services = ServiceFlag(svc)

	var ip [16]byte
	if _, err = io.ReadFull(r, ip[:]); err != nil {
		return
	}

	var port uint16
	if err = binary.Read(r, binary.BigEndian, &port); err != nil {
		return
	}

	ipAddr := make(net.IP, 16)
	copy(ipAddr, ip[:])
	addr = &net.TCPAddr{IP: ipAddr, Port: int(port)}
	return
}
