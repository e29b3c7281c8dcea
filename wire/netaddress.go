// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"net"
	"time"
)

// MaxNetAddressPayload returns the max number of bytes a net address can be
// when encoded, either with or without the leading timestamp.
func MaxNetAddressPayload(includeTimestamp bool) uint64 {
	// services (8) + ip (16) + port (2)
	size := uint64(26)
	if includeTimestamp {
		size += 4
	}
	return size
}

// NetAddress holds an IP, port and set of services advertised for a single
// peer, plus the time it was last seen. This is the wire representation the
// spec calls EncapsulatedAddr.
type NetAddress struct {
	// Timestamp when the peer was last seen, accurate to the second.
	Timestamp time.Time

	// Services the peer supports.
	Services ServiceFlag

	// IP address and port of the peer.
	IP   net.IP
	Port uint16
}

// NewNetAddress returns a new NetAddress using the provided TCP address and
// supported service flags.
func NewNetAddress(addr *net.TCPAddr, services ServiceFlag) *NetAddress {
	return &NetAddress{
		Timestamp: time.Now(),
		Services:  services,
		IP:        addr.IP,
		Port:      uint16(addr.Port),
	}
}

// Serialize writes na to w. includeTimestamp controls whether a leading
// 4-byte timestamp is emitted: the Version message's embedded addresses
// never carry one.
func (na *NetAddress) Serialize(w io.Writer, includeTimestamp bool) error {
	tcpAddr := &net.TCPAddr{IP: na.IP, Port: int(na.Port)}
	return writeNetAddress(w, na.Services, tcpAddr, includeTimestamp, uint32(na.Timestamp.Unix()))
}

// Deserialize reads a NetAddress from r. When includeTimestamp is false the
// Timestamp field is left zero-valued, matching the Version message's
// embedded addresses.
func (na *NetAddress) Deserialize(r io.Reader, includeTimestamp bool) error {
	ts, services, addr, err := readNetAddress(r, includeTimestamp)
	if err != nil {
		return err
	}
	if includeTimestamp {
		na.Timestamp = time.Unix(int64(ts), 0)
	}
	na.Services = services
	na.IP = addr.IP
	na.Port = uint16(addr.Port)
	return nil
}
