// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/nodewarp/warp/wire"
)

// AddrManager is the crawler's candidate address book: an in-memory map of
// every known address, keyed by host:port, guarded by a single mutex. The
// crawler dials from it and records attempts and successes; the router
// adds addresses learned from peers' Addr gossip through AddAddresses.
type AddrManager struct {
	mtx   sync.Mutex
	addrs map[string]*KnownAddress
}

// New returns an empty AddrManager.
func New() *AddrManager {
	return &AddrManager{
		addrs: make(map[string]*KnownAddress),
	}
}

func addrKey(na *wire.NetAddress) string {
	return net.JoinHostPort(na.IP.String(), strconv.Itoa(int(na.Port)))
}

// AddAddress records na as learned from srcAddr (the peer that reported
// it, or na itself for a self-reported handshake address). Addresses
// already known have their reference count bumped instead of being
// replaced, so an address learned from several peers is not forgotten
// when one of them disconnects.
func (m *AddrManager) AddAddress(na, srcAddr *wire.NetAddress) {
	if na == nil {
		return
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()

	k := addrKey(na)
	if ka, ok := m.addrs[k]; ok {
		ka.refs++
		return
	}
	log.Debugf("new address: %s", k)
	m.addrs[k] = &KnownAddress{na: na, srcAddr: srcAddr}
}

// AddAddresses is a convenience wrapper around AddAddress for a batch of
// addresses reported by a single peer, such as the contents of an Addr
// message.
func (m *AddrManager) AddAddresses(addrs []*wire.NetAddress, srcAddr *wire.NetAddress) {
	for _, na := range addrs {
		m.AddAddress(na, srcAddr)
	}
}

// Attempt records a dial attempt against na, regardless of outcome.
func (m *AddrManager) Attempt(na *wire.NetAddress) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	ka, ok := m.addrs[addrKey(na)]
	if !ok {
		return
	}
	ka.lastattempt = time.Now()
	ka.attempts++
}

// Good marks na as having completed a successful handshake, resetting its
// failure count and moving it into the tried set.
func (m *AddrManager) Good(na *wire.NetAddress) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	ka, ok := m.addrs[addrKey(na)]
	if !ok {
		return
	}
	ka.lastsuccess = time.Now()
	ka.lastattempt = ka.lastsuccess
	ka.attempts = 0
	ka.tried = true
}

// NumAddresses returns the total number of addresses known, tried and
// untried alike.
func (m *AddrManager) NumAddresses() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return len(m.addrs)
}

// GetAddress returns a random candidate address suitable for the crawler
// to dial next, weighted by KnownAddress.chance and skipping addresses
// isBad reports as unreliable. It returns nil if no suitable candidate
// exists.
func (m *AddrManager) GetAddress() *wire.NetAddress {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if len(m.addrs) == 0 {
		return nil
	}

	// Weighted sampling: walk a random subset and keep the best-scoring
	// candidate seen, which avoids building a full cumulative table on
	// every call.
	const sampleSize = 32
	var best *KnownAddress
	var bestChance float64
	seen := 0
	for _, ka := range m.addrs {
		seen++
		if ka.isBad() {
			continue
		}
		c := ka.chance()
		if best == nil || c > bestChance {
			best = ka
			bestChance = c
		}
		if seen >= sampleSize {
			break
		}
	}
	if best == nil {
		return nil
	}
	return best.na
}

// Addresses returns every address currently known, for building an Addr
// reply to a Peers request.
func (m *AddrManager) Addresses() []*wire.NetAddress {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	out := make([]*wire.NetAddress, 0, len(m.addrs))
	for _, ka := range m.addrs {
		out = append(out, ka.na)
	}
	return out
}
