// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr_test

import (
	"net"
	"testing"
	"time"

	"github.com/nodewarp/warp/addrmgr"
	"github.com/nodewarp/warp/wire"
	"github.com/stretchr/testify/require"
)

func newTestAddr(ip string, port uint16) *wire.NetAddress {
	return &wire.NetAddress{
		Timestamp: time.Now(),
		Services:  wire.SFNodeNetwork,
		IP:        net.ParseIP(ip),
		Port:      port,
	}
}

func TestAddAddressDedupes(t *testing.T) {
	m := addrmgr.New()
	na := newTestAddr("192.0.2.1", 8333)

	m.AddAddress(na, na)
	m.AddAddress(na, na)
	require.Equal(t, 1, m.NumAddresses())
}

func TestGetAddressEmpty(t *testing.T) {
	m := addrmgr.New()
	require.Nil(t, m.GetAddress())
}

func TestGetAddressReturnsKnown(t *testing.T) {
	m := addrmgr.New()
	na := newTestAddr("192.0.2.2", 8333)
	m.AddAddress(na, na)

	got := m.GetAddress()
	require.NotNil(t, got)
	require.True(t, got.IP.Equal(na.IP))
}

func TestKnownAddressIsBadNeverAttempted(t *testing.T) {
	na := newTestAddr("192.0.2.3", 8333)
	ka := addrmgr.TstNewKnownAddress(na, 0, time.Time{}, time.Time{}, false, 0)
	require.False(t, addrmgr.TstKnownAddressIsBad(ka))
}

func TestKnownAddressIsBadTooManyAttempts(t *testing.T) {
	na := newTestAddr("192.0.2.4", 8333)
	ka := addrmgr.TstNewKnownAddress(na, 5, time.Now().Add(-2*time.Hour), time.Time{}, false, 0)
	require.True(t, addrmgr.TstKnownAddressIsBad(ka))
}

func TestKnownAddressChanceDecaysWithAttempts(t *testing.T) {
	na := newTestAddr("192.0.2.5", 8333)
	fresh := addrmgr.TstNewKnownAddress(na, 0, time.Now().Add(-1*time.Hour), time.Time{}, false, 0)
	tried := addrmgr.TstNewKnownAddress(na, 4, time.Now().Add(-1*time.Hour), time.Time{}, false, 0)
	require.Greater(t, addrmgr.TstKnownAddressChance(fresh), addrmgr.TstKnownAddressChance(tried))
}
