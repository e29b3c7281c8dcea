// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peerset

import (
	"net"
	"testing"
	"time"

	"github.com/nodewarp/warp/chaincfg/chainhash"
	"github.com/nodewarp/warp/peer"
	"github.com/nodewarp/warp/wire"
	"github.com/stretchr/testify/require"
)

// unstartedSession returns a Session wrapping one end of an in-process
// pipe, without running its handshake or I/O goroutines. That's enough
// for tests that only exercise peer-selection logic, which never touches
// the underlying connection.
func unstartedSession(t *testing.T) *peer.Session {
	t.Helper()
	local, remote := net.Pipe()
	t.Cleanup(func() { remote.Close() })
	return peer.NewSession(local, peer.Config{Net: wire.MainNet, ProtocolVersion: wire.ProtocolVersion})
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r := NewRouter(10, 3, nil)
	t.Cleanup(r.Stop)
	return r
}

func addReadyPeer(t *testing.T, r *Router, rtt time.Duration) *readyPeer {
	t.Helper()
	s := unstartedSession(t)
	p := &readyPeer{session: s, load: newLoadEstimator()}
	p.load.ewmaRTT = rtt
	r.ready[s.ID()] = p
	return p
}

// TestLeastLoadedPrefersLowestScore reproduces the specification's §8
// router scenario: peers A, B, C with load estimates 1, 10, 100 must
// route a Headers-style request to A.
func TestLeastLoadedPrefersLowestScore(t *testing.T) {
	r := newTestRouter(t)
	a := addReadyPeer(t, r, 1)
	addReadyPeer(t, r, 10)
	addReadyPeer(t, r, 100)

	// Power-of-two choices samples two candidates at random; with three
	// peers and only one minimum, repeated draws must always settle on
	// the true minimum once both its competitors have been it least
	// once. Run enough trials to make flakiness negligible rather than
	// asserting on a single draw.
	for i := 0; i < 50; i++ {
		got := r.leastLoaded(nil)
		require.NotNil(t, got)
		if got.load.score() > a.load.score() {
			t.Fatalf("leastLoaded chose a peer with score %v, worse than the known minimum %v", got.load.score(), a.load.score())
		}
	}
}

// TestBlocksByHashPrefersInventoryOwnerOverLoad reproduces the
// specification's second §8 router scenario: of {A, B, C}, only B
// advertised h via Inv, so a BlocksByHash({h}) request must go to B
// regardless of load ordering.
func TestBlocksByHashPrefersInventoryOwnerOverLoad(t *testing.T) {
	r := newTestRouter(t)
	addReadyPeer(t, r, 1)
	b := addReadyPeer(t, r, 10)
	addReadyPeer(t, r, 100)

	var h chainhash.Hash
	h[0] = 0xaa
	r.inv.learn(h, b.session.ID())

	hashes := map[chainhash.Hash]struct{}{h: {}}
	got := r.selectForHashes(hashes)
	require.Same(t, b, got)
}

// TestSelectForHashesFallsBackToLeastLoaded covers the case where no
// ready peer is known to own any requested hash: routing must fall back
// to load-based selection rather than failing outright.
func TestSelectForHashesFallsBackToLeastLoaded(t *testing.T) {
	r := newTestRouter(t)
	addReadyPeer(t, r, 1)

	var h chainhash.Hash
	h[0] = 0xbb
	got := r.selectForHashes(map[chainhash.Hash]struct{}{h: {}})
	require.NotNil(t, got)
}

// TestHandleLeavePrunesInventoryIndex exercises the invariant that the
// inventory index never holds an entry for a peer no longer ready.
func TestHandleLeavePrunesInventoryIndex(t *testing.T) {
	r := newTestRouter(t)
	p := addReadyPeer(t, r, 1)

	var h chainhash.Hash
	h[0] = 0xcc
	r.inv.learn(h, p.session.ID())
	require.NotEmpty(t, r.inv.ownersOf(h))

	r.handleLeave(p.session.ID())

	require.Empty(t, r.inv.ownersOf(h))
	_, stillReady := r.ready[p.session.ID()]
	require.False(t, stillReady)
}

// TestHandleLeaveSignalsLowWater verifies the crawler's back-pressure
// channel fires once the ready set drops below the configured mark.
func TestHandleLeaveSignalsLowWater(t *testing.T) {
	r := NewRouter(10, 1, nil)
	defer r.Stop()
	p := addReadyPeer(t, r, 1)

	r.handleLeave(p.session.ID())

	select {
	case <-r.LowWater():
	case <-time.After(time.Second):
		t.Fatal("expected low-water signal after dropping below the mark")
	}
}

// TestDisconnectedSessionIsPrunedFromReadySet drives a real handshake
// over an in-process pipe, joins the session into a running router, then
// shuts it down and confirms the router notices without being told
// directly — the gap this test guards against is a session that
// disconnects silently, leaving a stale entry in the ready set forever.
func TestDisconnectedSessionIsPrunedFromReadySet(t *testing.T) {
	r := NewRouter(10, 0, nil)
	defer r.Stop()
	go r.Run()

	local, remote := net.Pipe()
	defer remote.Close()

	sess := peer.NewSession(local, peer.Config{
		Net:              wire.MainNet,
		ProtocolVersion:  wire.ProtocolVersion,
		HandshakeTimeout: 2 * time.Second,
	})

	done := make(chan error, 1)
	go func() { done <- sess.Handshake(0x1) }()

	addr := &net.TCPAddr{IP: net.IPv4zero, Port: 8333}
	_, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)
	require.NoError(t, wire.WriteMessage(remote, wire.NewMsgVersion(wire.ProtocolVersion, 0, addr, addr, 2, "/t:0/", 0), wire.ProtocolVersion, wire.MainNet))
	msg, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)
	require.IsType(t, &wire.MsgVerAck{}, msg)
	require.NoError(t, wire.WriteMessage(remote, &wire.MsgVerAck{}, wire.ProtocolVersion, wire.MainNet))
	require.NoError(t, <-done)

	sess.Start()
	r.Join(sess)

	require.Eventually(t, func() bool {
		return r.ReadyCount() == 1
	}, time.Second, 10*time.Millisecond, "Join never landed in the ready set")

	sess.Shutdown()

	require.Eventually(t, func() bool {
		return r.ReadyCount() == 0
	}, 2*time.Second, 10*time.Millisecond, "disconnected session was never pruned from the ready set")
}
