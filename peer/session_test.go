// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer_test

import (
	"errors"
	"math"
	"net"
	"testing"
	"time"

	"github.com/nodewarp/warp/chaincfg/chainhash"
	"github.com/nodewarp/warp/peer"
	"github.com/nodewarp/warp/wire"
	"github.com/stretchr/testify/require"
)

func testConfig() peer.Config {
	return peer.Config{
		Net:              wire.MainNet,
		ProtocolVersion:  wire.ProtocolVersion,
		UserAgent:        "/warp-test:0.0.1/",
		HandshakeTimeout: 2 * time.Second,
		RequestTimeout:   2 * time.Second,
	}
}

// remoteVersion builds a minimal but well-formed Version message as a
// counterpart would send it.
func remoteVersion() *wire.MsgVersion {
	addr := &net.TCPAddr{IP: net.IPv4zero, Port: 8333}
	return wire.NewMsgVersion(wire.ProtocolVersion, 0, addr, addr, 1, "/remote:0.0.1/", 0)
}

func TestHandshakeSucceedsOnSymmetricExchange(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	sess := peer.NewSession(local, testConfig())

	done := make(chan error, 1)
	go func() { done <- sess.Handshake(0xdead) }()

	// Drain our outbound Version.
	_, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)

	// Reply with our own Version; the session answers with Verack
	// automatically before we've sent ours.
	require.NoError(t, wire.WriteMessage(remote, remoteVersion(), wire.ProtocolVersion, wire.MainNet))

	msg, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)
	require.IsType(t, &wire.MsgVerAck{}, msg)

	require.NoError(t, wire.WriteMessage(remote, &wire.MsgVerAck{}, wire.ProtocolVersion, wire.MainNet))

	require.NoError(t, <-done)
}

func TestHandshakeViolationOnUnexpectedFrame(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	sess := peer.NewSession(local, testConfig())

	done := make(chan error, 1)
	go func() { done <- sess.Handshake(0xdead) }()

	_, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)

	// Send a Ping instead of a Version: a handshake violation.
	require.NoError(t, wire.WriteMessage(remote, &wire.MsgPing{Nonce: 1}, wire.ProtocolVersion, wire.MainNet))

	err = <-done
	require.ErrorIs(t, err, peer.ErrHandshakeViolation)
}

func TestHandshakeTimesOutWithoutReply(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	cfg := testConfig()
	cfg.HandshakeTimeout = 50 * time.Millisecond
	sess := peer.NewSession(local, cfg)

	done := make(chan error, 1)
	go func() { done <- sess.Handshake(0xdead) }()

	// Drain the outbound Version but never reply.
	_, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("handshake did not time out")
	}
}

// handshakeAndStart drives a successful handshake on an in-process pipe
// and starts the session's I/O goroutines, returning the session and the
// remote end of the pipe for the test to drive further.
func handshakeAndStart(t *testing.T) (*peer.Session, net.Conn) {
	t.Helper()
	local, remote := net.Pipe()

	sess := peer.NewSession(local, testConfig())
	done := make(chan error, 1)
	go func() { done <- sess.Handshake(0xdead) }()

	_, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)
	require.NoError(t, wire.WriteMessage(remote, remoteVersion(), wire.ProtocolVersion, wire.MainNet))
	msg, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)
	require.IsType(t, &wire.MsgVerAck{}, msg)
	require.NoError(t, wire.WriteMessage(remote, &wire.MsgVerAck{}, wire.ProtocolVersion, wire.MainNet))
	require.NoError(t, <-done)

	sess.Start()
	return sess, remote
}

func TestPingAnsweredRegardlessOfState(t *testing.T) {
	sess, remote := handshakeAndStart(t)
	defer sess.Shutdown()
	defer remote.Close()

	require.NoError(t, wire.WriteMessage(remote, &wire.MsgPing{Nonce: 0x99}, wire.ProtocolVersion, wire.MainNet))

	msg, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
	require.NoError(t, err)
	pong, ok := msg.(*wire.MsgPong)
	require.True(t, ok)
	require.Equal(t, uint64(0x99), pong.Nonce)
}

func hashOf(b byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = b
	return h
}

// TestBlocksByHashDropsUnrequestedAndCompletesOnWantedSet exercises the
// collection scenario: a request for {h1, h2} receives Block(h1),
// Block(h3), Block(h2) in that order and must yield exactly
// [Block(h1), Block(h2)], dropping the unrequested h3.
func TestBlocksByHashDropsUnrequestedAndCompletesOnWantedSet(t *testing.T) {
	sess, remote := handshakeAndStart(t)
	defer sess.Shutdown()
	defer remote.Close()

	blockFor := func(n byte) *wire.MsgBlock {
		cb := coinbaseWithNonce(n)
		// A single-transaction block's merkle root is that transaction's
		// own hash, so no merkle helper is needed here.
		root := cb.TxHash()
		hdr := wire.NewBlockHeader(1, &chainhash.Hash{}, &root, 0x1d00ffff, uint32(n))
		return &wire.MsgBlock{Header: *hdr, Transactions: []*wire.MsgTx{cb}}
	}

	block1, block2, block3 := blockFor(1), blockFor(2), blockFor(3)
	h1, h2 := block1.BlockHash(), block2.BlockHash()
	want := map[chainhash.Hash]struct{}{h1: {}, h2: {}}

	reply := make(chan peer.Response, 1)
	req := &peer.Request{
		Kind:       peer.StateAwaitingBlocks,
		WantBlocks: want,
		Reply:      reply,
	}
	require.NoError(t, sess.IssueRequest(req))

	require.NoError(t, wire.WriteMessage(remote, block1, wire.ProtocolVersion, wire.MainNet))
	require.NoError(t, wire.WriteMessage(remote, block3, wire.ProtocolVersion, wire.MainNet))
	require.NoError(t, wire.WriteMessage(remote, block2, wire.ProtocolVersion, wire.MainNet))

	select {
	case resp := <-reply:
		require.NoError(t, resp.Err)
		require.Len(t, resp.Blocks, 2)
		require.Equal(t, h1, resp.Blocks[0].BlockHash())
		require.Equal(t, h2, resp.Blocks[1].BlockHash())
	case <-time.After(2 * time.Second):
		t.Fatal("request never completed")
	}

	require.Equal(t, peer.StateReady, sess.State())
}

func coinbaseWithNonce(n byte) *wire.MsgTx {
	return &wire.MsgTx{
		Version: 1,
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Hash: chainhash.Hash{}, Index: math.MaxUint32},
			SignatureScript:  []byte{n},
			Sequence:         0xffffffff,
		}},
		TxOut: []*wire.TxOut{{Value: 1, PkScript: []byte{0x51}}},
	}
}

func TestDroppedCallerDoesNotDeadlockSession(t *testing.T) {
	sess, remote := handshakeAndStart(t)
	defer sess.Shutdown()
	defer remote.Close()

	cancel := make(chan struct{})
	reply := make(chan peer.Response, 1)
	req := &peer.Request{
		Kind:       peer.StateAwaitingBlocks,
		WantBlocks: map[chainhash.Hash]struct{}{hashOf(9): {}},
		Reply:      reply,
		Cancel:     cancel,
	}
	require.NoError(t, sess.IssueRequest(req))
	close(cancel)

	select {
	case resp := <-reply:
		require.True(t, errors.Is(resp.Err, peer.ErrCancelled))
	case <-time.After(2 * time.Second):
		t.Fatal("request was never resolved after caller dropped out")
	}

	// A future request must still be issuable: the slot wasn't leaked.
	reply2 := make(chan peer.Response, 1)
	req2 := &peer.Request{Kind: peer.StateAwaitingHeaders, Reply: reply2}
	require.NoError(t, sess.IssueRequest(req2))
}
