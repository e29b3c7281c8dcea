// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer implements the conversation with a single remote Bitcoin
// peer: the version/verack handshake, inbound message classification,
// request/response multiplexing for the router, and orderly shutdown.
package peer

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nodewarp/warp/chaincfg/chainhash"
	"github.com/nodewarp/warp/wire"
)

// SessionState describes what a session is doing with its single
// outstanding request, if any. A session has at most one pending request
// at a time; a new request may only be issued from Ready.
type SessionState int

// The session states named by the specification.
const (
	StateReady SessionState = iota
	StateAwaitingBlocks
	StateAwaitingTransactions
	StateAwaitingPeers
	StateAwaitingHeaders
	StateConnectionClosed
)

func (s SessionState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateAwaitingBlocks:
		return "awaiting-blocks"
	case StateAwaitingTransactions:
		return "awaiting-transactions"
	case StateAwaitingPeers:
		return "awaiting-peers"
	case StateAwaitingHeaders:
		return "awaiting-headers"
	case StateConnectionClosed:
		return "connection-closed"
	default:
		return "unknown"
	}
}

// Session-level failure taxonomy. ErrHandshakeTimeout and
// ErrHandshakeViolation end a handshake; ErrRequestTimeout, ErrCancelled
// and ErrDisconnected complete a pending request. ErrBadFrame is not
// returned by this package: inHandler logs a malformed frame and keeps
// reading.
var (
	ErrHandshakeTimeout    = errors.New("peer: handshake timed out")
	ErrHandshakeViolation  = errors.New("peer: out-of-order version/verack during handshake")
	ErrRequestTimeout      = errors.New("peer: request timed out")
	ErrDisconnected        = errors.New("peer: connection closed")
	ErrCancelled           = errors.New("peer: request cancelled by caller")
	ErrBadFrame            = errors.New("peer: malformed frame")
)

// RejectedError wraps a Reject message whose originating command matched
// the pending request.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("peer: request rejected: %s", e.Reason)
}

// Request is one outstanding service request issued by the router against
// a session. Exactly one of the typed accessors on Response is meaningful,
// matching the SessionState the session moved to when the request was
// accepted.
type Request struct {
	// Kind selects which Awaiting* state the request drives the session
	// into.
	Kind SessionState

	// WantBlocks, when Kind is StateAwaitingBlocks, is the set of block
	// hashes still outstanding; entries are removed as matching Block
	// messages arrive.
	WantBlocks map[chainhash.Hash]struct{}

	// Deadline is when the request is abandoned with ErrRequestTimeout.
	Deadline time.Time

	// Reply receives exactly one Response or error before being closed.
	Reply chan Response

	// Cancel, when closed by the caller, causes the session to abandon
	// the request and return to Ready without leaking the slot.
	Cancel <-chan struct{}

	// collectedBlocks and collectedTxs accumulate partial results for
	// StateAwaitingBlocks/StateAwaitingTransactions. collectedBlocks is
	// only touched by the owning session's inHandler goroutine;
	// collectedTxs is also read by watchRequest on timeout, so both sides
	// access it under the session's stateMtx.
	collectedBlocks []*wire.MsgBlock
	collectedTxs    []*wire.MsgTx
}

// Response is what a completed request yields back to the router.
type Response struct {
	Blocks       []*wire.MsgBlock
	Transactions []*wire.MsgTx
	Peers        []*wire.NetAddress
	Headers      []*wire.BlockHeader
	Err          error
}

// InventoryHint is an unsolicited observation forwarded to the router for
// inventory-index learning: peer P advertised ownership of hash via Inv,
// or reported new addresses via Addr.
type InventoryHint struct {
	Peer      *Session
	Inv       []*wire.InvVect
	Addrs     []*wire.NetAddress
}

// Session is one peer connection: a task-like goroutine pair (inHandler,
// outHandler) owning a TCP stream, plus the state a router needs to talk
// to it.
type Session struct {
	id         uint64
	remoteAddr net.Addr
	conn       net.Conn

	net           wire.BitcoinNet
	protocolVer   uint32
	services      wire.ServiceFlag
	userAgent     string
	bestHeight    int32

	handshakeTimeout time.Duration
	requestTimeout   time.Duration
	pingInterval     time.Duration

	stateMtx sync.Mutex
	state    SessionState
	pending  *Request

	sendQueue chan wire.Message
	quit      chan struct{}
	quitOnce  sync.Once

	// hints carries unsolicited Addr/Inv observations out to the router.
	hints chan InventoryHint

	lastRecv atomic.Int64 // unix nanos
}

// Config bundles the parameters needed to run a handshake against a
// freshly dialed or accepted connection.
type Config struct {
	Net              wire.BitcoinNet
	ProtocolVersion  uint32
	Services         wire.ServiceFlag
	UserAgent        string
	BestHeight       int32
	HandshakeTimeout time.Duration
	RequestTimeout   time.Duration
	PingInterval     time.Duration
}

func (c Config) withDefaults() Config {
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.PingInterval == 0 {
		c.PingInterval = 2 * time.Minute
	}
	return c
}

var sessionSeq atomic.Uint64

// NewSession wraps an already-established TCP connection. The caller must
// call Handshake before Start.
func NewSession(conn net.Conn, cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		id:               sessionSeq.Add(1),
		remoteAddr:       conn.RemoteAddr(),
		conn:             conn,
		net:              cfg.Net,
		protocolVer:      cfg.ProtocolVersion,
		services:         cfg.Services,
		userAgent:        cfg.UserAgent,
		bestHeight:       cfg.BestHeight,
		handshakeTimeout: cfg.HandshakeTimeout,
		requestTimeout:   cfg.RequestTimeout,
		pingInterval:     cfg.PingInterval,
		state:            StateReady,
		sendQueue:        make(chan wire.Message, 64),
		quit:             make(chan struct{}),
		hints:            make(chan InventoryHint, 64),
	}
}

// ID returns the session's locally-assigned identifier.
func (s *Session) ID() uint64 { return s.id }

// RemoteAddr returns the remote end of the underlying connection.
func (s *Session) RemoteAddr() net.Addr { return s.remoteAddr }

// State returns the session's current state.
func (s *Session) State() SessionState {
	s.stateMtx.Lock()
	defer s.stateMtx.Unlock()
	return s.state
}

// Hints returns the channel the router should drain for unsolicited
// Addr/Inv observations.
func (s *Session) Hints() <-chan InventoryHint { return s.hints }

// Done returns a channel that closes once the session has shut down,
// letting an owner (the router) notice disconnection without polling.
func (s *Session) Done() <-chan struct{} { return s.quit }

// Handshake performs the Version/Verack exchange required before any
// other traffic may flow. It sends Version first, then requires a Version
// back, then exchanges Verack in both directions. Any deviation from that
// order is ErrHandshakeViolation; exceeding handshakeTimeout is
// ErrHandshakeTimeout.
func (s *Session) Handshake(nonce uint64) error {
	deadline := time.Now().Add(s.handshakeTimeout)
	s.conn.SetDeadline(deadline)
	defer s.conn.SetDeadline(time.Time{})

	local, ok := s.conn.LocalAddr().(*net.TCPAddr)
	if !ok {
		local = &net.TCPAddr{IP: net.IPv4zero, Port: 0}
	}
	remote, ok := s.remoteAddr.(*net.TCPAddr)
	if !ok {
		remote = &net.TCPAddr{IP: net.IPv4zero, Port: 0}
	}

	ours := wire.NewMsgVersion(s.protocolVer, s.services, remote, local, nonce, s.userAgent, s.bestHeight)
	if err := wire.WriteMessage(s.conn, ours, s.protocolVer, s.net); err != nil {
		return err
	}

	gotVersion, gotVerack := false, false
	for !gotVersion || !gotVerack {
		if time.Now().After(deadline) {
			return ErrHandshakeTimeout
		}
		msg, err := wire.ReadMessage(s.conn, s.protocolVer, s.net)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return ErrHandshakeTimeout
			}
			return err
		}
		switch m := msg.(type) {
		case *wire.MsgVersion:
			if gotVersion {
				return ErrHandshakeViolation
			}
			gotVersion = true
			if m.LastBlock > s.bestHeight {
				s.bestHeight = m.LastBlock
			}
			if err := wire.WriteMessage(s.conn, &wire.MsgVerAck{}, s.protocolVer, s.net); err != nil {
				return err
			}
		case *wire.MsgVerAck:
			if !gotVersion {
				return ErrHandshakeViolation
			}
			gotVerack = true
		default:
			return ErrHandshakeViolation
		}
	}
	return nil
}

// Start launches the session's I/O goroutines. It must be called exactly
// once, after a successful Handshake.
func (s *Session) Start() {
	go s.outHandler()
	go s.inHandler()
	if s.pingInterval > 0 {
		go s.pingHandler()
	}
}

// Send enqueues a frame for transmission. It blocks while the send queue
// is full and returns without enqueuing once the session has shut down;
// frames still queued at shutdown are never written.
func (s *Session) Send(msg wire.Message) {
	select {
	case s.sendQueue <- msg:
	case <-s.quit:
	}
}

// IssueRequest transitions the session from Ready into the request's Kind
// and arranges for req.Reply to receive exactly one Response. It returns
// an error immediately if the session is not Ready.
func (s *Session) IssueRequest(req *Request) error {
	s.stateMtx.Lock()
	if s.state != StateReady {
		s.stateMtx.Unlock()
		return fmt.Errorf("peer: session busy in state %s", s.state)
	}
	s.state = req.Kind
	s.pending = req
	s.stateMtx.Unlock()

	if req.Deadline.IsZero() {
		req.Deadline = time.Now().Add(s.requestTimeout)
	}
	go s.watchRequest(req)
	return nil
}

// watchRequest completes req with a timeout or cancellation error if
// neither fires before the other, returning the session to Ready.
func (s *Session) watchRequest(req *Request) {
	timer := time.NewTimer(time.Until(req.Deadline))
	defer timer.Stop()
	select {
	case <-timer.C:
		s.stateMtx.Lock()
		txs := req.collectedTxs
		s.stateMtx.Unlock()
		if req.Kind == StateAwaitingTransactions && len(txs) > 0 {
			s.completeRequest(req, Response{Transactions: txs, Err: ErrRequestTimeout})
			return
		}
		s.completeRequest(req, Response{Err: ErrRequestTimeout})
	case <-req.Cancel:
		s.completeRequest(req, Response{Err: ErrCancelled})
	case <-s.quit:
	}
}

// completeRequest delivers resp on req.Reply exactly once, if this
// session's pending request is still req, and returns the session to
// Ready.
func (s *Session) completeRequest(req *Request, resp Response) {
	s.stateMtx.Lock()
	if s.pending != req {
		s.stateMtx.Unlock()
		return
	}
	s.pending = nil
	if s.state != StateConnectionClosed {
		s.state = StateReady
	}
	s.stateMtx.Unlock()

	select {
	case req.Reply <- resp:
	default:
	}
	close(req.Reply)
}

// Shutdown completes any pending request with ErrDisconnected, closes the
// connection, and transitions the session to ConnectionClosed, a terminal
// sink for any further Send calls.
func (s *Session) Shutdown() {
	s.quitOnce.Do(func() {
		s.stateMtx.Lock()
		s.state = StateConnectionClosed
		pending := s.pending
		s.pending = nil
		s.stateMtx.Unlock()

		if pending != nil {
			select {
			case pending.Reply <- Response{Err: ErrDisconnected}:
			default:
			}
			close(pending.Reply)
		}

		close(s.quit)
		s.conn.Close()
	})
}

// outHandler serializes every queued frame to the wire in enqueue order.
func (s *Session) outHandler() {
	for {
		select {
		case msg := <-s.sendQueue:
			if err := wire.WriteMessage(s.conn, msg, s.protocolVer, s.net); err != nil {
				log.Debugf("peer %d: write error: %v", s.id, err)
				s.Shutdown()
				return
			}
		case <-s.quit:
			return
		}
	}
}

// inHandler reads frames in arrival order and classifies each one per the
// specification's §4.4 dispatch rules.
func (s *Session) inHandler() {
	defer s.Shutdown()
	for {
		msg, err := wire.ReadMessage(s.conn, s.protocolVer, s.net)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("peer %d: remote closed connection", s.id)
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) || errors.Is(err, io.ErrClosedPipe) {
				log.Debugf("peer %d: connection error: %v", s.id, err)
				return
			}
			// A malformed single frame is recoverable: wire.ReadMessage
			// already resynchronizes on the next header, so the only
			// thing to do here is log and keep going unless the
			// underlying connection itself is broken.
			log.Debugf("peer %d: frame error: %v", s.id, err)
			continue
		}
		s.lastRecv.Store(time.Now().UnixNano())
		s.handleMessage(msg)
	}
}

// handleMessage implements the classification rules from §4.4: Ping is
// always answered; unsolicited gossip goes to the router via hints;
// responses matching the pending request complete it; everything else is
// dropped.
func (s *Session) handleMessage(msg wire.Message) {
	switch m := msg.(type) {
	case *wire.MsgPing:
		s.Send(&wire.MsgPong{Nonce: m.Nonce})
		return
	case *wire.MsgPong:
		return
	case *wire.MsgAddr:
		s.emitHint(InventoryHint{Peer: s, Addrs: m.AddrList})
	case *wire.MsgInv:
		s.emitHint(InventoryHint{Peer: s, Inv: m.InvList})
	case *wire.MsgFilterAdd, *wire.MsgFilterClear, *wire.MsgFilterLoad:
		// Filter-control messages are informational only; nothing in
		// this repository applies a bloom filter server-side.
	}

	s.stateMtx.Lock()
	req := s.pending
	state := s.state
	s.stateMtx.Unlock()
	if req == nil {
		return
	}

	switch state {
	case StateAwaitingBlocks:
		if blk, ok := msg.(*wire.MsgBlock); ok {
			s.handleAwaitedBlock(req, blk)
		}
	case StateAwaitingTransactions:
		if tx, ok := msg.(*wire.MsgTx); ok {
			s.handleAwaitedTx(req, tx)
		}
	case StateAwaitingPeers:
		if addr, ok := msg.(*wire.MsgAddr); ok {
			s.completeRequest(req, Response{Peers: addr.AddrList})
		}
	case StateAwaitingHeaders:
		if hdrs, ok := msg.(*wire.MsgHeaders); ok {
			s.completeRequest(req, Response{Headers: hdrs.Headers})
		}
	}

	if rej, ok := msg.(*wire.MsgReject); ok && rej.Message == requestCommand(state) {
		s.completeRequest(req, Response{Err: &RejectedError{Reason: rej.Reason}})
	}
}

// requestCommand returns the wire command a pending request of the given
// state sent to the remote peer, so an inbound Reject can be matched
// against the request it actually answers rather than any Reject that
// happens to arrive while one is outstanding.
func requestCommand(state SessionState) string {
	switch state {
	case StateAwaitingBlocks, StateAwaitingTransactions:
		return wire.CmdGetData
	case StateAwaitingPeers:
		return wire.CmdGetAddr
	case StateAwaitingHeaders:
		return wire.CmdGetHeaders
	default:
		return ""
	}
}

func (s *Session) emitHint(h InventoryHint) {
	select {
	case s.hints <- h:
	case <-s.quit:
	default:
		// The router is expected to drain hints promptly; a full
		// channel means gossip is being produced faster than it can
		// be consumed, and it is safe to drop since the inventory
		// index is explicitly best-effort.
	}
}

// handleAwaitedBlock collects blk if its hash is still outstanding in
// req.WantBlocks, dropping it otherwise, and completes the request once
// the wanted set is exhausted.
func (s *Session) handleAwaitedBlock(req *Request, blk *wire.MsgBlock) {
	hash := blk.BlockHash()
	if _, want := req.WantBlocks[hash]; !want {
		return
	}
	delete(req.WantBlocks, hash)
	req.collectedBlocks = append(req.collectedBlocks, blk)

	if len(req.WantBlocks) == 0 {
		s.completeRequest(req, Response{Blocks: req.collectedBlocks})
	}
}

// handleAwaitedTx collects tx. Unlike blocks, transaction collection has
// no natural completion signal; the request timeout is relied upon to
// close it out, delivering whatever accumulated in the meantime.
func (s *Session) handleAwaitedTx(req *Request, tx *wire.MsgTx) {
	s.stateMtx.Lock()
	req.collectedTxs = append(req.collectedTxs, tx)
	s.stateMtx.Unlock()
}

// pingHandler sends an idle keepalive Ping after pingInterval of silence.
func (s *Session) pingHandler() {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			idle := time.Duration(time.Now().UnixNano()-s.lastRecv.Load()) * time.Nanosecond
			if idle >= s.pingInterval {
				s.Send(&wire.MsgPing{Nonce: uint64(time.Now().UnixNano())})
			}
		case <-s.quit:
			return
		}
	}
}
