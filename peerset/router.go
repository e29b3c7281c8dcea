// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peerset

import (
	"errors"
	"math/rand"
	"net"
	"time"

	"github.com/nodewarp/warp/chaincfg/chainhash"
	"github.com/nodewarp/warp/peer"
	"github.com/nodewarp/warp/wire"
)

// The request/response/error vocabulary exposed to callers, per the
// specification's external service interface.

// RequestKind discriminates a NetworkRequest.
type RequestKind int

const (
	ReqPeers RequestKind = iota
	ReqBlocksByHash
	ReqTransactionsByHash
	ReqHeaders
	ReqPushTransaction
	ReqAdvertiseTransactions
	ReqAdvertiseBlock
	ReqMempool
)

// NetworkRequest is a caller's request to the router.
type NetworkRequest struct {
	Kind RequestKind

	Hashes  map[chainhash.Hash]struct{} // BlocksByHash, TransactionsByHash, AdvertiseTransactions, AdvertiseBlock
	Locator []chainhash.Hash            // Headers
	Max     int                         // Headers, 0 means no limit
	Tx      *wire.MsgTx                 // PushTransaction
}

// NetworkResponse is what the router hands back to a caller.
type NetworkResponse struct {
	Peers        []*wire.NetAddress
	Blocks       []*wire.MsgBlock
	Transactions []*wire.MsgTx
	Headers      []*wire.BlockHeader
}

// Sentinel NetworkErrors named by the specification.
var (
	ErrDisconnected  = errors.New("peerset: peer disconnected")
	ErrTimeout       = errors.New("peerset: request timed out")
	ErrNoSuitablePeer = errors.New("peerset: no suitable peer")
)

// RejectedError mirrors peer.RejectedError at the router boundary.
type RejectedError struct{ Reason string }

func (e *RejectedError) Error() string { return "peerset: rejected: " + e.Reason }

// readyPeer is everything the router keeps about one connected session.
type readyPeer struct {
	session *peer.Session
	load    *loadEstimator
}

// AddressBook is the subset of addrmgr.AddrManager the router needs: it
// answers Peers requests from the candidate pool when no live peer can,
// and receives addresses learned from peers' unsolicited Addr gossip.
type AddressBook interface {
	Addresses() []*wire.NetAddress
	AddAddresses(addrs []*wire.NetAddress, srcAddr *wire.NetAddress)
}

// Router is the peer-set aggregation layer. It owns the ready map, the
// per-peer load estimators and the inventory index; every mutation to
// that state happens on its single goroutine, driven by the channels
// below, so no lock is ever held across a suspension point.
type Router struct {
	maxPeers int
	addrBook AddressBook

	ready map[uint64]*readyPeer
	inv   *inventoryIndex

	requests chan routedRequest
	joins    chan *peer.Session
	leaves   chan uint64
	hints    chan peerHint
	lowWater chan struct{}
	counts   chan chan int

	lowWaterMark int
	quit         chan struct{}
}

type routedRequest struct {
	req   NetworkRequest
	reply chan routedReply
}

type routedReply struct {
	resp NetworkResponse
	err  error
}

// peerHint is one unsolicited observation forwarded from a session's
// goroutine into the router's own goroutine: inventory advertisements,
// gossiped addresses, or both.
type peerHint struct {
	peerID uint64
	peer   *peer.Session
	inv    []*wire.InvVect
	addrs  []*wire.NetAddress
}

// NewRouter returns a Router with no peers yet connected.
func NewRouter(maxPeers, lowWaterMark int, addrBook AddressBook) *Router {
	return &Router{
		maxPeers:     maxPeers,
		addrBook:     addrBook,
		ready:        make(map[uint64]*readyPeer),
		inv:          newInventoryIndex(),
		requests:     make(chan routedRequest),
		joins:        make(chan *peer.Session),
		leaves:       make(chan uint64),
		hints:        make(chan peerHint, 256),
		lowWater:     make(chan struct{}, 1),
		counts:       make(chan chan int),
		lowWaterMark: lowWaterMark,
		quit:         make(chan struct{}),
	}
}

// LowWater is the back-pressure channel the crawler watches: the router
// signals it whenever the ready set drops below lowWaterMark.
func (r *Router) LowWater() <-chan struct{} { return r.lowWater }

// Join admits a handshaked session into the ready set. Call this from the
// goroutine that completed the handshake; Join itself is safe for
// concurrent callers because it only ever talks to the router's own
// goroutine over a channel.
func (r *Router) Join(s *peer.Session) {
	select {
	case r.joins <- s:
	case <-r.quit:
	}
}

// Leave removes a session from the ready set and prunes its inventory
// entries, called when a session's owning goroutine detects disconnection.
func (r *Router) Leave(id uint64) {
	select {
	case r.leaves <- id:
	case <-r.quit:
	}
}

// Dispatch sends req into the router and blocks for its response. The
// router itself never retries against a different peer on failure,
// consistent with the specification leaving retry policy to the caller.
func (r *Router) Dispatch(req NetworkRequest) (NetworkResponse, error) {
	reply := make(chan routedReply, 1)
	select {
	case r.requests <- routedRequest{req: req, reply: reply}:
	case <-r.quit:
		return NetworkResponse{}, ErrDisconnected
	}
	select {
	case rr := <-reply:
		return rr.resp, rr.err
	case <-r.quit:
		return NetworkResponse{}, ErrDisconnected
	}
}

// Run is the router's single task; it must run in its own goroutine for
// the life of the node.
func (r *Router) Run() {
	for {
		select {
		case s := <-r.joins:
			r.handleJoin(s)
		case id := <-r.leaves:
			r.handleLeave(id)
		case h := <-r.hints:
			for _, iv := range h.inv {
				r.inv.learn(iv.Hash, h.peerID)
			}
			if len(h.addrs) > 0 && r.addrBook != nil {
				r.addrBook.AddAddresses(h.addrs, sourceNetAddress(h.peer))
			}
		case rr := <-r.requests:
			r.dispatch(rr)
		case reply := <-r.counts:
			reply <- len(r.ready)
		case <-r.quit:
			return
		}
	}
}

// Stop terminates Run and fails any further Dispatch calls.
func (r *Router) Stop() { close(r.quit) }

// ReadyCount reports how many peers are currently in the ready set. It is
// safe to call from any goroutine: like Dispatch, it round-trips through
// the router's own goroutine rather than reading r.ready directly.
func (r *Router) ReadyCount() int {
	reply := make(chan int, 1)
	select {
	case r.counts <- reply:
	case <-r.quit:
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-r.quit:
		return 0
	}
}

func (r *Router) handleJoin(s *peer.Session) {
	if len(r.ready) >= r.maxPeers {
		log.Debugf("peer %d rejected: ready set full (%d ready)", s.ID(), len(r.ready))
		s.Shutdown()
		return
	}
	r.ready[s.ID()] =&readyPeer{session: s, load: newLoadEstimator()}
	log.Debugf("peer %d joined ready set (%d ready)", s.ID(), len(r.ready))
	go r.drainHints(s)
	go r.watchDisconnect(s)
}

// watchDisconnect notifies the router when s shuts down, so the ready set
// and inventory index stay true to the invariant that both only ever
// reference currently-connected peers.
func (r *Router) watchDisconnect(s *peer.Session) {
	select {
	case <-s.Done():
		r.Leave(s.ID())
	case <-r.quit:
	}
}

// sourceNetAddress builds the address-book's "reported by" record for the
// peer that gossiped a batch of addresses. Remote services aren't tracked
// on Session beyond the handshake, so this carries zero services; the
// address book only uses it for provenance, never for dialing.
func sourceNetAddress(s *peer.Session) *wire.NetAddress {
	if tcp, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return wire.NewNetAddress(tcp, 0)
	}
	return wire.NewNetAddress(&net.TCPAddr{IP: net.IPv4zero, Port: 0}, 0)
}

func (r *Router) handleLeave(id uint64) {
	delete(r.ready, id)
	r.inv.prune(id)
	log.Debugf("peer %d left ready set (%d ready)", id, len(r.ready))
	if len(r.ready) < r.lowWaterMark {
		select {
		case r.lowWater <- struct{}{}:
		default:
		}
	}
}

// drainHints forwards unsolicited Addr/Inv observations from one session
// into the router's own goroutine for as long as it stays connected. It
// exits when the session shuts down rather than waiting on its hints
// channel to close, since a session never closes that channel itself.
func (r *Router) drainHints(s *peer.Session) {
	for {
		select {
		case h := <-s.Hints():
			if len(h.Inv) == 0 && len(h.Addrs) == 0 {
				continue
			}
			select {
			case r.hints <- peerHint{peerID: s.ID(), peer: s, inv: h.Inv, addrs: h.Addrs}:
			case <-r.quit:
				return
			}
		case <-s.Done():
			return
		case <-r.quit:
			return
		}
	}
}

// dispatch applies the §4.5 policy table. It runs on the router's own
// goroutine, the only place r.ready/r.inv are ever mutated or read, so
// peer selection here is race-free. Broadcast-style requests (which only
// enqueue non-blocking sends) are answered immediately; request/response
// requests select a target peer here and hand the actual wait off to its
// own goroutine so a slow peer cannot stall the router loop.
func (r *Router) dispatch(rr routedRequest) {
	switch rr.req.Kind {
	case ReqPeers:
		p := r.leastLoaded(nil)
		if p == nil {
			// No live peer to ask; fall back to whatever the crawler's
			// candidate book already knows about rather than failing a
			// request that has a perfectly good local answer.
			if r.addrBook != nil {
				if addrs := r.addrBook.Addresses(); len(addrs) > 0 {
					r.succeed(rr, NetworkResponse{Peers: addrs})
					return
				}
			}
			r.fail(rr, ErrNoSuitablePeer)
			return
		}
		go r.awaitPeers(p, rr)

	case ReqBlocksByHash:
		p := r.selectForHashes(rr.req.Hashes)
		if p == nil {
			r.fail(rr, ErrNoSuitablePeer)
			return
		}
		go r.awaitBlocks(p, rr.req.Hashes, rr)

	case ReqTransactionsByHash:
		p := r.selectForHashes(rr.req.Hashes)
		if p == nil {
			r.fail(rr, ErrNoSuitablePeer)
			return
		}
		go r.awaitTransactions(p, rr.req.Hashes, rr)

	case ReqHeaders:
		p := r.leastLoaded(nil)
		if p == nil {
			r.fail(rr, ErrNoSuitablePeer)
			return
		}
		go r.awaitHeaders(p, rr.req.Locator, rr.req.Max, rr)

	case ReqPushTransaction:
		for _, p := range r.ready {
			p.session.Send(rr.req.Tx)
		}
		r.succeed(rr, NetworkResponse{})

	case ReqAdvertiseTransactions:
		r.broadcastInv(rr.req.Hashes, wire.InvTypeTx)
		r.succeed(rr, NetworkResponse{})

	case ReqAdvertiseBlock:
		r.broadcastInv(rr.req.Hashes, wire.InvTypeBlock)
		r.succeed(rr, NetworkResponse{})

	case ReqMempool:
		r.sendToRandomSubset(3, &wire.MsgMemPool{})
		r.succeed(rr, NetworkResponse{})

	default:
		r.fail(rr, ErrNoSuitablePeer)
	}
}

func (r *Router) succeed(rr routedRequest, resp NetworkResponse) {
	select {
	case rr.reply <- routedReply{resp: resp}:
	default:
	}
}

func (r *Router) fail(rr routedRequest, err error) {
	log.Debugf("request %v failed: %v", rr.req.Kind, err)
	select {
	case rr.reply <- routedReply{err: err}:
	default:
	}
}

// selectForHashes picks a peer known to own one of hashes via the
// inventory index, falling back to the least-loaded ready peer.
func (r *Router) selectForHashes(hashes map[chainhash.Hash]struct{}) *readyPeer {
	if p := r.pickOwner(hashes); p != nil {
		return p
	}
	return r.leastLoaded(nil)
}

func (r *Router) broadcastInv(hashes map[chainhash.Hash]struct{}, kind wire.InvType) {
	inv := &wire.MsgInv{}
	for h := range hashes {
		if !r.inv.shouldAnnounce(h) {
			continue
		}
		hash := h
		inv.AddInvVect(wire.NewInvVect(kind, &hash))
	}
	if len(inv.InvList) == 0 {
		return
	}
	for _, p := range r.ready {
		p.session.Send(inv)
	}
}

func (r *Router) sendToRandomSubset(n int, msg wire.Message) {
	ids := make([]uint64, 0, len(r.ready))
	for id := range r.ready {
		ids = append(ids, id)
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if len(ids) > n {
		ids = ids[:n]
	}
	for _, id := range ids {
		r.ready[id].session.Send(msg)
	}
}

// pickOwner returns a ready peer known (via the inventory index) to have
// advertised at least one member of hashes, regardless of its load.
func (r *Router) pickOwner(hashes map[chainhash.Hash]struct{}) *readyPeer {
	for h := range hashes {
		for _, id := range r.inv.ownersOf(h) {
			if p, ok := r.ready[id]; ok {
				return p
			}
		}
	}
	return nil
}

// leastLoaded implements "power-of-two choices": sample two eligible
// peers and return the one with the lower load score. exclude, if
// non-nil, is skipped.
func (r *Router) leastLoaded(exclude map[uint64]struct{}) *readyPeer {
	candidates := make([]*readyPeer, 0, len(r.ready))
	for id, p := range r.ready {
		if exclude != nil {
			if _, skip := exclude[id]; skip {
				continue
			}
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	i, j := rand.Intn(len(candidates)), rand.Intn(len(candidates))
	a, b := candidates[i], candidates[j]
	if a.load.score() <= b.load.score() {
		return a
	}
	return b
}

// awaitPeers, awaitBlocks, awaitTransactions and awaitHeaders each run on
// their own goroutine (spawned from dispatch), issue one request against
// the already-selected peer p, block for its outcome, fold the outcome
// into p's load estimate, and deliver the translated result to rr.reply.
// None of them touch r.ready or r.inv.
func (r *Router) awaitPeers(p *readyPeer, rr routedRequest) {
	req := &peer.Request{Kind: peer.StateAwaitingPeers, Reply: make(chan peer.Response, 1), Cancel: closedNever}
	start := time.Now()
	if err := p.session.IssueRequest(req); err != nil {
		r.fail(rr, ErrNoSuitablePeer)
		return
	}
	p.load.issue()
	p.session.Send(&wire.MsgGetAddr{})
	resp := <-req.Reply
	record(p, start, resp.Err)
	if resp.Err != nil {
		r.fail(rr, translate(resp.Err))
		return
	}
	r.succeed(rr, NetworkResponse{Peers: resp.Peers})
}

func (r *Router) awaitBlocks(p *readyPeer, hashes map[chainhash.Hash]struct{}, rr routedRequest) {
	want := make(map[chainhash.Hash]struct{}, len(hashes))
	getData := &wire.MsgGetData{}
	for h := range hashes {
		want[h] = struct{}{}
		hash := h
		getData.AddInvVect(wire.NewInvVect(wire.InvTypeBlock, &hash))
	}
	req := &peer.Request{Kind: peer.StateAwaitingBlocks, WantBlocks: want, Reply: make(chan peer.Response, 1), Cancel: closedNever}
	start := time.Now()
	if err := p.session.IssueRequest(req); err != nil {
		r.fail(rr, ErrNoSuitablePeer)
		return
	}
	p.load.issue()
	p.session.Send(getData)
	resp := <-req.Reply
	record(p, start, resp.Err)
	if resp.Err != nil && len(resp.Blocks) == 0 {
		r.fail(rr, translate(resp.Err))
		return
	}
	r.succeed(rr, NetworkResponse{Blocks: resp.Blocks})
}

func (r *Router) awaitTransactions(p *readyPeer, hashes map[chainhash.Hash]struct{}, rr routedRequest) {
	getData := &wire.MsgGetData{}
	for h := range hashes {
		hash := h
		getData.AddInvVect(wire.NewInvVect(wire.InvTypeTx, &hash))
	}
	req := &peer.Request{Kind: peer.StateAwaitingTransactions, Reply: make(chan peer.Response, 1), Cancel: closedNever}
	start := time.Now()
	if err := p.session.IssueRequest(req); err != nil {
		r.fail(rr, ErrNoSuitablePeer)
		return
	}
	p.load.issue()
	p.session.Send(getData)
	resp := <-req.Reply
	record(p, start, resp.Err)
	if resp.Err != nil && len(resp.Transactions) == 0 {
		r.fail(rr, translate(resp.Err))
		return
	}
	r.succeed(rr, NetworkResponse{Transactions: resp.Transactions})
}

func (r *Router) awaitHeaders(p *readyPeer, locator []chainhash.Hash, max int, rr routedRequest) {
	getHeaders := wire.NewMsgGetHeaders(&chainhash.Hash{})
	for i := range locator {
		getHeaders.AddBlockLocatorHash(&locator[i])
	}
	req := &peer.Request{Kind: peer.StateAwaitingHeaders, Reply: make(chan peer.Response, 1), Cancel: closedNever}
	start := time.Now()
	if err := p.session.IssueRequest(req); err != nil {
		r.fail(rr, ErrNoSuitablePeer)
		return
	}
	p.load.issue()
	p.session.Send(getHeaders)
	resp := <-req.Reply
	record(p, start, resp.Err)
	if resp.Err != nil {
		r.fail(rr, translate(resp.Err))
		return
	}
	headers := resp.Headers
	if max > 0 && len(headers) > max {
		headers = headers[:max]
	}
	r.succeed(rr, NetworkResponse{Headers: headers})
}

// record folds a completed request's outcome into the peer's load
// estimate: a real RTT sample on success, a penalty on timeout. It always
// pairs with the issue() call made before the request was sent, so
// inFlight reflects only requests still awaiting a reply.
func record(p *readyPeer, start time.Time, err error) {
	defer p.load.complete()
	if errors.Is(err, peer.ErrRequestTimeout) {
		p.load.penalize()
		return
	}
	p.load.sample(time.Since(start))
}

func translate(err error) error {
	switch {
	case errors.Is(err, peer.ErrRequestTimeout):
		return ErrTimeout
	case errors.Is(err, peer.ErrDisconnected):
		return ErrDisconnected
	default:
		var rej *peer.RejectedError
		if errors.As(err, &rej) {
			return &RejectedError{Reason: rej.Reason}
		}
		return err
	}
}

// closedNever is a Cancel channel that never fires, used by router-issued
// requests which have no caller-side cancellation path of their own
// (Dispatch's own blocking wait stands in for it).
var closedNever = make(chan struct{})
