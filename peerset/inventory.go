// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peerset

import (
	"github.com/decred/dcrd/lru"
	"github.com/nodewarp/warp/chaincfg/chainhash"
)

// recentlyAnnouncedLimit bounds the dedupe cache used to avoid
// re-broadcasting an Inv advertisement for a hash the router already
// announced to every ready peer within the cache's retention window.
const recentlyAnnouncedLimit = 5000

// inventoryIndex is the router's single-writer/single-reader map from an
// inventory hash to the set of currently-ready peers known to have
// advertised it. It is best-effort: entries may be stale, and routing
// treats it only as a hint.
type inventoryIndex struct {
	owners    map[chainhash.Hash]map[uint64]struct{}
	announced lru.Cache
}

func newInventoryIndex() *inventoryIndex {
	return &inventoryIndex{
		owners:    make(map[chainhash.Hash]map[uint64]struct{}),
		announced: lru.NewCache(recentlyAnnouncedLimit),
	}
}

// learn records that peerID advertised hash via Inv.
func (idx *inventoryIndex) learn(hash chainhash.Hash, peerID uint64) {
	owners, ok := idx.owners[hash]
	if !ok {
		owners = make(map[uint64]struct{})
		idx.owners[hash] = owners
	}
	owners[peerID] = struct{}{}
}

// ownersOf returns the set of peer IDs known to have advertised hash. The
// returned slice is a snapshot copy safe for the caller to range over.
func (idx *inventoryIndex) ownersOf(hash chainhash.Hash) []uint64 {
	owners := idx.owners[hash]
	if len(owners) == 0 {
		return nil
	}
	out := make([]uint64, 0, len(owners))
	for id := range owners {
		out = append(out, id)
	}
	return out
}

// prune removes every entry attributed to peerID, called when the peer
// disconnects so the index never points at a dead session.
func (idx *inventoryIndex) prune(peerID uint64) {
	for hash, owners := range idx.owners {
		delete(owners, peerID)
		if len(owners) == 0 {
			delete(idx.owners, hash)
		}
	}
}

// shouldAnnounce reports whether hash has not been broadcast recently, and
// if so marks it as just having been.
func (idx *inventoryIndex) shouldAnnounce(hash chainhash.Hash) bool {
	if idx.announced.Contains(hash) {
		return false
	}
	idx.announced.Add(hash)
	return true
}
