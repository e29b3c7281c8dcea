// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addrmgr is the crawler's in-memory candidate address book: it
// tracks every peer address ever learned from a handshake or an Addr
// message, how recently and how reliably each one has answered, and hands
// out fresh candidates for the crawler to dial. Persistence across
// restarts is an external collaborator's responsibility; this package
// keeps state only for the life of the process.
package addrmgr

import (
	"time"

	"github.com/nodewarp/warp/wire"
)

// KnownAddress tracks information about a known network address that is
// used to determine how viable an address is as a dial candidate.
type KnownAddress struct {
	na          *wire.NetAddress
	srcAddr     *wire.NetAddress
	attempts    int
	lastattempt time.Time
	lastsuccess time.Time
	tried       bool
	refs        int
}

// NetAddress returns the underlying network address.
func (ka *KnownAddress) NetAddress() *wire.NetAddress {
	return ka.na
}

// chance returns the selection probability for a known address, in the
// range (0, 1]. It is cut to 1% for an address attempted within the last
// ten minutes and decays with the number of failed connection attempts.
func (ka *KnownAddress) chance() float64 {
	now := time.Now()
	lastAttempt := now.Sub(ka.lastattempt)

	if lastAttempt < 0 {
		lastAttempt = 0
	}

	c := 1.0

	// Very recently attempted peers are given less opportunity to be
	// selected again.
	if lastAttempt < 10*time.Minute {
		c *= 0.01
	}

	// Divide the probability by 1.5 for each failed attempt.
	for i := ka.attempts; i > 0; i-- {
		c /= 1.5
	}

	return c
}

// isBad returns true if the address is considered unreliable enough that
// it should not be offered to the crawler as a dial candidate: it has
// failed enough consecutive times recently, or has not been seen in an
// unreasonably long time.
func (ka *KnownAddress) isBad() bool {
	now := time.Now()

	if ka.lastattempt.After(now.Add(-1 * time.Minute)) {
		return false
	}

	// Not seen in over a month.
	if ka.na.Timestamp.Before(now.Add(-1 * numMissingDays * time.Hour * 24)) {
		return true
	}

	// Never succeeded and tried more than the max retries.
	if ka.lastsuccess.IsZero() && ka.attempts >= maxRetries {
		return true
	}

	// Hasn't succeeded in too long and has had too many recent tries.
	if now.Sub(ka.lastsuccess) > minBadDays*time.Hour*24 &&
		ka.attempts >= maxFailures {
		return true
	}

	return false
}

const (
	// numMissingDays bounds how long an address may go unseen before it
	// is presumed stale.
	numMissingDays = 30

	// maxFailures bounds how many recent failed attempts an address may
	// accumulate, once it has gone minBadDays without a success, before
	// it is considered bad.
	maxFailures = 10

	// minBadDays is how long without a success before maxFailures starts
	// being enforced.
	minBadDays = 7

	// maxRetries bounds attempts against an address that has never once
	// succeeded.
	maxRetries = 3
)

