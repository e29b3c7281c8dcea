// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peerset is the router: the service-style facade that chooses,
// for each inbound request, which ready peer(s) to send it to. It owns the
// ready map, a per-peer EWMA load estimator, and a best-effort inventory
// index, all updated through channels from per-peer sessions rather than
// shared locking across suspension points.
package peerset

import (
	"math"
	"sync"
	"time"
)

// defaultRTT is the conservative round-trip estimate assigned to a peer
// before any real measurement exists, so the router prefers established
// peers until one forms.
const defaultRTT = 15 * time.Second

// loadDecay is the EWMA time constant: after this much wall-clock time,
// an old sample's contribution to the average has decayed by 1/e.
const loadDecay = 5 * time.Minute

// loadEstimator tracks a peer's exponentially-weighted moving average
// round-trip time plus its current in-flight request count, combined into
// a single comparable load score.
type loadEstimator struct {
	mu         sync.Mutex
	ewmaRTT    time.Duration
	lastSample time.Time
	inFlight   int
}

func newLoadEstimator() *loadEstimator {
	return &loadEstimator{ewmaRTT: defaultRTT, lastSample: time.Now()}
}

// sample folds a fresh RTT measurement into the estimate, decaying the
// weight given to the previous average by how long it has been since the
// last sample. Requests to the same peer may complete concurrently, so
// every access is guarded by the estimator's own lock rather than relying
// on the router's single-goroutine discipline.
func (l *loadEstimator) sample(rtt time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastSample)
	l.lastSample = now

	weight := math.Exp(-float64(elapsed) / float64(loadDecay))
	l.ewmaRTT = time.Duration(weight*float64(l.ewmaRTT) + (1-weight)*float64(rtt))
}

// penalize bumps the estimate upward after a timeout, without a real RTT
// sample to fold in; it self-decays on the next real sample or penalty the
// same way sample does.
func (l *loadEstimator) penalize() {
	l.mu.Lock()
	rtt := l.ewmaRTT * 2
	l.mu.Unlock()
	l.sample(rtt)
}

// issue records that a request has been sent to this peer and not yet
// completed, so score() reflects it as busier than an idle peer with the
// same RTT history until the matching complete call lands.
func (l *loadEstimator) issue() {
	l.mu.Lock()
	l.inFlight++
	l.mu.Unlock()
}

// complete undoes a prior issue once the request it corresponded to
// finishes, whether by success, rejection or timeout.
func (l *loadEstimator) complete() {
	l.mu.Lock()
	l.inFlight--
	l.mu.Unlock()
}

// score returns a single comparable load value: a lower score means a
// more attractive peer to route to.
func (l *loadEstimator) score() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(l.ewmaRTT) * float64(l.inFlight+1)
}
