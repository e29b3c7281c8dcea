// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the per-network parameters a node needs before
// it can speak to a peer: the magic value that opens a handshake, the
// default TCP port, and the payload ceiling enforced by the wire codec.
// Block validation parameters (proof-of-work limits, checkpoints, soft-fork
// deployments) belong to a future chain/UTXO store and are not modeled
// here.
package chaincfg

import (
	"errors"
	"strings"

	"github.com/nodewarp/warp/wire"
)

// Params defines the network parameters a peer needs to dial, identify and
// frame messages for a given Bitcoin network.
type Params struct {
	// Name is the human-readable identifier for the network.
	Name string

	// Net is the magic value placed in every frame header.
	Net wire.BitcoinNet

	// DefaultPort is the default peer-to-peer listen port for this
	// network.
	DefaultPort string

	// MaxMessagePayload is the largest payload, in bytes, the codec will
	// accept on this network.
	MaxMessagePayload uint32
}

// MaxMessagePayload is the payload ceiling shared by all three networks,
// mirroring wire.MaxMessagePayload so the two never drift apart: this is
// the same value the codec itself enforces, just exposed on Params for
// callers that want to read it without importing wire directly.
const MaxMessagePayload = wire.MaxMessagePayload

// MainNetParams defines the network parameters for the main Bitcoin
// network.
var MainNetParams = Params{
	Name:              "mainnet",
	Net:               wire.MainNet,
	DefaultPort:       "8333",
	MaxMessagePayload: MaxMessagePayload,
}

// TestNet3Params defines the network parameters for the test Bitcoin
// network (version 3).
var TestNet3Params = Params{
	Name:              "testnet3",
	Net:               wire.TestNet3,
	DefaultPort:       "18333",
	MaxMessagePayload: MaxMessagePayload,
}

// RegressionNetParams defines the network parameters for the regression
// test Bitcoin network.
var RegressionNetParams = Params{
	Name:              "regtest",
	Net:               wire.RegTest,
	DefaultPort:       "18444",
	MaxMessagePayload: MaxMessagePayload,
}

var registeredNets = map[string]*Params{
	MainNetParams.Name:       &MainNetParams,
	TestNet3Params.Name:      &TestNet3Params,
	RegressionNetParams.Name: &RegressionNetParams,
}

// ErrUnknownNet is returned by ParamsForNet when given a network name that
// does not match one of the three registered profiles.
var ErrUnknownNet = errors.New("chaincfg: unknown network")

// ParamsForNet looks up the registered Params for a network name, accepted
// case-insensitively; "testnet" and "regression" are accepted as aliases
// for testnet3 and regtest respectively.
func ParamsForNet(name string) (*Params, error) {
	switch strings.ToLower(name) {
	case "mainnet", "main":
		return &MainNetParams, nil
	case "testnet", "testnet3":
		return &TestNet3Params, nil
	case "regtest", "regression":
		return &RegressionNetParams, nil
	}
	if p, ok := registeredNets[strings.ToLower(name)]; ok {
		return p, nil
	}
	return nil, ErrUnknownNet
}
