// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/nodewarp/warp/chaincfg"
	"github.com/nodewarp/warp/wire"
)

const (
	defaultNetwork      = "mainnet"
	defaultUserAgent    = "bitcoin-warp"
	defaultMaxPeers     = 10
	defaultLowWaterMark = 4
	defaultDebugLevel   = "info"
	defaultLogFilename  = "warpd.log"
)

// config defines the command-line and config-file options recognized by
// warpd, following the btcsuite family's go-flags-driven config.go shape.
type config struct {
	Network         string `long:"network" description:"Network to connect to: mainnet, testnet, or regtest" default:"mainnet"`
	Listen          string `long:"listen" description:"Address to listen for inbound connections on, or \"off\" to disable listening"`
	Connect         string `long:"connect" description:"Also connect directly to this peer, bypassing the address book for that connection"`
	TorProxy        string `long:"torproxy" description:"SOCKS5 proxy address used for all outbound dials"`
	UserAgent       string `long:"useragent" description:"User agent string advertised in the version handshake" default:"bitcoin-warp"`
	ProtocolVersion uint32 `long:"protocolversion" description:"Protocol version advertised in the version handshake" default:"70015"`
	Services        uint64 `long:"services" description:"Service flag bitmask advertised in the version handshake"`
	MaxPeers        int    `long:"maxpeers" description:"Maximum number of ready peers to maintain" default:"10"`
	LogDir          string `long:"logdir" description:"Directory to write warpd.log into"`
	DebugLevel      string `long:"debuglevel" description:"Logging level: trace, debug, info, warn, error, critical, off" default:"info"`
}

// defaultConfig returns a config populated with every default value, used
// as the seed for flag parsing.
func defaultConfig() config {
	return config{
		Network:         defaultNetwork,
		UserAgent:       defaultUserAgent,
		ProtocolVersion: wire.ProtocolVersion,
		MaxPeers:        defaultMaxPeers,
		LogDir:          defaultLogDir(),
		DebugLevel:      defaultDebugLevel,
	}
}

func defaultLogDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, ".warpd", "logs")
}

// loadConfig parses the command line into a config, filling in defaults
// for anything not supplied.
func loadConfig() (*config, error) {
	cfg := defaultConfig()
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaultLogDir()
	}
	return &cfg, nil
}

// netParams resolves the configured network name into its chaincfg.Params.
func (c *config) netParams() (*chaincfg.Params, error) {
	p, err := chaincfg.ParamsForNet(c.Network)
	if err != nil {
		return nil, fmt.Errorf("warpd: %w", err)
	}
	return p, nil
}

// listenAddr returns the configured inbound listen address, defaulting to
// the network's standard port on all interfaces.
func (c *config) listenAddr(params *chaincfg.Params) string {
	if c.Listen != "" {
		return c.Listen
	}
	return ":" + params.DefaultPort
}

// logFile returns the path of the rotating log file within the configured
// log directory.
func (c *config) logFile() string {
	return filepath.Join(c.LogDir, defaultLogFilename)
}
