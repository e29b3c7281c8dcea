// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command warpd runs a standalone Bitcoin peer-to-peer node: it maintains a
// set of ready peer connections, answers their keepalives, and exposes a
// router any caller embedding this package can issue requests against. Run
// standalone it simply keeps the ready set full and logs what it sees.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/nodewarp/warp/addrmgr"
	"github.com/nodewarp/warp/crawler"
	"github.com/nodewarp/warp/peer"
	"github.com/nodewarp/warp/peerset"
	"github.com/nodewarp/warp/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "warpd:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := initLogRotator(cfg.logFile()); err != nil {
		return err
	}
	defer logRotator.Close()
	if err := setLogLevels(cfg.DebugLevel); err != nil {
		return err
	}

	if err := raiseFDLimit(); err != nil {
		peerLog.Warnf("failed to raise file descriptor limit: %v", err)
	}

	params, err := cfg.netParams()
	if err != nil {
		return err
	}

	addrMgr := addrmgr.New()
	router := peerset.NewRouter(cfg.MaxPeers, defaultLowWaterMark, addrMgr)
	go router.Run()

	sessCfg := peer.Config{
		Net:             params.Net,
		ProtocolVersion: cfg.ProtocolVersion,
		Services:        wire.ServiceFlag(cfg.Services),
		UserAgent:       cfg.UserAgent,
	}

	crawl := crawler.New(crawler.Config{
		AddrManager:     addrMgr,
		Router:          router,
		Net:             params.Net,
		ProtocolVersion: cfg.ProtocolVersion,
		Services:        wire.ServiceFlag(cfg.Services),
		UserAgent:       cfg.UserAgent,
		Proxy:           cfg.TorProxy,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go crawl.Run(ctx)

	if cfg.Connect != "" {
		go dialStatic(sessCfg, router, cfg.Connect)
	}

	var listener net.Listener
	if cfg.Listen != "off" {
		addr := cfg.listenAddr(params)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("warpd: failed to listen on %s: %w", addr, err)
		}
		peerLog.Infof("listening on %s", addr)
		go acceptLoop(listener, sessCfg, router)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	router.Stop()
	if listener != nil {
		listener.Close()
	}
	return nil
}

// acceptLoop accepts inbound connections and runs each one through the
// same Session.Handshake the crawler's dials use, which sends Version
// first regardless of which side dialed.
func acceptLoop(listener net.Listener, sessCfg peer.Config, router *peerset.Router) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		go func() {
			sess := peer.NewSession(conn, sessCfg)
			nonce := uint64(rand.Int63())
			if err := sess.Handshake(nonce); err != nil {
				peerLog.Debugf("inbound handshake with %s failed: %v", conn.RemoteAddr(), err)
				conn.Close()
				return
			}
			sess.Start()
			router.Join(sess)
		}()
	}
}

// dialStatic connects to a single operator-specified peer, bypassing the
// address book and crawler entirely.
func dialStatic(sessCfg peer.Config, router *peerset.Router, addr string) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		peerLog.Warnf("failed to connect to %s: %v", addr, err)
		return
	}
	sess := peer.NewSession(conn, sessCfg)
	nonce := uint64(rand.Int63())
	if err := sess.Handshake(nonce); err != nil {
		peerLog.Warnf("handshake with %s failed: %v", addr, err)
		conn.Close()
		return
	}
	sess.Start()
	router.Join(sess)
}
