// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/nodewarp/warp/addrmgr"
	"github.com/nodewarp/warp/crawler"
	"github.com/nodewarp/warp/peer"
	"github.com/nodewarp/warp/peerset"
)

// logRotator writes logged events to a rolling set of files capped at 10 MiB
// apiece, keeping the most recent few around. It is initialized by
// initLogRotator and must be closed on shutdown to flush any buffered data.
var logRotator *rotator.Rotator

// logWriter implements io.Writer and writes each logged event to both
// standard output and the rotating log file.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	logRotator.Write(p)
	return len(p), nil
}

// backendLog is the logging backend used to create all subsystem loggers.
var backendLog = btclog.NewBackend(logWriter{})

// subsystemLoggers maps each subsystem identifier to its logger so that
// setLogLevels can address them all by name.
var subsystemLoggers = map[string]btclog.Logger{
	"PEER": peerLog,
	"PSET": peersetLog,
	"CRWL": crawlerLog,
	"ADXM": addrmgrLog,
}

var (
	peerLog    = backendLog.Logger("PEER")
	peersetLog = backendLog.Logger("PSET")
	crawlerLog = backendLog.Logger("CRWL")
	addrmgrLog = backendLog.Logger("ADXM")
)

func init() {
	peer.UseLogger(peerLog)
	peerset.UseLogger(peersetLog)
	crawler.UseLogger(crawlerLog)
	addrmgr.UseLogger(addrmgrLog)
}

// initLogRotator initializes the logging rotator to write to logFile and
// create roll files in the same directory. It must be called before the
// package-level log variables are used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("warpd: failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("warpd: failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// setLogLevels sets the logging level for every subsystem logger to
// levelStr, which must be a string recognized by btclog.LevelFromString
// (trace, debug, info, warn, error, critical, off).
func setLogLevels(levelStr string) error {
	level, ok := btclog.LevelFromString(levelStr)
	if !ok {
		return fmt.Errorf("warpd: unknown log level %q", levelStr)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}
