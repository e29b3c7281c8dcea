// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build windows

package main

// raiseFDLimit is a no-op on platforms without a POSIX rlimit API.
func raiseFDLimit() error {
	return nil
}
