// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// CommandSize is the fixed width, in bytes, of a command tag in a message
// header: a NUL-padded ASCII string.
const CommandSize = 12

// Command names, as they appear NUL-padded on the wire.
const (
	CmdVersion     = "version"
	CmdVerack      = "verack"
	CmdGetAddr     = "getaddr"
	CmdAddr        = "addr"
	CmdGetBlocks   = "getblocks"
	CmdInv         = "inv"
	CmdGetData     = "getdata"
	CmdNotFound    = "notfound"
	CmdBlock       = "block"
	CmdTx          = "tx"
	CmdGetHeaders  = "getheaders"
	CmdHeaders     = "headers"
	CmdPing        = "ping"
	CmdPong        = "pong"
	CmdAlert       = "alert"
	CmdMemPool     = "mempool"
	CmdFilterAdd   = "filteradd"
	CmdFilterClear = "filterclear"
	CmdFilterLoad  = "filterload"
	CmdMerkleBlock = "merkleblock"
	CmdReject      = "reject"
	CmdSendHeaders = "sendheaders"
	CmdFeeFilter   = "feefilter"
	CmdSendCmpct   = "sendcmpct"
	CmdCmpctBlock  = "cmpctblock"
	CmdGetBlockTxn = "getblocktxn"
	CmdBlockTxn    = "blocktxn"
)

// commandToTag maps every known command string to its 12-byte NUL-padded
// wire tag. Populated once from the command names above so that the two
// never drift out of sync.
var commandToTag = make(map[string][CommandSize]byte, 27)

// tagToCommand is the inverse of commandToTag.
var tagToCommand = make(map[[CommandSize]byte]string, 27)

func init() {
	for _, cmd := range []string{
		CmdVersion, CmdVerack, CmdGetAddr, CmdAddr, CmdGetBlocks, CmdInv,
		CmdGetData, CmdNotFound, CmdBlock, CmdTx, CmdGetHeaders, CmdHeaders,
		CmdPing, CmdPong, CmdAlert, CmdMemPool, CmdFilterAdd, CmdFilterClear,
		CmdFilterLoad, CmdMerkleBlock, CmdReject, CmdSendHeaders, CmdFeeFilter,
		CmdSendCmpct, CmdCmpctBlock, CmdGetBlockTxn, CmdBlockTxn,
	} {
		var tag [CommandSize]byte
		copy(tag[:], cmd)
		commandToTag[cmd] = tag
		tagToCommand[tag] = cmd
	}
}

// commandTag returns the 12-byte NUL-padded wire tag for a command name.
func commandTag(cmd string) [CommandSize]byte {
	tag, ok := commandToTag[cmd]
	if !ok {
		panic("wire: unknown command " + cmd)
	}
	return tag
}

// commandFromTag returns the command name for a 12-byte wire tag, and false
// if the tag does not name one of the 27 known commands.
func commandFromTag(tag [CommandSize]byte) (string, bool) {
	cmd, ok := tagToCommand[tag]
	return cmd, ok
}
