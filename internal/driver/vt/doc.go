// Package vt decodes the byte stream of a VT100/xterm compatible terminal
// into console records.
//
// The decoder understands UTF-8 text, C0 control characters, ESC-prefixed
// Alt combinations, CSI and SS3 key sequences including xterm modifier
// parameters, SGR mouse reports, focus reports and bracketed paste
// markers. Incomplete input is kept until the next Feed; a lone ESC stays
// pending until Flush, since it cannot be told apart from the start of a
// sequence without a timeout.
package vt
