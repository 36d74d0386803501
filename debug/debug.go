// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — fmt-free diagnostic logging helper
//
// Purpose:
//   - Logs infrequent error paths with one small line buffer per call.
//   - Used only in cold paths: construction failures and fault
//     diagnostics.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//   - Writes directly to fd 2, bypassing the buffered os.Stderr path.
//
// ⚠️ Never invoke in hot loops — use only in failure diagnostics.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "syscall"

// DropError logs an error without fmt, writing the line directly to
// fd 2.
//
//go:nosplit
//go:inline
func DropError(prefix string, err error) {
	if err != nil {
		writeLine(prefix + ": " + err.Error())
	} else {
		writeLine(prefix)
	}
}

// DropMessage logs a cold-path diagnostic message (the fault report is
// written through it).
//
//go:nosplit
//go:inline
func DropMessage(prefix, message string) {
	writeLine(prefix + ": " + message)
}

//go:nosplit
func writeLine(msg string) {
	b := append([]byte(msg), '\n')
	syscall.Write(2, b)
}
