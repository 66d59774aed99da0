// internal/trace/state.go
package trace

import (
	"sync/atomic"

	"github.com/tamzrod/faulttrace/internal/record"
)

// state is the process-wide block shared between foreground code and
// the bound interrupt handlers. Nothing here takes a lock: one of the
// readers is a fault handler that may be diagnosing a hang, and a
// lock would be unusable there.
//
//   - feedRequested: set by Mark, consumed by the watchdog
//     early-warning arbitration. Atomic.
//   - writing: raised around the location update. The filename buffer
//     itself is plain memory; a fault landing while writing is set
//     treats the buffer as untrustworthy and records the corruption
//     instead of reading it.
//   - line: last marked line. Atomic, recorded even for a corrupted
//     capture.
//   - fileBuf/fileLen: last marked short filename. Guarded by the
//     writing flag, read only during capture.
//   - callback: optional user hook run after the record is persisted.
type state struct {
	feedRequested atomic.Bool
	writing       atomic.Bool
	line          atomic.Int32
	callback      atomic.Pointer[func()]

	fileLen int32
	fileBuf [record.FileLen]byte
}
