// internal/trace/mark.go
package trace

import (
	"runtime"
	"strings"

	"github.com/tamzrod/faulttrace/internal/record"
)

// Mark records that execution reached file:line. It runs on a hot
// path at arbitrary call depth: a handful of atomic stores, one margin
// check, no allocation, bounded time. The store order is contractual:
// feed request first, then the location update bracketed by the
// write-in-progress flag, then the margin check. file should be a
// short name; anything longer than the record's field is truncated.
//
// Mark does not return when the margin check fails: execution diverts
// into Fault with OutOfMemory.
func (e *Engine) Mark(line int32, file string) {
	e.state.feedRequested.Store(true)

	e.state.writing.Store(true)
	e.state.line.Store(line)
	n := copy(e.state.fileBuf[:record.FileLen-1], file)
	e.state.fileLen = int32(n)
	e.state.writing.Store(false)

	margin := int64(e.machine.StackPointer()) - int64(e.machine.HeapTop())
	if margin < e.minMargin || (e.maxMargin > 0 && margin > e.maxMargin) {
		e.Fault(record.CauseOutOfMemory)
	}
}

// Here is the zero-argument instrumentation statement: it marks the
// calling source location. Use at most once per source line, and
// bracket any code segment under suspicion both before and after.
func (e *Engine) Here() {
	if _, file, line, ok := runtime.Caller(1); ok {
		e.Mark(int32(line), shortFile(file))
	}
}

// shortFile keeps the last path element, bounded to the record's
// filename capacity.
func shortFile(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	if len(path) > record.FileLen-1 {
		path = path[:record.FileLen-1]
	}
	return path
}
