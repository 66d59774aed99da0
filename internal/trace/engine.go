// internal/trace/engine.go
package trace

import (
	"errors"

	"github.com/tamzrod/faulttrace/internal/record"
	"github.com/tamzrod/faulttrace/internal/store"
	"github.com/tamzrod/faulttrace/internal/target"
	"github.com/tamzrod/faulttrace/internal/unwind"
)

// Config wires the engine to its target.
type Config struct {
	Machine  target.Machine
	Unwinder unwind.Unwinder
	Store    *store.Store

	// Entry is the region start of the program entry point. Unwinding
	// stops there; stepping past it re-faults on the supported cores.
	// 0 disables the check.
	Entry uint32

	// MinMargin is the free-memory floor in bytes: Mark faults with
	// OutOfMemory when stack-to-heap margin drops below it. Default 256.
	MinMargin int
	// MaxMargin, when non-zero, additionally faults on an implausibly
	// large margin, which indicates a corrupted program break.
	MaxMargin int
}

// Engine is the fault capture engine together with the location
// tracker and watchdog monitor state. One Engine exists per program;
// all state is statically sized and nothing here allocates after New.
type Engine struct {
	state state

	machine  target.Machine
	unwinder unwind.Unwinder
	store    *store.Store

	entry     uint32
	minMargin int64
	maxMargin int64

	// Exception state saved by HandleException before Fault runs.
	// Written only on the (single) fault path.
	excRegs record.Registers
}

// New validates the wiring. The engine is usable immediately; the
// watchdog stays off until StartWatchdog.
func New(cfg Config) (*Engine, error) {
	if cfg.Machine == nil {
		return nil, errors.New("trace: machine required")
	}
	if cfg.Unwinder == nil {
		return nil, errors.New("trace: unwinder required")
	}
	if cfg.Store == nil {
		return nil, errors.New("trace: store required")
	}
	if cfg.MinMargin == 0 {
		cfg.MinMargin = 256
	}

	return &Engine{
		machine:   cfg.Machine,
		unwinder:  cfg.Unwinder,
		store:     cfg.Store,
		entry:     cfg.Entry,
		minMargin: int64(cfg.MinMargin),
		maxMargin: int64(cfg.MaxMargin),
	}, nil
}

// SetCallback registers fn to run after a fault record is persisted,
// just before the reset. fn must not fault: there is no state left to
// capture a second failure from, and it would end in an infinite
// loop. nil clears the hook.
func (e *Engine) SetCallback(fn func()) {
	if fn == nil {
		e.state.callback.Store(nil)
		return
	}
	e.state.callback.Store(&fn)
}

// HandleException is the capture entry point both bound vectors (hard
// fault and watchdog early warning) alias to. The first-level entry
// stub has already stored r4-r11 into stub and located the exception
// frame on whichever stack was active when the exception hit;
// everything from here down is portable logic.
func (e *Engine) HandleException(stub *target.StubRegs, frame *[target.FrameWords]uint32, frameBase uint32) {
	e.excRegs = target.MergeSnapshot(stub, frame, frameBase)
	e.Fault(record.CauseUnknown)
}

// Fault is the unrecoverable diagnostic path: classify, harvest,
// unwind, persist, reset. It returns only on the one non-fault path,
// a routine watchdog feed. Not to be called from application interrupt
// handlers. A fault occurring inside Fault itself (for example in the
// user callback) is beyond recovery and ends in an infinite loop.
func (e *Engine) Fault(cause record.Cause) {
	intr := e.machine.ActiveInterrupt()

	// A watchdog early warning is only a fault if no Mark arrived
	// since the previous warning. Decide that before doing anything
	// destructive.
	if intr == target.IntrWatchdogEW {
		wdt := e.machine.Watchdog()
		wdt.ClearEarlyWarning()
		if e.state.feedRequested.CompareAndSwap(true, false) {
			wdt.ClearCount()
			return
		}
		// no feed: a real timeout, fall through and capture
	}

	// Keep the watchdog from forcing a second reset mid-capture.
	e.StopWatchdog()

	var rec record.Record
	rec.Interrupt = intr

	if intr == target.IntrNone {
		// Synchronous capture: no exception frame exists, so no
		// register snapshot; unwind the current execution context.
		pc, sp, lr := e.machine.CurrentContext()
		start := unwind.Start{PC: pc, SP: sp, LR: pc}
		copy(rec.Trace[:], unwind.Backtrace(e.unwinder, start, lr, e.entry))
	} else {
		// Asynchronous capture: the register file reconstructed at
		// exception entry is the starting context, and the unwind
		// runs over the stack the faulting code was using. The
		// context enters with LR mirroring PC; the true link register
		// goes to the unwinder separately as the substitution value.
		rec.Regs = e.excRegs
		start := unwind.Start{
			PC: e.excRegs.R[record.RegPC],
			SP: e.excRegs.R[record.RegSP],
			LR: e.excRegs.R[record.RegPC],
		}
		savedLR := e.excRegs.R[record.RegLR]
		copy(rec.Trace[:], unwind.Backtrace(e.unwinder, start, savedLR, e.entry))
	}

	if cause == record.CauseUnknown {
		switch intr {
		case target.IntrWatchdogEW:
			cause = record.CauseHung
		case target.IntrHardFault:
			cause = record.CauseHardFault
		}
	}
	rec.Cause = cause

	// If the fault landed mid-Mark the filename buffer cannot be
	// trusted; record the corruption and leave the name out.
	rec.Corrupted = e.state.writing.Load()
	rec.Line = e.state.line.Load()
	if !rec.Corrupted {
		rec.File = string(e.state.fileBuf[:e.state.fileLen])
	}

	rec.FailCount = e.store.FailCount() + 1
	// A medium failure here has no recovery path; the reset happens
	// regardless and the next boot reads whatever landed.
	_ = e.store.Write(rec)

	if cb := e.state.callback.Load(); cb != nil {
		(*cb)()
	}

	e.machine.Reset()
	// The reset request did not take. Never resume execution with
	// unknown state.
	for {
	}
}
