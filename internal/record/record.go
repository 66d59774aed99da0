// internal/record/record.go
package record

// Cause classifies a captured fault.
type Cause uint32

const (
	// CauseNone means no fault has been recorded since the region was erased.
	CauseNone Cause = 0
	// CauseUnknown is the residual bucket for captures that could not be classified.
	CauseUnknown Cause = 1
	// CauseHung means no instrumentation point was reached within the watchdog timeout.
	CauseHung Cause = 2
	// CauseHardFault means an illegal instruction or memory access was trapped.
	CauseHardFault Cause = 3
	// CauseOutOfMemory means the heap/stack margin check failed at an instrumentation point.
	CauseOutOfMemory Cause = 4
	// CauseUser is an explicit application-triggered fault.
	CauseUser Cause = 5
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "NONE"
	case CauseUnknown:
		return "UNKNOWN"
	case CauseHung:
		return "HUNG"
	case CauseHardFault:
		return "HARDFAULT"
	case CauseOutOfMemory:
		return "OUTOFMEMORY"
	case CauseUser:
		return "USER"
	}
	return "CORRUPTED"
}

// Registers is the core register dump harvested on an asynchronous fault.
// Slots 0-12 are general registers; see RegSP, RegLR, RegPC.
type Registers struct {
	R    [NumRegs]uint32
	XPSR uint32
}

// Record is everything persisted about one fault.
// Regs and Interrupt are jointly valid: both are meaningful only when
// Interrupt is non-zero (synchronous captures have no exception frame).
type Record struct {
	Cause     Cause
	Interrupt uint32
	Trace     [MaxTrace]uint32
	Regs      Registers
	Corrupted bool
	FailCount uint32
	Line      int32
	File      string
}

// TraceLen returns the logical trace length: entries up to the first
// zero, at most MaxTrace.
func (r *Record) TraceLen() int {
	for i, a := range r.Trace {
		if a == 0 {
			return i
		}
	}
	return MaxTrace
}

// HasRegisters reports whether the register dump is valid.
func (r *Record) HasRegisters() bool {
	return r.Interrupt != 0
}
