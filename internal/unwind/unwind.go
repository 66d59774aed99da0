// internal/unwind/unwind.go
package unwind

import "github.com/tamzrod/faulttrace/internal/record"

// Start is the register context a backtrace begins from.
type Start struct {
	PC uint32
	SP uint32
	LR uint32
}

// Cursor is one pass of the platform unwinder. Next advances to the
// next frame; IP is the frame's instruction pointer, RegionStart the
// start address of the function containing it (0 if unknown). LR and
// SetLR expose the unwind context's link register so a caller can
// substitute a separately-harvested value when a frame lacks a usable
// saved return address.
type Cursor interface {
	Next() bool
	IP() uint32
	RegionStart() uint32
	LR() uint32
	SetLR(uint32)
}

// Unwinder begins an unwind pass from a register context.
// This is the only contract the capture path has with the platform
// unwinder; everything above it is ordinary loop logic.
type Unwinder interface {
	Begin(Start) Cursor
}

// Backtrace reconstructs a bounded call chain, most recent call first.
//
// savedLR is the link register harvested at exception entry, 0 when
// none exists (synchronous captures). entry is the region start of the
// program entry point; unwinding stops there because stepping past it
// is known to re-fault. The result is never empty when start carries
// any usable context: a failed first step falls back to the raw
// program counter, and a single-entry result gets savedLR appended.
func Backtrace(u Unwinder, start Start, savedLR, entry uint32) []uint32 {
	out := make([]uint32, 0, record.MaxTrace)

	out = walk(u.Begin(start), savedLR, entry, out)

	if len(out) == 0 && start.PC != 0 {
		out = append(out, start.PC)
	}
	if len(out) == 1 && savedLR != 0 {
		// The frame in which the fault hit may have no stack-saved
		// return address at all. Retry from the link register so the
		// trace does not stop after a single frame.
		retry := Start{PC: savedLR, SP: start.SP, LR: savedLR}
		out = walk(u.Begin(retry), 0, entry, out)
	}
	if len(out) == 1 && savedLR != 0 {
		out = append(out, savedLR)
	}
	return out
}

// walk drives one unwinder pass, appending to out.
// Termination: a repeated instruction pointer (after the one-shot LR
// substitution chance on the very first repeat), the trace capacity,
// or reaching the entry region.
func walk(cur Cursor, savedLR, entry uint32, out []uint32) []uint32 {
	var lastIP uint32

	for cur.Next() {
		ip := cur.IP()

		if len(out) > 0 && ip == lastIP {
			if len(out) == 1 && savedLR != 0 && savedLR != cur.LR() {
				cur.SetLR(savedLR)
				continue
			}
			break
		}

		if len(out) >= record.MaxTrace {
			break
		}

		out = append(out, ip)
		lastIP = ip

		if rs := cur.RegionStart(); entry != 0 && rs == entry {
			break
		}
	}
	return out
}
