// internal/target/frame.go
package target

import "github.com/tamzrod/faulttrace/internal/record"

// Exception-entry stack frame slots. On exception entry the core
// pushes exactly these eight words onto the interrupted stack, in this
// order, before any handler code runs.
const (
	FrameR0 = iota
	FrameR1
	FrameR2
	FrameR3
	FrameR12
	FrameLR
	FramePC
	FrameXPSR
	// FrameWords is the number of words stacked on exception entry.
	FrameWords
)

// StubRegs is the register array filled by the first-level interrupt
// entry stub. The stub's sole contract is to store r4-r11 here before
// the core clobbers them and to pass along the stack pointer that was
// active when the exception hit; slots outside 4..11 are don't-care.
type StubRegs [record.NumRegs]uint32

// MergeSnapshot reconstructs the full pre-fault register file from its
// two sources: the exception-entry frame (r0-r3, r12, lr, pc, xpsr)
// and the entry stub's capture (r4-r11, which the frame does not
// hold). frameBase is the address the frame was stacked at; the
// pre-fault stack pointer is the frame base plus the eight stacked
// words. Pure data merge, no side effects.
func MergeSnapshot(stub *StubRegs, frame *[FrameWords]uint32, frameBase uint32) record.Registers {
	var regs record.Registers

	regs.R[0] = frame[FrameR0]
	regs.R[1] = frame[FrameR1]
	regs.R[2] = frame[FrameR2]
	regs.R[3] = frame[FrameR3]
	for i := 4; i <= 11; i++ {
		regs.R[i] = stub[i]
	}
	regs.R[12] = frame[FrameR12]
	regs.R[record.RegSP] = frameBase + 4*FrameWords
	regs.R[record.RegLR] = frame[FrameLR]
	regs.R[record.RegPC] = frame[FramePC]
	regs.XPSR = frame[FrameXPSR]

	return regs
}
