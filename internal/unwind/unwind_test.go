// internal/unwind/unwind_test.go
package unwind

import (
	"testing"

	"github.com/tamzrod/faulttrace/internal/record"
)

// ---- fake stack memory ----

type mapMemory map[uint32]uint32

func (m mapMemory) Word(addr uint32) (uint32, bool) {
	v, ok := m[addr]
	return v, ok
}

// frame lays out one chain frame at fp: return address, caller fp.
func frame(m mapMemory, fp, ret, prev uint32) {
	m[fp] = ret
	m[fp+4] = prev
}

func TestBacktrace_WalksFrameChain(t *testing.T) {
	mem := mapMemory{}
	frame(mem, 0x2000_0100, 0x4100, 0x2000_0120)
	frame(mem, 0x2000_0120, 0x4200, 0x2000_0140)
	frame(mem, 0x2000_0140, 0x4300, 0)

	u := &ChainUnwinder{Mem: mem}
	got := Backtrace(u, Start{PC: 0x4000, SP: 0x2000_0100, LR: 0x4000}, 0, 0)

	want := []uint32{0x4000, 0x4100, 0x4200, 0x4300}
	assertTrace(t, got, want)
}

func TestBacktrace_CapsAtCapacity(t *testing.T) {
	mem := mapMemory{}
	fp := uint32(0x2000_0000)
	for i := 0; i < 100; i++ {
		next := fp + 8
		frame(mem, fp, 0x4000+uint32(4*i), next)
		fp = next
	}

	u := &ChainUnwinder{Mem: mem}
	got := Backtrace(u, Start{PC: 0x3000, SP: 0x2000_0000, LR: 0x3000}, 0, 0)

	if len(got) != record.MaxTrace {
		t.Fatalf("trace length = %d, want %d", len(got), record.MaxTrace)
	}
}

func TestBacktrace_StopsAtRepeatedIP(t *testing.T) {
	mem := mapMemory{}
	frame(mem, 0x2000_0100, 0x4100, 0x2000_0120)
	frame(mem, 0x2000_0120, 0x4100, 0x2000_0120) // same ip, same frame forever

	u := &ChainUnwinder{Mem: mem}
	got := Backtrace(u, Start{PC: 0x4000, SP: 0x2000_0100, LR: 0x4000}, 0, 0)

	assertTrace(t, got, []uint32{0x4000, 0x4100})
}

func TestBacktrace_StopsAtEntryRegion(t *testing.T) {
	mem := mapMemory{}
	frame(mem, 0x2000_0100, 0x4100, 0x2000_0120)
	frame(mem, 0x2000_0120, 0x5000, 0x2000_0140) // inside the entry function
	frame(mem, 0x2000_0140, 0x6100, 0)           // must never be reached

	u := &ChainUnwinder{
		Mem: mem,
		RegionOf: func(ip uint32) uint32 {
			if ip >= 0x5000 && ip < 0x5100 {
				return 0x5000
			}
			return 0
		},
	}
	got := Backtrace(u, Start{PC: 0x4000, SP: 0x2000_0100, LR: 0x4000}, 0, 0x5000)

	assertTrace(t, got, []uint32{0x4000, 0x4100, 0x5000})
}

func TestBacktrace_SubstitutesSavedLR(t *testing.T) {
	// First frame has no stack-saved return address: the cursor keeps
	// reporting the faulting PC. The harvested link register must be
	// substituted exactly once so the chain continues.
	mem := mapMemory{}
	frame(mem, 0x2000_0100, 0, 0x2000_0120)
	frame(mem, 0x2000_0120, 0x4200, 0x2000_0140)
	frame(mem, 0x2000_0140, 0x4300, 0)

	u := &ChainUnwinder{Mem: mem}
	// Unwind context enters with LR mirroring PC, as the exception
	// capture path sets it; the saved LR is distinct.
	got := Backtrace(u, Start{PC: 0x4000, SP: 0x2000_0100, LR: 0x4000}, 0x4104, 0)

	assertTrace(t, got, []uint32{0x4000, 0x4104, 0x4200, 0x4300})
}

func TestBacktrace_UnreadableStack(t *testing.T) {
	// No stack memory at all: only the faulting PC survives.
	u := &ChainUnwinder{Mem: mapMemory{}}

	got := Backtrace(u, Start{PC: 0x4000}, 0, 0)
	assertTrace(t, got, []uint32{0x4000})
}

type emptyCursor struct{}

func (emptyCursor) Next() bool          { return false }
func (emptyCursor) IP() uint32          { return 0 }
func (emptyCursor) RegionStart() uint32 { return 0 }
func (emptyCursor) LR() uint32          { return 0 }
func (emptyCursor) SetLR(uint32)        {}

type emptyUnwinder struct{}

func (emptyUnwinder) Begin(Start) Cursor { return emptyCursor{} }

func TestBacktrace_RawPCFallback(t *testing.T) {
	// An unwinder whose first step refuses entirely still yields the
	// raw program counter as a one-entry trace.
	got := Backtrace(emptyUnwinder{}, Start{PC: 0x4000}, 0, 0)
	assertTrace(t, got, []uint32{0x4000})
}

func TestBacktrace_AppendsSavedLRWhenSingle(t *testing.T) {
	// One usable entry and a saved LR whose own chain goes nowhere:
	// the LR is still appended so the trace has two hops.
	u := &ChainUnwinder{Mem: mapMemory{}}

	got := Backtrace(u, Start{PC: 0x4000, SP: 0x2000_0100, LR: 0x4000}, 0x4104, 0)
	assertTrace(t, got, []uint32{0x4000, 0x4104})
}

func TestBacktrace_RawPCThenSavedLR(t *testing.T) {
	// Both fallbacks stack: a refused unwind with a harvested LR still
	// produces the two known hops.
	got := Backtrace(emptyUnwinder{}, Start{PC: 0x4000}, 0x4104, 0)
	assertTrace(t, got, []uint32{0x4000, 0x4104})
}

func TestBacktrace_NoContext(t *testing.T) {
	u := &ChainUnwinder{Mem: mapMemory{}}

	got := Backtrace(u, Start{}, 0, 0)
	if len(got) != 0 {
		t.Fatalf("expected empty trace without context, got %v", got)
	}
}

func assertTrace(t *testing.T, got, want []uint32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("trace = %#x, want %#x", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trace[%d] = %#x, want %#x (full: %#x)", i, got[i], want[i], got)
		}
	}
}
