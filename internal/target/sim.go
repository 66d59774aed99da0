// internal/target/sim.go
package target

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// Sim is the deterministic simulated target used in tests. It
// implements Machine, the unwinder's Memory, and the store's Storage,
// so the whole capture path can run unmodified against it. Interrupt
// delivery is explicit: tests raise exceptions by calling the
// Trigger helpers rather than waiting on real timers.
type Sim struct {
	intr     atomic.Uint32
	heapTop  atomic.Uint32
	stackPtr atomic.Uint32

	pc, lr uint32 // synchronous capture context

	words   map[uint32]uint32
	regions map[uint32]uint32

	flash        []byte
	eraseGranule int
	progGranule  int

	wdt simWatchdog

	resetRequested atomic.Bool
}

// SimConfig sizes the simulated hardware.
type SimConfig struct {
	FlashSize    int
	EraseGranule int
	ProgGranule  int
}

// NewSim builds a simulated target with erased flash.
func NewSim(cfg SimConfig) *Sim {
	if cfg.FlashSize == 0 {
		cfg.FlashSize = 8192
	}
	if cfg.EraseGranule == 0 {
		cfg.EraseGranule = 256
	}
	if cfg.ProgGranule == 0 {
		cfg.ProgGranule = 64
	}

	flash := make([]byte, cfg.FlashSize)
	for i := range flash {
		flash[i] = 0xFF
	}

	return &Sim{
		words:        make(map[uint32]uint32),
		regions:      make(map[uint32]uint32),
		flash:        flash,
		eraseGranule: cfg.EraseGranule,
		progGranule:  cfg.ProgGranule,
	}
}

// ---- Machine ----

func (s *Sim) ActiveInterrupt() uint32 { return s.intr.Load() }

func (s *Sim) CurrentContext() (pc, sp, lr uint32) {
	return s.pc, s.stackPtr.Load(), s.lr
}

func (s *Sim) HeapTop() uint32      { return s.heapTop.Load() }
func (s *Sim) StackPointer() uint32 { return s.stackPtr.Load() }

func (s *Sim) Watchdog() WatchdogTimer { return &s.wdt }

// Reset latches the reset request and terminates the calling
// goroutine: the closest Go can get to "does not return" without
// hanging the test binary. Tests run the fault path in a goroutine
// and observe ResetRequested afterwards.
func (s *Sim) Reset() {
	s.resetRequested.Store(true)
	runtime.Goexit()
}

// ResetRequested reports whether Reset was invoked.
func (s *Sim) ResetRequested() bool { return s.resetRequested.Load() }

// ---- test controls ----

// SetActiveInterrupt fakes the interrupt state register.
func (s *Sim) SetActiveInterrupt(id uint32) { s.intr.Store(id) }

// SetHeapTop fakes the program break.
func (s *Sim) SetHeapTop(v uint32) { s.heapTop.Store(v) }

// SetStackPointer fakes the foreground stack pointer.
func (s *Sim) SetStackPointer(v uint32) { s.stackPtr.Store(v) }

// SetContext fakes the synchronous capture context.
func (s *Sim) SetContext(pc, sp, lr uint32) {
	s.pc, s.lr = pc, lr
	s.stackPtr.Store(sp)
}

// ---- stack memory (unwind.Memory) ----

// SetWord writes one word of simulated RAM.
func (s *Sim) SetWord(addr, v uint32) { s.words[addr] = v }

// PushFrame lays out one chain frame: return address at fp, caller
// frame pointer one word above.
func (s *Sim) PushFrame(fp, ret, prev uint32) {
	s.words[fp] = ret
	s.words[fp+4] = prev
}

func (s *Sim) Word(addr uint32) (uint32, bool) {
	v, ok := s.words[addr]
	return v, ok
}

// SetRegion registers a function region for the unwinder's
// entry-point stop: every ip in [start, start+size) resolves to start.
func (s *Sim) SetRegion(start, size uint32) {
	for ip := start; ip < start+size; ip += 2 {
		s.regions[ip] = start
	}
}

// RegionOf resolves an instruction pointer to its function start.
func (s *Sim) RegionOf(ip uint32) uint32 { return s.regions[ip] }

// ---- flash (store.Storage) ----

func (s *Sim) EraseGranule() int   { return s.eraseGranule }
func (s *Sim) ProgramGranule() int { return s.progGranule }

func (s *Sim) Erase(off, n int) error {
	if off%s.eraseGranule != 0 || n%s.eraseGranule != 0 {
		return fmt.Errorf("sim: unaligned erase off=%d n=%d", off, n)
	}
	if off+n > len(s.flash) {
		return fmt.Errorf("sim: erase past end off=%d n=%d", off, n)
	}
	for i := 0; i < n; i++ {
		s.flash[off+i] = 0xFF
	}
	return nil
}

func (s *Sim) Program(off int, p []byte) error {
	if off%s.progGranule != 0 || len(p)%s.progGranule != 0 {
		return fmt.Errorf("sim: unaligned program off=%d n=%d", off, len(p))
	}
	if off+len(p) > len(s.flash) {
		return fmt.Errorf("sim: program past end off=%d n=%d", off, len(p))
	}
	copy(s.flash[off:], p)
	return nil
}

func (s *Sim) Read(off, n int) ([]byte, error) {
	if off+n > len(s.flash) {
		return nil, fmt.Errorf("sim: read past end off=%d n=%d", off, n)
	}
	out := make([]byte, n)
	copy(out, s.flash[off:])
	return out, nil
}

// FlashBytes returns a copy of the whole simulated flash, for dump
// scanning tests.
func (s *Sim) FlashBytes() []byte {
	out := make([]byte, len(s.flash))
	copy(out, s.flash)
	return out
}

// ---- watchdog ----

// simWatchdog records programming operations; the countdown itself is
// driven by the test via Sim trigger helpers, keeping time out of the
// tests entirely.
type simWatchdog struct {
	enabled    atomic.Bool
	periodCode atomic.Uint32
	clears     atomic.Uint32
	ewClears   atomic.Uint32
}

func (w *simWatchdog) Configure(periodCode uint8) { w.periodCode.Store(uint32(periodCode)) }
func (w *simWatchdog) Enable()                    { w.enabled.Store(true) }
func (w *simWatchdog) Disable()                   { w.enabled.Store(false) }
func (w *simWatchdog) ClearCount()                { w.clears.Add(1) }
func (w *simWatchdog) ClearEarlyWarning()         { w.ewClears.Add(1) }

// WatchdogEnabled reports the simulated enable bit.
func (s *Sim) WatchdogEnabled() bool { return s.wdt.enabled.Load() }

// WatchdogPeriodCode reports the last configured period code.
func (s *Sim) WatchdogPeriodCode() uint8 { return uint8(s.wdt.periodCode.Load()) }

// WatchdogClears reports how many times the countdown was restarted.
func (s *Sim) WatchdogClears() int { return int(s.wdt.clears.Load()) }

// RunInterrupt sets the active interrupt id around fn, restoring the
// previous id when fn returns. Trigger helpers for the two bound
// vectors are built on it.
func (s *Sim) RunInterrupt(id uint32, fn func()) {
	prev := s.intr.Swap(id)
	defer s.intr.Store(prev)
	fn()
}
