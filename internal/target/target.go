// internal/target/target.go
package target

// Active-interrupt identifiers, as reported by the interrupt state
// register of the supported cores. These values are architectural and
// MUST NOT be remapped.
const (
	// IntrNone: no exception active; execution is synchronous.
	IntrNone uint32 = 0
	// IntrHardFault: the hard-fault vector is active.
	IntrHardFault uint32 = 3
	// IntrWatchdogEW: the watchdog early-warning interrupt is active.
	IntrWatchdogEW uint32 = 18
)

// WatchdogTimer is the raw hardware watchdog contract: exactly the
// operations the monitor needs, nothing more. Configure takes the
// period code of the doubling timeout table; the early-warning
// interrupt fires one code step before the hard timeout.
type WatchdogTimer interface {
	Configure(periodCode uint8)
	Enable()
	Disable()
	// ClearCount restarts the countdown (the "feed").
	ClearCount()
	// ClearEarlyWarning acknowledges a pending early-warning interrupt.
	ClearEarlyWarning()
}

// Machine is the architecture-specific boundary the diagnostic engine
// runs against. Implementations exist for real silicon and for the
// simulated target used in tests; everything above this interface is
// portable logic.
type Machine interface {
	// ActiveInterrupt returns the identifier of the hardware exception
	// currently active, IntrNone when called from normal code.
	ActiveInterrupt() uint32
	// CurrentContext returns the caller's registers for a synchronous
	// capture: program counter, stack pointer, link register.
	CurrentContext() (pc, sp, lr uint32)
	// HeapTop is the current top of the heap (the program break).
	HeapTop() uint32
	// StackPointer is the current foreground stack pointer.
	StackPointer() uint32
	// Watchdog exposes the hardware watchdog timer.
	Watchdog() WatchdogTimer
	// Reset forces a system reset. On hardware this does not return.
	Reset()
}
