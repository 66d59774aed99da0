// internal/trace/watchdog.go
package trace

import "fmt"

// StartWatchdog arms hang detection: if no Mark arrives within the
// selected timeout, the early-warning handler raises a Hung fault.
// Feeding happens through the flag Mark sets, not a hardware register
// write: the timer's synchronization is far too slow for the Mark
// call rate. Call from normal (non-interrupt) code only.
func (e *Engine) StartWatchdog(t Timeout) error {
	if !t.valid() {
		return fmt.Errorf("trace: invalid watchdog timeout code %d", uint8(t))
	}

	w := e.machine.Watchdog()
	w.Disable()
	w.Configure(uint8(t))
	w.ClearCount()
	w.Enable()

	e.state.feedRequested.Store(false)
	return nil
}

// StopWatchdog disables hang detection, for sleeps and other long
// uninstrumented stretches. Pair with a later StartWatchdog to resume
// protection. Call from normal (non-interrupt) code only.
func (e *Engine) StopWatchdog() {
	e.machine.Watchdog().Disable()
}
