// internal/trace/timeout.go
package trace

import "time"

// Timeout selects a watchdog period from the hardware's fixed table of
// doubling durations. The numeric value is the period code programmed
// into the timer; the early-warning interrupt fires one code step
// earlier.
type Timeout uint8

const (
	Timeout8ms Timeout = iota + 1
	Timeout15ms
	Timeout31ms
	Timeout62ms
	Timeout125ms
	Timeout250ms
	Timeout500ms
	Timeout1s
	Timeout2s
	Timeout4s
	Timeout8s
)

var timeoutDurations = map[Timeout]time.Duration{
	Timeout8ms:   8 * time.Millisecond,
	Timeout15ms:  15 * time.Millisecond,
	Timeout31ms:  31 * time.Millisecond,
	Timeout62ms:  62 * time.Millisecond,
	Timeout125ms: 125 * time.Millisecond,
	Timeout250ms: 250 * time.Millisecond,
	Timeout500ms: 500 * time.Millisecond,
	Timeout1s:    time.Second,
	Timeout2s:    2 * time.Second,
	Timeout4s:    4 * time.Second,
	Timeout8s:    8 * time.Second,
}

func (t Timeout) valid() bool {
	return t >= Timeout8ms && t <= Timeout8s
}

// Duration returns the nominal hard-timeout length.
func (t Timeout) Duration() time.Duration {
	return timeoutDurations[t]
}

func (t Timeout) String() string {
	d, ok := timeoutDurations[t]
	if !ok {
		return "invalid"
	}
	return d.String()
}
