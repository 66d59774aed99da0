// internal/probe/types.go
package probe

import (
	"time"

	"github.com/tamzrod/faulttrace/internal/record"
)

// Result is a snapshot produced by one probe cycle.
type Result struct {
	DeviceID string
	At       time.Time

	// Found reports whether the region held a valid record. A device
	// that never faulted serves an erased region; that is a healthy
	// outcome, not an error.
	Found bool
	Rec   record.Record

	Err error // non-nil means the probe cycle failed
}
