// internal/probe/probe.go
package probe

import (
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/faulttrace/internal/record"
)

// Client abstracts the transport read the probe needs.
// The probe depends on geometry only.
type Client interface {
	// ReadRegion reads quantity registers starting at addr and
	// returns 2*quantity bytes in region byte order.
	ReadRegion(addr, quantity uint16) ([]byte, error)
}

// Config is the minimal runtime config the probe needs.
type Config struct {
	DeviceID string
	Address  uint16
	Interval time.Duration
}

// Probe is a dumb, clock-driven reader of one device's record region.
type Probe struct {
	cfg    Config
	client Client
}

// New creates a probe with immutable config.
func New(cfg Config, client Client) (*Probe, error) {
	if cfg.DeviceID == "" {
		return nil, errors.New("probe: device id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("probe: interval must be > 0")
	}
	if client == nil {
		return nil, errors.New("probe: client required")
	}
	return &Probe{cfg: cfg, client: client}, nil
}

// ProbeOnce performs exactly one probe cycle.
// All-or-nothing: a short or failed read aborts the cycle.
func (p *Probe) ProbeOnce() Result {
	res := Result{
		DeviceID: p.cfg.DeviceID,
		At:       time.Now(),
	}

	image, err := p.client.ReadRegion(p.cfg.Address, record.RegionSize/2)
	if err != nil {
		res.Err = err
		return res
	}
	if len(image) != record.RegionSize {
		res.Err = fmt.Errorf("probe: region read returned %d bytes, want %d", len(image), record.RegionSize)
		return res
	}

	res.Rec, res.Found = record.Decode(image)
	return res
}
