// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/faulttrace/internal/record"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if len(cfg.Recovery.Devices) == 0 {
		return fmt.Errorf("config: at least one device required")
	}

	// ------------------------------------------------------------
	// DEVICE IDENTITY VALIDATION
	// ------------------------------------------------------------

	seenIDs := make(map[string]struct{})

	for _, d := range cfg.Recovery.Devices {
		if d.ID == "" {
			return fmt.Errorf("device with endpoint %q: id required", d.Endpoint)
		}

		// id sanity (ASCII only, it ends up in metric labels and URLs)
		for i := 0; i < len(d.ID); i++ {
			if d.ID[i] > 0x7F {
				return fmt.Errorf(
					"device %q: id must contain ASCII characters only",
					d.ID,
				)
			}
		}

		if _, exists := seenIDs[d.ID]; exists {
			return fmt.Errorf("duplicate device id %q", d.ID)
		}
		seenIDs[d.ID] = struct{}{}

		if d.Endpoint == "" {
			return fmt.Errorf("device %q: endpoint required", d.ID)
		}

		if d.TimeoutMs < 0 {
			return fmt.Errorf("device %q: timeout_ms must be >= 0", d.ID)
		}
	}

	// ------------------------------------------------------------
	// REGION GEOMETRY VALIDATION
	// ------------------------------------------------------------

	// The record region spans RegionSize/2 registers starting at
	// region_address; two devices on the same endpoint and unit must
	// not overlap.

	type span struct {
		start  uint32
		end    uint32
		device string
	}

	const regionRegs = uint32(record.RegionSize / 2)

	spans := make(map[string][]span)

	for _, d := range cfg.Recovery.Devices {
		if uint32(d.RegionAddress)+regionRegs > 0x10000 {
			return fmt.Errorf(
				"device %q: region_address %d leaves no room for a %d-register region",
				d.ID, d.RegionAddress, regionRegs,
			)
		}

		start := uint32(d.RegionAddress)
		end := start + regionRegs - 1

		key := fmt.Sprintf("%s|%d", d.Endpoint, d.UnitID)

		for _, s := range spans[key] {
			// overlap check (inclusive)
			if !(end < s.start || start > s.end) {
				return fmt.Errorf(
					"region overlap: endpoint=%s unit_id=%d range=%d-%d overlaps with device=%s range=%d-%d",
					d.Endpoint, d.UnitID, start, end, s.device, s.start, s.end,
				)
			}
		}

		spans[key] = append(spans[key], span{
			start:  start,
			end:    end,
			device: d.ID,
		})
	}

	if cfg.Recovery.Poll.IntervalMs < 0 {
		return fmt.Errorf("config: poll interval_ms must be >= 0")
	}

	return nil
}
