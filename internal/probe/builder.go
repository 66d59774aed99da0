// internal/probe/builder.go
package probe

import (
	"time"

	cfg "github.com/tamzrod/faulttrace/internal/config"
	pmodbus "github.com/tamzrod/faulttrace/internal/probe/modbus"
)

// Build constructs a Probe for one configured device and wires the
// Modbus client lifecycle. Connection failures surface at startup;
// later transport errors show up per cycle in Result.Err.
func Build(d cfg.DeviceConfig, interval time.Duration) (*Probe, func() error, error) {
	client, err := pmodbus.New(pmodbus.Config{
		Endpoint: d.Endpoint,
		UnitID:   d.UnitID,
		Timeout:  time.Duration(d.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			DeviceID: d.ID,
			Address:  d.RegionAddress,
			Interval: interval,
		},
		client,
	)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	return p, client.Close, nil
}
