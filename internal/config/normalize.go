// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultListen     = ":9402"
	DefaultIntervalMs = 5000
	DefaultTimeoutMs  = 1000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Recovery.Listen == "" {
		cfg.Recovery.Listen = DefaultListen
	}
	if cfg.Recovery.Poll.IntervalMs == 0 {
		cfg.Recovery.Poll.IntervalMs = DefaultIntervalMs
	}

	for di := range cfg.Recovery.Devices {
		d := &cfg.Recovery.Devices[di]
		if d.TimeoutMs == 0 {
			d.TimeoutMs = DefaultTimeoutMs
		}
	}
}
