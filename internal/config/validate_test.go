// internal/config/validate_test.go
package config

import "testing"

// helper to build a device quickly
func device(id, endpoint string, unitID uint8, region uint16) DeviceConfig {
	return DeviceConfig{
		ID:            id,
		Endpoint:      endpoint,
		UnitID:        unitID,
		RegionAddress: region,
	}
}

func cfgWith(devices ...DeviceConfig) *Config {
	return &Config{
		Recovery: RecoveryConfig{
			Devices: devices,
		},
	}
}

// ---- tests ----

func TestValidate_NoOverlapDifferentEndpoints(t *testing.T) {
	cfg := cfgWith(
		device("d1", "ep1", 1, 0),
		device("d2", "ep2", 1, 0),
	)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NoOverlapDifferentUnit(t *testing.T) {
	cfg := cfgWith(
		device("d1", "ep1", 1, 0),
		device("d2", "ep1", 2, 0),
	)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_TouchingRangesAllowed(t *testing.T) {
	cfg := cfgWith(
		device("d1", "ep1", 1, 0),   // 0–255
		device("d2", "ep1", 1, 256), // 256–511
	)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_OverlapDetected(t *testing.T) {
	cfg := cfgWith(
		device("d1", "ep1", 1, 0),   // 0–255
		device("d2", "ep1", 1, 100), // 100–355 → overlap
	)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}

func TestValidate_RegionPastAddressSpace(t *testing.T) {
	cfg := cfgWith(device("d1", "ep1", 1, 0xFFF0))

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected range error, got nil")
	}
}

func TestValidate_DuplicateID(t *testing.T) {
	cfg := cfgWith(
		device("d1", "ep1", 1, 0),
		device("d1", "ep2", 1, 0),
	)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate id error, got nil")
	}
}

func TestValidate_NonASCIIID(t *testing.T) {
	cfg := cfgWith(device("d\xC3\xA9", "ep1", 1, 0))

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected ascii error, got nil")
	}
}

func TestValidate_NoDevices(t *testing.T) {
	if err := Validate(&Config{}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := cfgWith(device("d1", "ep1", 1, 0))
	Normalize(cfg)

	if cfg.Recovery.Listen != DefaultListen {
		t.Errorf("listen = %q", cfg.Recovery.Listen)
	}
	if cfg.Recovery.Poll.IntervalMs != DefaultIntervalMs {
		t.Errorf("interval = %d", cfg.Recovery.Poll.IntervalMs)
	}
	if cfg.Recovery.Devices[0].TimeoutMs != DefaultTimeoutMs {
		t.Errorf("timeout = %d", cfg.Recovery.Devices[0].TimeoutMs)
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	d := device("d1", "ep1", 1, 0)
	d.TimeoutMs = 250
	cfg := cfgWith(d)
	cfg.Recovery.Listen = ":8080"
	cfg.Recovery.Poll.IntervalMs = 100
	Normalize(cfg)

	if cfg.Recovery.Listen != ":8080" || cfg.Recovery.Poll.IntervalMs != 100 {
		t.Errorf("explicit values overwritten: %+v", cfg.Recovery)
	}
	if cfg.Recovery.Devices[0].TimeoutMs != 250 {
		t.Errorf("timeout = %d", cfg.Recovery.Devices[0].TimeoutMs)
	}
}
