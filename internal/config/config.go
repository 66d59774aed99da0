// internal/config/config.go
package config

type Config struct {
	Recovery RecoveryConfig `yaml:"recovery"`
}

type RecoveryConfig struct {
	// Listen is the bind address of the export HTTP server.
	Listen string `yaml:"listen"`

	// ELF is the firmware image for stack trace symbolization.
	// Optional: without it traces stay raw addresses.
	ELF string `yaml:"elf"`

	Poll    PollConfig     `yaml:"poll"`
	Devices []DeviceConfig `yaml:"devices"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	ID        string `yaml:"id"`
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// RegionAddress is the register address the device serves its
	// fault record region at.
	RegionAddress uint16 `yaml:"region_address"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}
