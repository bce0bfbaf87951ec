package pdjl

import (
	"fmt"
	"net"
	"time"

	"github.com/grantHarris/pdjl/internal/wire"
)

// ConfigError names the first configuration field Validate rejected, along
// with a human-readable reason, so callers can assert on the field
// programmatically instead of substring-matching an error string.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pdjl: config: %s: %s", e.Field, e.Message)
}

func configErr(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Config is the struct-of-values configuration for a Session. It is
// constructed once and validated before Session.Start.
type Config struct {
	// Identity.
	DeviceName   string
	DeviceNumber uint8
	DeviceType   wire.DeviceType
	MACAddress   [6]byte

	// Network endpoints.
	BindAddress      string // local interface address to bind sockets to; "" = all interfaces
	BroadcastAddress string // default 255.255.255.255

	// Beat clock parameters.
	BeatsPerBar int
	TempoBPM    float64

	// Toggles.
	SendBeats     bool
	SendStatus    bool
	SendAnnounces bool
	FollowMaster  bool

	// Intervals and timeouts.
	StatusIntervalMS           int
	AnnounceIntervalMS         int
	DevicePruneInterval        time.Duration
	DeviceTimeout              time.Duration
	MasterRequestTimeout       time.Duration
	MasterRequestRetryInterval time.Duration
	MasterRequestMaxRetries    int

	// Capture/replay, mutually exclusive.
	CaptureFile string
	ReplayFile  string

	// LogCallback receives diagnostic log lines; nil disables logging.
	LogCallback func(string)
}

// DefaultConfig returns a Config with the library's documented defaults
// applied (DeviceType defaults to CDJ); callers still need to set
// DeviceName and DeviceNumber.
func DefaultConfig() Config {
	return Config{
		DeviceType:                 wire.DeviceTypeCDJ,
		BroadcastAddress:           "255.255.255.255",
		BeatsPerBar:                4,
		TempoBPM:                   120,
		SendBeats:                  true,
		SendStatus:                 true,
		SendAnnounces:              true,
		StatusIntervalMS:           200,
		AnnounceIntervalMS:         1500,
		DevicePruneInterval:        5 * time.Second,
		DeviceTimeout:              10 * time.Second,
		MasterRequestTimeout:       5 * time.Second,
		MasterRequestRetryInterval: 500 * time.Millisecond,
		MasterRequestMaxRetries:    5,
	}
}

// Validate rejects: empty device name; device number 0; non-positive
// intervals, timeouts, or bar size; invalid IPv4 literals; simultaneous
// capture and replay paths; MasterRequestTimeout < MasterRequestRetryInterval;
// non-positive master-retry budget. It reports the first offending field.
func (c *Config) Validate() error {
	if c.DeviceName == "" {
		return configErr("DeviceName", "must not be empty")
	}
	if c.DeviceNumber == 0 {
		return configErr("DeviceNumber", "must not be 0")
	}
	if c.BeatsPerBar <= 0 {
		return configErr("BeatsPerBar", "must be positive")
	}
	if c.StatusIntervalMS <= 0 {
		return configErr("StatusIntervalMS", "must be positive")
	}
	if c.SendAnnounces && c.AnnounceIntervalMS <= 0 {
		return configErr("AnnounceIntervalMS", "must be positive")
	}
	if c.DevicePruneInterval <= 0 {
		return configErr("DevicePruneInterval", "must be positive")
	}
	if c.DeviceTimeout <= 0 {
		return configErr("DeviceTimeout", "must be positive")
	}
	if c.MasterRequestTimeout <= 0 {
		return configErr("MasterRequestTimeout", "must be positive")
	}
	if c.MasterRequestRetryInterval <= 0 {
		return configErr("MasterRequestRetryInterval", "must be positive")
	}
	if c.MasterRequestMaxRetries <= 0 {
		return configErr("MasterRequestMaxRetries", "must be positive")
	}
	if c.MasterRequestTimeout < c.MasterRequestRetryInterval {
		return configErr("MasterRequestTimeout", "must be >= MasterRequestRetryInterval")
	}
	if net.ParseIP(c.BroadcastAddress).To4() == nil {
		return configErr("BroadcastAddress", "invalid IPv4 literal %q", c.BroadcastAddress)
	}
	if c.BindAddress != "" && net.ParseIP(c.BindAddress).To4() == nil {
		return configErr("BindAddress", "invalid IPv4 literal %q", c.BindAddress)
	}
	if c.CaptureFile != "" && c.ReplayFile != "" {
		return configErr("CaptureFile", "CaptureFile and ReplayFile are mutually exclusive")
	}
	return nil
}
