package pdjl

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.DeviceName = "CDJ-3000"
	cfg.DeviceNumber = 1
	return cfg
}

func TestValidateAcceptsDefaultConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsEmptyDeviceName(t *testing.T) {
	cfg := validConfig()
	cfg.DeviceName = ""
	assertFieldError(t, cfg, "DeviceName")
}

func TestValidateRejectsDeviceNumberZero(t *testing.T) {
	cfg := validConfig()
	cfg.DeviceNumber = 0
	assertFieldError(t, cfg, "DeviceNumber")
}

func TestValidateRejectsNonPositiveBeatsPerBar(t *testing.T) {
	cfg := validConfig()
	cfg.BeatsPerBar = 0
	assertFieldError(t, cfg, "BeatsPerBar")
}

func TestValidateRejectsInvalidBroadcastAddress(t *testing.T) {
	cfg := validConfig()
	cfg.BroadcastAddress = "not-an-ip"
	assertFieldError(t, cfg, "BroadcastAddress")
}

func TestValidateRejectsSimultaneousCaptureAndReplay(t *testing.T) {
	cfg := validConfig()
	cfg.CaptureFile = "/tmp/capture.bin"
	cfg.ReplayFile = "/tmp/replay.bin"
	assertFieldError(t, cfg, "CaptureFile")
}

func TestValidateRejectsRequestTimeoutBelowRetryInterval(t *testing.T) {
	cfg := validConfig()
	cfg.MasterRequestTimeout = 100 * time.Millisecond
	cfg.MasterRequestRetryInterval = 200 * time.Millisecond
	assertFieldError(t, cfg, "MasterRequestTimeout")
}

func TestValidateRejectsNonPositiveMaxRetries(t *testing.T) {
	cfg := validConfig()
	cfg.MasterRequestMaxRetries = 0
	assertFieldError(t, cfg, "MasterRequestMaxRetries")
}

func assertFieldError(t *testing.T, cfg Config, field string) {
	t.Helper()
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("Validate() = nil, want error on field %s", field)
	}
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
	if cfgErr.Field != field {
		t.Fatalf("Field = %s, want %s", cfgErr.Field, field)
	}
}
