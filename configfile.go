package pdjl

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML-serializable subset of Config used by the
// example programs' --config flag; durations are expressed in
// milliseconds in the file for readability.
type fileConfig struct {
	DeviceName                   string `yaml:"device_name"`
	DeviceNumber                 uint8  `yaml:"device_number"`
	BindAddress                  string `yaml:"bind_address"`
	BroadcastAddress             string `yaml:"broadcast_address"`
	BeatsPerBar                  int    `yaml:"beats_per_bar"`
	TempoBPM                     float64 `yaml:"tempo_bpm"`
	SendBeats                    *bool  `yaml:"send_beats"`
	SendStatus                   *bool  `yaml:"send_status"`
	SendAnnounces                *bool  `yaml:"send_announces"`
	FollowMaster                 bool   `yaml:"follow_master"`
	StatusIntervalMS             int    `yaml:"status_interval_ms"`
	AnnounceIntervalMS           int    `yaml:"announce_interval_ms"`
	DevicePruneIntervalMS        int    `yaml:"device_prune_interval_ms"`
	DeviceTimeoutMS              int    `yaml:"device_timeout_ms"`
	MasterRequestTimeoutMS       int    `yaml:"master_request_timeout_ms"`
	MasterRequestRetryIntervalMS int    `yaml:"master_request_retry_interval_ms"`
	MasterRequestMaxRetries      int    `yaml:"master_request_max_retries"`
	CaptureFile                  string `yaml:"capture_file"`
	ReplayFile                   string `yaml:"replay_file"`
}

// LoadConfigFile reads a YAML configuration file into a Config, starting
// from DefaultConfig() so the file only needs to override what it cares
// about.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("pdjl: read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("pdjl: parse config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.DeviceName = fc.DeviceName
	cfg.DeviceNumber = fc.DeviceNumber
	cfg.BindAddress = fc.BindAddress
	if fc.BroadcastAddress != "" {
		cfg.BroadcastAddress = fc.BroadcastAddress
	}
	if fc.BeatsPerBar != 0 {
		cfg.BeatsPerBar = fc.BeatsPerBar
	}
	if fc.TempoBPM != 0 {
		cfg.TempoBPM = fc.TempoBPM
	}
	if fc.SendBeats != nil {
		cfg.SendBeats = *fc.SendBeats
	}
	if fc.SendStatus != nil {
		cfg.SendStatus = *fc.SendStatus
	}
	if fc.SendAnnounces != nil {
		cfg.SendAnnounces = *fc.SendAnnounces
	}
	cfg.FollowMaster = fc.FollowMaster
	if fc.StatusIntervalMS != 0 {
		cfg.StatusIntervalMS = fc.StatusIntervalMS
	}
	if fc.AnnounceIntervalMS != 0 {
		cfg.AnnounceIntervalMS = fc.AnnounceIntervalMS
	}
	if fc.DevicePruneIntervalMS != 0 {
		cfg.DevicePruneInterval = time.Duration(fc.DevicePruneIntervalMS) * time.Millisecond
	}
	if fc.DeviceTimeoutMS != 0 {
		cfg.DeviceTimeout = time.Duration(fc.DeviceTimeoutMS) * time.Millisecond
	}
	if fc.MasterRequestTimeoutMS != 0 {
		cfg.MasterRequestTimeout = time.Duration(fc.MasterRequestTimeoutMS) * time.Millisecond
	}
	if fc.MasterRequestRetryIntervalMS != 0 {
		cfg.MasterRequestRetryInterval = time.Duration(fc.MasterRequestRetryIntervalMS) * time.Millisecond
	}
	if fc.MasterRequestMaxRetries != 0 {
		cfg.MasterRequestMaxRetries = fc.MasterRequestMaxRetries
	}
	cfg.CaptureFile = fc.CaptureFile
	cfg.ReplayFile = fc.ReplayFile

	return cfg, nil
}
