// Package pdjl implements a client library for the Pro DJ Link protocol:
// announce, beat, and status broadcast, device discovery, and tempo-master
// handoff negotiation over IPv4 UDP.
package pdjl

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/thejerf/suture/v4"

	"github.com/grantHarris/pdjl/internal/capture"
	"github.com/grantHarris/pdjl/internal/master"
	"github.com/grantHarris/pdjl/internal/pdjllog"
	"github.com/grantHarris/pdjl/internal/registry"
	"github.com/grantHarris/pdjl/internal/wire"
)

// Session owns the sockets, callbacks, and scheduling infrastructure that
// ties the wire codec, device registry, beat clock, and master-handoff
// state machine together. A Session transitions stopped -> running ->
// stopped exactly once; it is not restartable.
type Session struct {
	cfg Config

	state   *localState
	devices *registry.Registry
	master  *master.Machine
	metrics *sessionMetrics
	cb      *callbacks
	log     *pdjllog.Logger

	captureW   *capture.Writer
	captureCl  io.Closer
	replayR    *capture.Reader
	replayCl   io.Closer

	sup *suture.Supervisor

	beatConn     *net.UDPConn
	statusConn   *net.UDPConn
	deviceConn   *net.UDPConn
	announceConn *net.UDPConn

	lifecycle sync.Mutex
	started   bool
	stopped   bool
	stopFn    context.CancelFunc
	done      chan struct{}

	lastErr error
}

// NewSession constructs a Session from a validated Config. The caller must
// call cfg.Validate() (or rely on Start to do so) before Start.
func NewSession(cfg Config) *Session {
	log := pdjllog.New()
	if cfg.LogCallback != nil {
		cb := cfg.LogCallback
		log.AddHandler(pdjllog.LevelDebug, func(_ pdjllog.LogLevel, msg string) { cb(msg) })
	}

	return &Session{
		cfg:     cfg,
		state:   newLocalState(cfg, time.Now()),
		devices: registry.New(cfg.DeviceTimeout),
		master:  master.New(cfg.DeviceNumber),
		metrics: newSessionMetrics(cfg.DeviceName),
		cb:      &callbacks{},
		log:     log,
	}
}

func (s *Session) logf(format string, args ...any) {
	s.log.Infof(format, args...)
}

// SetBeatCallback registers fn to be invoked once per received beat
// packet. A nil fn disables the callback.
func (s *Session) SetBeatCallback(fn BeatCallback) { s.cb.setBeat(fn) }

// SetStatusCallback registers fn to be invoked once per received status
// packet.
func (s *Session) SetStatusCallback(fn StatusCallback) { s.cb.setStatus(fn) }

// SetDeviceCallback registers fn to be invoked once per received
// keep-alive packet.
func (s *Session) SetDeviceCallback(fn DeviceCallback) { s.cb.setDevice(fn) }

// SetDeviceEventCallback registers fn to be invoked once per registry
// lifecycle event.
func (s *Session) SetDeviceEventCallback(fn DeviceEventCallback) { s.cb.setDeviceEvent(fn) }

// SetTempo updates the local tempo used for outgoing beat packets.
func (s *Session) SetTempo(bpm float64) { s.state.setTempo(bpm) }

// SetPitchPercent sets the local pitch from a percent value in [-100,100].
func (s *Session) SetPitchPercent(percent float64) {
	s.state.setPitchPercent(func(uint32) uint32 { return wire.PitchFromPercent(percent) })
}

// SetPlaying updates the local playing flag.
func (s *Session) SetPlaying(playing bool) { s.state.setPlaying(playing) }

// SetMaster forces the local master flag; most callers should prefer
// RequestMasterRole, which negotiates with the network instead of
// unilaterally claiming the role.
func (s *Session) SetMaster(master bool) { s.state.setMaster(master) }

// SetSynced updates the local synced flag.
func (s *Session) SetSynced(synced bool) { s.state.setSynced(synced) }

// SetBeat explicitly aligns the beat clock's anchor to the given beat
// number and beat-within-bar, effective at the current time.
func (s *Session) SetBeat(beat uint32, beatWithinBar uint8) {
	s.state.alignToBeatNumber(beat, beatWithinBar, time.Now())
}

// GetTempoMaster returns the device number of the currently known tempo
// master, and whether one is known at all.
func (s *Session) GetTempoMaster() (uint8, bool) {
	return s.master.MasterDevice()
}

// GetDevices returns a snapshot of every currently active device record.
// A device that has been pruned for inactivity no longer appears here,
// even though its record may briefly be retained internally in case it
// reappears.
func (s *Session) GetDevices() []wire.DeviceInfo {
	recs := s.devices.All()
	out := make([]wire.DeviceInfo, 0, len(recs))
	for _, r := range recs {
		if !r.Active {
			continue
		}
		out = append(out, r.Info)
	}
	return out
}

// GetDevice looks up a single device by number.
func (s *Session) GetDevice(number uint8) (wire.DeviceInfo, bool) {
	rec, ok := s.devices.Get(number)
	if !ok {
		return wire.DeviceInfo{}, false
	}
	return rec.Info, true
}

// GetLastError returns the error (if any) that caused a prior Start to
// fail, or that caused the session to stop itself (replay exhaustion or an
// oversized replay record).
func (s *Session) GetLastError() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	return s.lastErr
}

// GetMetrics returns a snapshot of the session's counters.
func (s *Session) GetMetrics() Metrics {
	return s.metrics.snapshot()
}

// MetricsRegistry exposes the session's private prometheus registry, for
// embedding into an HTTP /metrics handler.
func (s *Session) MetricsRegistry() *prometheus.Registry {
	return s.metrics.Registry()
}

func (s *Session) setLastErr(err error) {
	s.lifecycle.Lock()
	s.lastErr = err
	s.lifecycle.Unlock()
}

