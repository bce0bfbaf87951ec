package pdjl

import (
	"sync"

	"github.com/grantHarris/pdjl/internal/registry"
	"github.com/grantHarris/pdjl/internal/wire"
)

// BeatCallback is invoked once per received beat packet.
type BeatCallback func(info wire.BeatInfo)

// StatusCallback is invoked once per received status packet.
type StatusCallback func(info wire.StatusInfo)

// DeviceCallback is invoked once per received keep-alive packet.
type DeviceCallback func(info wire.DeviceInfo)

// DeviceEventKind mirrors registry.EventKind for the public API, so
// callers don't need to import the internal registry package.
type DeviceEventKind int

const (
	DeviceSeen DeviceEventKind = iota
	DeviceUpdated
	DeviceExpired
)

func fromRegistryKind(k registry.EventKind) (DeviceEventKind, bool) {
	switch k {
	case registry.EventSeen:
		return DeviceSeen, true
	case registry.EventUpdated:
		return DeviceUpdated, true
	case registry.EventExpired:
		return DeviceExpired, true
	default:
		return 0, false
	}
}

// DeviceEvent describes a single device registry lifecycle transition.
type DeviceEvent struct {
	Kind DeviceEventKind
	Info wire.DeviceInfo
}

// DeviceEventCallback is invoked once per registry lifecycle event
// (device seen, updated, or expired).
type DeviceEventCallback func(event DeviceEvent)

// callbacks holds the current set of user-supplied callbacks, guarded by
// its own mutex. Callers copy the relevant callback out under lock and
// invoke it with no lock held, so live callback replacement never
// deadlocks against a callback that happens to be running.
type callbacks struct {
	mu           sync.Mutex
	onBeat       BeatCallback
	onStatus     StatusCallback
	onDevice     DeviceCallback
	onDeviceEvt  DeviceEventCallback
	onLog        func(string)
}

func (c *callbacks) setBeat(fn BeatCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onBeat = fn
}

func (c *callbacks) setStatus(fn StatusCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStatus = fn
}

func (c *callbacks) setDevice(fn DeviceCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDevice = fn
}

func (c *callbacks) setDeviceEvent(fn DeviceEventCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDeviceEvt = fn
}

func (c *callbacks) setLog(fn func(string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLog = fn
}

func (c *callbacks) beat() BeatCallback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onBeat
}

func (c *callbacks) status() StatusCallback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onStatus
}

func (c *callbacks) device() DeviceCallback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onDevice
}

func (c *callbacks) deviceEvent() DeviceEventCallback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onDeviceEvt
}

func (c *callbacks) log() func(string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onLog
}

// invokeBeat calls fn (if non-nil), recovering from and counting any
// panic as a callback exception rather than letting it escape onto a
// session worker goroutine.
func (s *Session) invokeBeat(fn BeatCallback, info wire.BeatInfo) {
	if fn == nil {
		return
	}
	defer s.recoverCallback()
	fn(info)
}

func (s *Session) invokeStatus(fn StatusCallback, info wire.StatusInfo) {
	if fn == nil {
		return
	}
	defer s.recoverCallback()
	fn(info)
}

func (s *Session) invokeDevice(fn DeviceCallback, info wire.DeviceInfo) {
	if fn == nil {
		return
	}
	defer s.recoverCallback()
	fn(info)
}

func (s *Session) invokeDeviceEvent(fn DeviceEventCallback, evt DeviceEvent) {
	if fn == nil {
		return
	}
	defer s.recoverCallback()
	fn(evt)
}

func (s *Session) recoverCallback() {
	if r := recover(); r != nil {
		s.metrics.incCallbackExceptions()
		s.logf("callback panic recovered: %v", r)
	}
}
