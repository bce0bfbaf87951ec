package registry

import (
	"testing"
	"time"

	"github.com/grantHarris/pdjl/internal/wire"
)

func TestSeenEmitsSeenOnFirstObservation(t *testing.T) {
	r := New(time.Second)
	now := time.Now()

	evt := r.Seen(wire.DeviceInfo{DeviceNumber: 1, DeviceName: "CDJ-1"}, now)
	if evt.Kind != EventSeen {
		t.Fatalf("Kind = %v, want EventSeen", evt.Kind)
	}
}

func TestSeenEmitsUpdatedOnAttributeChange(t *testing.T) {
	r := New(time.Second)
	now := time.Now()

	r.Seen(wire.DeviceInfo{DeviceNumber: 1, DeviceName: "CDJ-1"}, now)
	evt := r.Seen(wire.DeviceInfo{DeviceNumber: 1, DeviceName: "CDJ-1-renamed"}, now.Add(time.Millisecond))
	if evt.Kind != EventUpdated {
		t.Fatalf("Kind = %v, want EventUpdated", evt.Kind)
	}
}

func TestSeenEmitsNoneWhenUnchanged(t *testing.T) {
	r := New(time.Second)
	now := time.Now()
	info := wire.DeviceInfo{DeviceNumber: 1, DeviceName: "CDJ-1"}

	r.Seen(info, now)
	evt := r.Seen(info, now.Add(time.Millisecond))
	if evt.Kind != EventNone {
		t.Fatalf("Kind = %v, want EventNone", evt.Kind)
	}
}

func TestPruneExpiresAndErases(t *testing.T) {
	timeout := 10 * time.Millisecond
	r := New(timeout)
	start := time.Now()

	r.Seen(wire.DeviceInfo{DeviceNumber: 1}, start)

	events := r.Prune(start.Add(timeout))
	if len(events) != 1 || events[0].Kind != EventExpired {
		t.Fatalf("Prune at timeout = %+v, want one EventExpired", events)
	}

	if _, ok := r.Get(1); !ok {
		t.Fatalf("record erased too early")
	}

	events = r.Prune(start.Add(11 * timeout))
	if len(events) != 0 {
		t.Fatalf("Prune at 11x timeout emitted events: %+v", events)
	}
	if _, ok := r.Get(1); ok {
		t.Fatalf("record not erased after 10x timeout")
	}
}

func TestSeenReactivatesInactiveRecordAsSeen(t *testing.T) {
	timeout := 10 * time.Millisecond
	r := New(timeout)
	start := time.Now()

	r.Seen(wire.DeviceInfo{DeviceNumber: 1}, start)
	r.Prune(start.Add(timeout))

	evt := r.Seen(wire.DeviceInfo{DeviceNumber: 1}, start.Add(2*timeout))
	if evt.Kind != EventSeen {
		t.Fatalf("Kind = %v, want EventSeen on reactivation", evt.Kind)
	}
}
