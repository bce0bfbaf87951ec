// Package registry tracks the set of Pro DJ Link devices observed on the
// network: a keyed-by-device-number map with active/inactive lifecycle and
// timeout-based pruning.
package registry

import (
	"sync"
	"time"

	"github.com/grantHarris/pdjl/internal/wire"
)

// EventKind distinguishes the three registry lifecycle events.
type EventKind int

const (
	// EventNone means the mutating call produced no lifecycle event.
	EventNone EventKind = iota
	EventSeen
	EventUpdated
	EventExpired
)

// Event is returned by Seen and Prune describing the single lifecycle
// transition (if any) a call produced. The registry never invokes a
// callback itself; the caller copies Record out and dispatches it with no
// registry lock held.
type Event struct {
	Kind   EventKind
	Record Record
}

// Record is a single registry entry: the last-known device attributes plus
// whether the device is currently considered active.
type Record struct {
	Info     wire.DeviceInfo
	Active   bool
	LastSeen time.Time
}

// Registry is a map from device number to Record, guarded by a RWMutex.
// There is no teacher dependency pulled in for this: it is a plain
// in-memory map and a stdlib mutex is the idiomatic tool for that (see
// DESIGN.md).
type Registry struct {
	mu      sync.RWMutex
	records map[uint8]Record
	timeout time.Duration
}

// New creates an empty registry that considers a device expired after it
// has not been seen for timeout, and erased entirely after 10*timeout of
// continuous inactivity.
func New(timeout time.Duration) *Registry {
	return &Registry{
		records: make(map[uint8]Record),
		timeout: timeout,
	}
}

// Seen records an observation of info at time now, returning the lifecycle
// event this call produced (if any). First-ever observation or a
// inactive->active transition produces EventSeen; EventSeen always takes
// precedence over EventUpdated even when both would otherwise apply.
func (r *Registry) Seen(info wire.DeviceInfo, now time.Time) Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[info.DeviceNumber]
	rec := Record{Info: info, Active: true, LastSeen: now}

	if !ok || !existing.Active {
		r.records[info.DeviceNumber] = rec
		return Event{Kind: EventSeen, Record: rec}
	}

	changed := existing.Info != info
	r.records[info.DeviceNumber] = rec
	if changed {
		return Event{Kind: EventUpdated, Record: rec}
	}
	return Event{Kind: EventNone, Record: rec}
}

// Prune marks records whose LastSeen is older than the registry's timeout
// as inactive (emitting EventExpired for each newly-inactive record) and
// erases records that have been inactive for more than 10x the timeout.
// Prune returns one Event per record that transitioned to Expired in this
// call; erased records produce no event.
func (r *Registry) Prune(now time.Time) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []Event
	for number, rec := range r.records {
		age := now.Sub(rec.LastSeen)
		switch {
		case rec.Active && age >= r.timeout:
			rec.Active = false
			r.records[number] = rec
			events = append(events, Event{Kind: EventExpired, Record: rec})
		case !rec.Active && age >= 10*r.timeout:
			delete(r.records, number)
		}
	}
	return events
}

// Get returns the record for a device number, if known.
func (r *Registry) Get(number uint8) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[number]
	return rec, ok
}

// All returns a snapshot slice of every currently-tracked record
// (active and inactive), safe to range over without holding the registry
// lock.
func (r *Registry) All() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out
}
