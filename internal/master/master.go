// Package master implements the tempo-master handoff negotiation state
// machine. Machine is deliberately side-effect-free with respect to the
// network: its methods mutate internal bookkeeping and return an Action
// describing what the caller should transmit, since packet emission is an
// I/O side effect the session driver owns (see SPEC_FULL.md §4.4).
package master

import (
	"sync"
	"time"

	"github.com/grantHarris/pdjl/internal/wire"
)

// noTarget is the sentinel "no device" value used for handoffToDevice and
// absent request targets, matching the wire format's 0xff "none" byte.
const noTarget = 0xff

// ActionKind enumerates what, if anything, a Machine method wants the
// caller to transmit.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSendHandoffRequest
	ActionSendHandoffResponse
)

// Action is the side effect a Machine method is asking the caller to
// perform.
type Action struct {
	Kind     ActionKind
	Target   uint8 // device number to address
	Accepted bool  // meaningful only for ActionSendHandoffResponse
}

// Machine tracks the local view of tempo-master negotiation: which peer
// (if any) is currently master, any outstanding request we've made, and
// which peer (if any) we've promised the role to.
type Machine struct {
	mu sync.Mutex

	ourDevice uint8

	masterStatus    *wire.StatusInfo
	masterDevice    uint8 // valid only if masterStatus != nil
	handoffToDevice uint8 // noTarget = none

	requesting    bool
	requestTarget uint8
	firstAttempt  time.Time
	lastAttempt   time.Time
	attempts      int

	isMaster bool
}

// New creates a Machine for the local device identified by ourDevice.
func New(ourDevice uint8) *Machine {
	return &Machine{
		ourDevice:       ourDevice,
		handoffToDevice: noTarget,
	}
}

// IsMaster reports whether the local device currently considers itself
// tempo master.
func (m *Machine) IsMaster() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isMaster
}

// MasterDevice returns the currently known master's device number and
// whether a master is known at all.
func (m *Machine) MasterDevice() (uint8, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.masterStatus == nil {
		return 0, false
	}
	return m.masterDevice, true
}

// RequestMasterRole implements the RequestMasterRole transition: a no-op if
// we're already master; immediate self-promotion if no master is known or
// the known master is us; otherwise enters the Requesting state and asks
// the caller to send a handoff request to the known master.
func (m *Machine) RequestMasterRole(now time.Time) Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isMaster {
		return Action{Kind: ActionNone}
	}

	if m.masterStatus == nil || m.masterDevice == m.ourDevice {
		m.isMaster = true
		m.clearRequestLocked()
		return Action{Kind: ActionNone}
	}

	m.requesting = true
	m.requestTarget = m.masterDevice
	m.firstAttempt = now
	m.lastAttempt = now
	m.attempts = 1

	return Action{Kind: ActionSendHandoffRequest, Target: m.requestTarget}
}

// MaybeRetryMasterRequest implements the periodic retry/timeout check: it
// abandons an outstanding request past masterRequestTimeout, or re-emits
// the handoff request once masterRequestRetryInterval has elapsed, up to
// maxRetries attempts.
func (m *Machine) MaybeRetryMasterRequest(now time.Time, requestTimeout, retryInterval time.Duration, maxRetries int) Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.requesting {
		return Action{Kind: ActionNone}
	}

	if now.Sub(m.firstAttempt) >= requestTimeout {
		m.clearRequestLocked()
		return Action{Kind: ActionNone}
	}

	if m.attempts < maxRetries && now.Sub(m.lastAttempt) >= retryInterval {
		m.attempts++
		m.lastAttempt = now
		return Action{Kind: ActionSendHandoffRequest, Target: m.requestTarget}
	}

	return Action{Kind: ActionNone}
}

// OnStatus implements the state-machine reactions to a received status
// packet from deviceNumber: master-flag tracking, restarting an
// outstanding request at a newly-seen master, and recognizing when a
// status packet hands the master role to us. It asks the caller to send a
// handoff request only when an outstanding request was restarted at a new
// target; further attempts are left to MaybeRetryMasterRequest.
func (m *Machine) OnStatus(deviceNumber uint8, status wire.StatusInfo, now time.Time) Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	restarted := false
	if status.Master && (m.masterStatus == nil || deviceNumber != m.masterDevice) {
		if m.requesting && m.requestTarget != deviceNumber {
			m.requestTarget = deviceNumber
			m.attempts = 1
			m.firstAttempt = now
			m.lastAttempt = now
			restarted = true
		}
		statusCopy := status
		m.masterStatus = &statusCopy
		m.masterDevice = deviceNumber
	} else if status.Master {
		statusCopy := status
		m.masterStatus = &statusCopy
		m.masterDevice = deviceNumber
	}

	if status.MasterHandoffTo == m.ourDevice {
		m.isMaster = true
		m.clearRequestLocked()
	}

	if restarted && m.requesting {
		return Action{Kind: ActionSendHandoffRequest, Target: m.requestTarget}
	}

	return Action{Kind: ActionNone}
}

// OnHandoffRequest implements receipt of a master-handoff request from
// requester: if we are master, record the requester as our intended
// successor and ask the caller to send an accepted response.
func (m *Machine) OnHandoffRequest(requester uint8) Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isMaster {
		return Action{Kind: ActionSendHandoffResponse, Target: requester, Accepted: false}
	}

	m.handoffToDevice = requester
	return Action{Kind: ActionSendHandoffResponse, Target: requester, Accepted: true}
}

// OnHandoffResponse implements receipt of a master-handoff response from
// responder. Acceptance alone does not transfer the role; the transfer
// completes only when a subsequent status message points master_handoff_to
// at us (handled in OnStatus).
func (m *Machine) OnHandoffResponse(responder uint8, accepted bool) Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !accepted && m.requesting && m.requestTarget == responder {
		m.clearRequestLocked()
	}
	return Action{Kind: ActionNone}
}

// OnMasterSeenAdvertising implements the relinquishment completion: once we
// see handoffToDevice itself advertising as master, we give up our own
// master flag.
func (m *Machine) OnMasterSeenAdvertising(deviceNumber uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handoffToDevice != noTarget && m.handoffToDevice == deviceNumber {
		m.isMaster = false
		m.handoffToDevice = noTarget
	}
}

// HandoffTarget returns the device we've promised the master role to, and
// whether one is set.
func (m *Machine) HandoffTarget() (uint8, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handoffToDevice == noTarget {
		return 0, false
	}
	return m.handoffToDevice, true
}

func (m *Machine) clearRequestLocked() {
	m.requesting = false
	m.requestTarget = 0
	m.attempts = 0
}
