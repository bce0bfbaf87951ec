package pdjl

import (
	"net"
	"time"

	"github.com/grantHarris/pdjl/internal/wire"
)

// resolveTarget returns the peer's last-known IP from the registry,
// falling back to the configured broadcast address when the peer is
// unknown.
func (s *Session) resolveTarget(device uint8) string {
	if rec, ok := s.devices.Get(device); ok && rec.Info.IPAddress != "" {
		return rec.Info.IPAddress
	}
	return s.cfg.BroadcastAddress
}

// SendBeat builds and sends a beat packet from the current local state,
// suppressing re-emission for a beat number already sent (reset by
// playing/tempo/manual-alignment changes).
func (s *Session) SendBeat() {
	snap := s.state.snapshot(time.Now())

	s.state.mu.Lock()
	if s.state.lastSentBeat == snap.Beat {
		s.state.mu.Unlock()
		return
	}
	s.state.lastSentBeat = snap.Beat
	pitch := s.state.pitch
	tempo := s.state.tempoBPM
	s.state.mu.Unlock()

	info := wire.BeatInfo{
		DeviceName:    s.cfg.DeviceName,
		DeviceNumber:  s.cfg.DeviceNumber,
		NextBeatMs:    uint32(time.Until(snap.NextBeatTime) / time.Millisecond),
		NextBarMs:     uint32(snap.BarIntervalMs),
		Pitch:         pitch,
		BPM:           uint16(tempo * 100),
		BeatWithinBar: snap.BeatWithinBar,
	}

	packet := wire.BuildBeat(info)
	s.sendBroadcast(s.beatConn, wire.PortBeat, packet)
}

// SendStatus builds and sends a status packet from the current local
// state.
func (s *Session) SendStatus() {
	now := time.Now()
	snap := s.state.snapshot(now)

	s.state.mu.Lock()
	pitch := s.state.pitch
	playing := s.state.playing
	isMaster := s.state.master
	synced := s.state.synced
	tempo := s.state.tempoBPM
	s.state.mu.Unlock()

	handoffTo := uint8(0xff)
	if target, ok := s.master.HandoffTarget(); ok {
		handoffTo = target
	}

	info := wire.StatusInfo{
		DeviceName:      s.cfg.DeviceName,
		DeviceNumber:    s.cfg.DeviceNumber,
		Playing:         playing,
		Master:          isMaster,
		Synced:          synced,
		MasterHandoffTo: handoffTo,
		Pitch:           pitch,
		BPM:             uint16(tempo * 100),
		HasBPM:          true,
		BeatNumber:      snap.Beat,
		HasBeat:         true,
		BeatWithinBar:   snap.BeatWithinBar,
	}

	packet := wire.BuildStatus(info)
	s.sendBroadcast(s.statusConn, wire.PortStatus, packet)
}

// SendSyncControl sends a sync-control command to target, addressed to its
// known IP (or broadcast if unknown).
func (s *Session) SendSyncControl(target uint8, command wire.SyncCommand) {
	packet := wire.BuildSyncControl(wire.SyncControlInfo{
		DeviceName:   s.cfg.DeviceName,
		DeviceNumber: s.cfg.DeviceNumber,
		Command:      command,
	})
	s.sendTo(s.beatConn, s.resolveTarget(target), wire.PortBeat, packet)
}

// RequestMasterRole runs the RequestMasterRole transition, emitting a
// handoff request if the state machine asks for one.
func (s *Session) RequestMasterRole() {
	action := s.master.RequestMasterRole(time.Now())
	s.performMasterAction(action)
}

// SendMasterHandoffRequest explicitly (re-)sends a handoff request to
// target, independent of the state machine's own retry schedule.
func (s *Session) SendMasterHandoffRequest(target uint8) {
	s.sendMasterHandoffRequestTo(target)
}

func (s *Session) sendMasterHandoffRequestTo(target uint8) {
	packet := wire.BuildMasterHandoffRequest(wire.MasterHandoffRequestInfo{
		DeviceName:   s.cfg.DeviceName,
		DeviceNumber: s.cfg.DeviceNumber,
	})
	s.sendTo(s.beatConn, s.resolveTarget(target), wire.PortBeat, packet)
}

func (s *Session) sendMasterHandoffResponseTo(target uint8, accepted bool) {
	packet := wire.BuildMasterHandoffResponse(wire.MasterHandoffResponseInfo{
		DeviceName:   s.cfg.DeviceName,
		DeviceNumber: s.cfg.DeviceNumber,
		Accepted:     accepted,
	})
	s.sendTo(s.beatConn, s.resolveTarget(target), wire.PortBeat, packet)
}

func (s *Session) sendBroadcast(conn *net.UDPConn, port int, packet []byte) {
	s.sendTo(conn, s.cfg.BroadcastAddress, port, packet)
}

func (s *Session) sendTo(conn *net.UDPConn, addr string, port int, packet []byte) {
	if conn == nil {
		return
	}
	n, err := sendTo(conn, addr, port, packet)
	if err != nil || n != len(packet) {
		s.metrics.incSendErrors()
		s.logf("send to %s:%d failed: %v", addr, port, err)
		return
	}
	s.metrics.incPacketsSent()
}
