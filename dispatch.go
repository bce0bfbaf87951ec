package pdjl

import (
	"time"

	"github.com/grantHarris/pdjl/internal/master"
	"github.com/grantHarris/pdjl/internal/registry"
	"github.com/grantHarris/pdjl/internal/wire"
)

// processPacket is the single shared dispatch entry point for every
// inbound datagram, regardless of which socket it arrived on. Capture is
// wired here so that capturing "every received packet" (spec.md §4.7)
// includes keep-alives as well as beat/status traffic, matching the
// reference implementation's RecvLoop/CapturePacket call site.
func (s *Session) processPacket(data []byte, now time.Time) {
	if s.captureW != nil {
		if err := s.captureW.Write(now, data); err != nil {
			s.logf("capture write failed: %v", err)
		}
	}

	s.metrics.incPacketsReceived()

	if !hasMagic(data) {
		s.metrics.incParseErrors()
		return
	}

	switch wire.PacketType(packetTypeByte(data)) {
	case wire.TypeBeat:
		s.handleBeat(data, now)
	case wire.TypeCDJStatus:
		s.handleStatus(data, now)
	case wire.TypeDeviceKeepAlive:
		s.handleKeepAlive(data, now)
	case wire.TypeMasterHandoffRequest:
		s.handleHandoffRequest(data)
	case wire.TypeMasterHandoffResp:
		s.handleHandoffResponse(data)
	case wire.TypeSyncControl:
		s.handleSyncControl(data)
	default:
		s.metrics.incParseErrors()
	}
}

func hasMagic(data []byte) bool {
	if len(data) < 10 {
		return false
	}
	for i, b := range wire.Header {
		if data[i] != b {
			return false
		}
	}
	return true
}

func packetTypeByte(data []byte) uint8 {
	if len(data) < 11 {
		return 0
	}
	return data[10]
}

func (s *Session) handleBeat(data []byte, now time.Time) {
	info, err := wire.ParseBeat(data)
	if err != nil {
		s.metrics.incParseErrors()
		return
	}

	if s.cfg.FollowMaster {
		if masterDev, ok := s.master.MasterDevice(); ok && masterDev == info.DeviceNumber {
			s.state.alignToBeatWithinBar(info.BeatWithinBar, now)
		}
	}

	s.invokeBeat(s.cb.beat(), info)
}

func (s *Session) handleStatus(data []byte, now time.Time) {
	info, err := wire.ParseStatus(data)
	if err != nil {
		s.metrics.incParseErrors()
		return
	}

	action := s.master.OnStatus(info.DeviceNumber, info, now)
	s.performMasterAction(action)

	if info.Master {
		s.master.OnMasterSeenAdvertising(info.DeviceNumber)
		s.syncMasterState()
	}

	if s.cfg.FollowMaster {
		if masterDev, ok := s.master.MasterDevice(); ok && masterDev == info.DeviceNumber {
			if info.HasBPM {
				s.state.setTempo(float64(info.BPM) / 100.0)
			}
			if info.HasBeat {
				s.state.alignToBeatNumber(info.BeatNumber, info.BeatWithinBar, now)
			}
			s.state.setSynced(true)
		}
	}

	s.invokeStatus(s.cb.status(), info)
}

func (s *Session) handleKeepAlive(data []byte, now time.Time) {
	info, err := wire.ParseKeepAlive(data)
	if err != nil {
		s.metrics.incParseErrors()
		return
	}

	devInfo := wire.DeviceInfo{
		DeviceNumber: info.DeviceNumber,
		DeviceType:   info.DeviceType,
		DeviceName:   info.DeviceName,
		IPAddress:    info.IP,
		MACAddress:   info.MAC,
	}

	evt := s.devices.Seen(devInfo, now)
	s.dispatchRegistryEvent(evt)

	s.invokeDevice(s.cb.device(), devInfo)
}

func (s *Session) dispatchRegistryEvent(evt registry.Event) {
	kind, ok := fromRegistryKind(evt.Kind)
	if !ok {
		return
	}
	s.invokeDeviceEvent(s.cb.deviceEvent(), DeviceEvent{Kind: kind, Info: evt.Record.Info})
}

func (s *Session) handleHandoffRequest(data []byte) {
	req, err := wire.ParseMasterHandoffRequest(data)
	if err != nil {
		s.metrics.incParseErrors()
		return
	}
	action := s.master.OnHandoffRequest(req.DeviceNumber)
	s.performMasterAction(action)
}

func (s *Session) handleHandoffResponse(data []byte) {
	resp, err := wire.ParseMasterHandoffResponse(data)
	if err != nil {
		s.metrics.incParseErrors()
		return
	}
	action := s.master.OnHandoffResponse(resp.DeviceNumber, resp.Accepted)
	s.performMasterAction(action)
}

func (s *Session) handleSyncControl(data []byte) {
	ctrl, err := wire.ParseSyncControl(data)
	if err != nil {
		s.metrics.incParseErrors()
		return
	}
	switch ctrl.Command {
	case wire.SyncEnable:
		s.state.setSynced(true)
	case wire.SyncDisable:
		s.state.setSynced(false)
	case wire.SyncBecomeMaster:
		action := s.master.RequestMasterRole(time.Now())
		s.performMasterAction(action)
	}
}

// performMasterAction carries out the I/O side effect a master.Machine
// method asked for. Machine itself never touches the network (see
// internal/master's package doc); this is the one place that bridges its
// Action values to an actual send. It also re-syncs localState's master
// flag afterward, since several Machine transitions (self-promotion,
// handoff completion, relinquishment) flip isMaster without any Action at
// all.
func (s *Session) performMasterAction(action masterAction) {
	switch action.Kind {
	case master.ActionSendHandoffRequest:
		s.sendMasterHandoffRequestTo(action.Target)
	case master.ActionSendHandoffResponse:
		s.sendMasterHandoffResponseTo(action.Target, action.Accepted)
	}
	s.syncMasterState()
}

// syncMasterState mirrors master.Machine's negotiated isMaster flag onto
// localState, which is what SendStatus actually broadcasts as the wire
// Master flag. Per spec.md §4.4, completing a handoff also enters Synced.
func (s *Session) syncMasterState() {
	isMaster := s.master.IsMaster()

	s.state.mu.Lock()
	wasMaster := s.state.master
	s.state.mu.Unlock()

	if isMaster == wasMaster {
		return
	}
	s.state.setMaster(isMaster)
	if isMaster {
		s.state.setSynced(true)
	}
}

type masterAction = master.Action
