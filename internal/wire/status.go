package wire

// noBPM and noBeatNumber are the documented sentinel raw values meaning
// "not reported" for BPM and BeatNumber respectively.
const (
	noBPM        uint16 = 0xffff
	noBeatNumber uint32 = 0xffffffff
)

// StatusInfo is the decoded content of a CDJ/mixer status packet (type
// 0x0a), broadcast on PortStatus roughly every 200ms.
//
// BPM and BeatNumber are absent (HasBPM/HasBeat false) when the device has
// no track loaded; callers must check the Has* flag rather than treating a
// zero value as absent, since 0 is itself a representable (if nonsensical)
// raw value distinct from the sentinel.
type StatusInfo struct {
	DeviceName      string
	DeviceNumber    uint8
	Playing         bool
	Master          bool
	Synced          bool
	MasterHandoffTo uint8
	Pitch           uint32
	BPM             uint16
	HasBPM          bool
	BeatNumber      uint32
	HasBeat         bool
	BeatWithinBar   uint8
}

// ParseStatus decodes a CDJ status packet.
func ParseStatus(data []byte) (StatusInfo, error) {
	if len(data) < statusMinimumSize {
		return StatusInfo{}, ErrTooShort
	}
	if !hasHeader(data) {
		return StatusInfo{}, ErrBadHeader
	}
	if PacketType(data[packetTypeOffset]) != TypeCDJStatus {
		return StatusInfo{}, ErrWrongType
	}

	flags := data[offsetStatusFlags]
	bpm := readBE16(data, offsetStatusBpm)
	beat := readBE32(data, offsetStatusBeat)

	return StatusInfo{
		DeviceName:      parseDeviceName(data),
		DeviceNumber:    data[offsetDeviceNumber],
		Playing:         flags&statusFlagPlaying != 0,
		Master:          flags&statusFlagMaster != 0,
		Synced:          flags&statusFlagSynced != 0,
		MasterHandoffTo: data[offsetStatusMasterTo],
		Pitch:           readBE24(data, offsetStatusPitch),
		BPM:             bpm,
		HasBPM:          bpm != noBPM,
		BeatNumber:      beat,
		HasBeat:         beat != noBeatNumber,
		BeatWithinBar:   normalizeBeatWithinBar(data[offsetStatusWithinBar]),
	}, nil
}

// BuildStatus assembles a CDJ status packet from the given fields.
func BuildStatus(info StatusInfo) []byte {
	payload := make([]byte, len(statusPayloadTemplate))
	copy(payload, statusPayloadTemplate)

	packet := buildPacket(TypeCDJStatus, info.DeviceName, payload)

	var flags uint8
	if info.Playing {
		flags |= statusFlagPlaying
	}
	if info.Master {
		flags |= statusFlagMaster
	}
	if info.Synced {
		flags |= statusFlagSynced
	}
	packet[offsetStatusFlags] = flags
	packet[offsetStatusMasterTo] = info.MasterHandoffTo
	writeBE24(packet, offsetStatusPitch, info.Pitch)
	if info.HasBPM {
		writeBE16(packet, offsetStatusBpm, uint32(info.BPM))
	} else {
		writeBE16(packet, offsetStatusBpm, uint32(noBPM))
	}
	if info.HasBeat {
		writeBE32(packet, offsetStatusBeat, info.BeatNumber)
	} else {
		writeBE32(packet, offsetStatusBeat, noBeatNumber)
	}
	packet[offsetStatusWithinBar] = info.BeatWithinBar
	packet[offsetDeviceNumber] = info.DeviceNumber

	return packet
}
