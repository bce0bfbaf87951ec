package wire

// BeatInfo is the decoded content of a beat packet (type 0x28), broadcast
// on PortBeat whenever a device's beat grid advances.
type BeatInfo struct {
	DeviceName      string
	DeviceNumber    uint8
	NextBeatMs      uint32
	NextBarMs       uint32
	Pitch           uint32
	BPM             uint16
	BeatWithinBar   uint8
}

// ParseBeat decodes a beat packet. It returns ErrTooShort if data is
// truncated, ErrBadHeader if the magic does not match, and ErrWrongType if
// the packet type byte is not TypeBeat.
func ParseBeat(data []byte) (BeatInfo, error) {
	if len(data) < beatPacketSize {
		return BeatInfo{}, ErrTooShort
	}
	if !hasHeader(data) {
		return BeatInfo{}, ErrBadHeader
	}
	if PacketType(data[packetTypeOffset]) != TypeBeat {
		return BeatInfo{}, ErrWrongType
	}

	bpmRaw := readBE16(data, offsetBeatBpm)

	return BeatInfo{
		DeviceName:    parseDeviceName(data),
		DeviceNumber:  data[offsetDeviceNumber],
		NextBeatMs:    readBE32(data, offsetBeatNext),
		NextBarMs:     readBE32(data, offsetBeatNextBar),
		Pitch:         readBE24(data, offsetBeatPitch),
		BPM:           bpmRaw,
		BeatWithinBar: normalizeBeatWithinBar(data[offsetBeatWithinBar]),
	}, nil
}

// BuildBeat assembles a beat packet from the given fields, reusing the
// fixed template for every byte this library does not interpret.
func BuildBeat(info BeatInfo) []byte {
	payload := make([]byte, len(beatPayloadTemplate))
	copy(payload, beatPayloadTemplate)

	packet := buildPacket(TypeBeat, info.DeviceName, payload)

	writeBE32(packet, offsetBeatNext, info.NextBeatMs)
	writeBE32(packet, offsetBeatNextBar, info.NextBarMs)
	writeBE24(packet, offsetBeatPitch, info.Pitch)
	writeBE16(packet, offsetBeatBpm, uint32(info.BPM))
	packet[offsetBeatWithinBar] = info.BeatWithinBar
	packet[offsetDeviceNumber] = info.DeviceNumber

	return packet
}
