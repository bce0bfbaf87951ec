package wire

// SyncControlInfo is the decoded content of a sync-control packet (type
// 0x2a), sent point-to-point to tell a device to enable or disable sync, or
// to hand it the master role directly.
type SyncControlInfo struct {
	DeviceName   string
	DeviceNumber uint8
	Command      SyncCommand
}

func controlPacketSize() int { return payloadOffset + controlPayloadSize }

// ParseSyncControl decodes a sync-control packet.
func ParseSyncControl(data []byte) (SyncControlInfo, error) {
	if len(data) < controlPacketSize() {
		return SyncControlInfo{}, ErrTooShort
	}
	if !hasHeader(data) {
		return SyncControlInfo{}, ErrBadHeader
	}
	if PacketType(data[packetTypeOffset]) != TypeSyncControl {
		return SyncControlInfo{}, ErrWrongType
	}
	return SyncControlInfo{
		DeviceName:   parseDeviceName(data),
		DeviceNumber: data[payloadOffset+controlPayloadDeviceNumber],
		Command:      SyncCommand(data[offsetControlCommand]),
	}, nil
}

// BuildSyncControl assembles a sync-control packet.
func BuildSyncControl(info SyncControlInfo) []byte {
	payload := make([]byte, controlPayloadSize)
	payload[controlPayloadDeviceNumber] = info.DeviceNumber
	payload[controlPayloadSender] = info.DeviceNumber
	payload[controlPayloadCommand] = byte(info.Command)
	return buildPacket(TypeSyncControl, info.DeviceName, payload)
}

// MasterHandoffRequestInfo is the decoded content of a master-handoff
// request packet (type 0x26): a device asking the current tempo master to
// give up the master role.
type MasterHandoffRequestInfo struct {
	DeviceName   string
	DeviceNumber uint8
}

func handoffRequestPacketSize() int { return payloadOffset + handoffRequestPayloadSize }

// ParseMasterHandoffRequest decodes a master-handoff request packet.
func ParseMasterHandoffRequest(data []byte) (MasterHandoffRequestInfo, error) {
	if len(data) < handoffRequestPacketSize() {
		return MasterHandoffRequestInfo{}, ErrTooShort
	}
	if !hasHeader(data) {
		return MasterHandoffRequestInfo{}, ErrBadHeader
	}
	if PacketType(data[packetTypeOffset]) != TypeMasterHandoffRequest {
		return MasterHandoffRequestInfo{}, ErrWrongType
	}
	return MasterHandoffRequestInfo{
		DeviceName:   parseDeviceName(data),
		DeviceNumber: data[payloadOffset+controlPayloadDeviceNumber],
	}, nil
}

// BuildMasterHandoffRequest assembles a master-handoff request packet.
func BuildMasterHandoffRequest(info MasterHandoffRequestInfo) []byte {
	payload := make([]byte, handoffRequestPayloadSize)
	payload[controlPayloadDeviceNumber] = info.DeviceNumber
	payload[controlPayloadSender] = info.DeviceNumber
	return buildPacket(TypeMasterHandoffRequest, info.DeviceName, payload)
}

// MasterHandoffResponseInfo is the decoded content of a master-handoff
// response packet (type 0x27): the current master's reply accepting or
// declining a handoff request.
type MasterHandoffResponseInfo struct {
	DeviceName   string
	DeviceNumber uint8
	Accepted     bool
}

const handoffAcceptedByte = 0x01

func handoffResponsePacketSize() int { return payloadOffset + controlPayloadSize }

// ParseMasterHandoffResponse decodes a master-handoff response packet.
func ParseMasterHandoffResponse(data []byte) (MasterHandoffResponseInfo, error) {
	if len(data) < handoffResponsePacketSize() {
		return MasterHandoffResponseInfo{}, ErrTooShort
	}
	if !hasHeader(data) {
		return MasterHandoffResponseInfo{}, ErrBadHeader
	}
	if PacketType(data[packetTypeOffset]) != TypeMasterHandoffResp {
		return MasterHandoffResponseInfo{}, ErrWrongType
	}
	return MasterHandoffResponseInfo{
		DeviceName:   parseDeviceName(data),
		DeviceNumber: data[payloadOffset+controlPayloadDeviceNumber],
		Accepted:     data[offsetControlCommand] == handoffAcceptedByte,
	}, nil
}

// BuildMasterHandoffResponse assembles a master-handoff response packet.
func BuildMasterHandoffResponse(info MasterHandoffResponseInfo) []byte {
	payload := make([]byte, controlPayloadSize)
	payload[controlPayloadDeviceNumber] = info.DeviceNumber
	payload[controlPayloadSender] = info.DeviceNumber
	if info.Accepted {
		payload[controlPayloadCommand] = handoffAcceptedByte
	}
	return buildPacket(TypeMasterHandoffResp, info.DeviceName, payload)
}
