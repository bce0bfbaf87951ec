package wire

// KeepAliveInfo is the decoded content of a device keep-alive / announce
// packet (type 0x06), broadcast on PortAnnounce roughly once per second.
type KeepAliveInfo struct {
	DeviceName   string
	DeviceNumber uint8
	DeviceType   DeviceType
	MAC          [6]byte
	IP           string
}

const macLength = 6

// ParseKeepAlive decodes a keep-alive packet. device_number, device_type,
// mac_address, and ip_address are always read at their nominal offsets;
// only the device-name field is retried at deviceNameOffset+1 when the
// nominal-offset name parses empty, matching the reference parser.
func ParseKeepAlive(data []byte) (KeepAliveInfo, error) {
	if len(data) < keepAlivePacketSize {
		return KeepAliveInfo{}, ErrTooShort
	}
	if !hasHeader(data) {
		return KeepAliveInfo{}, ErrBadHeader
	}
	if PacketType(data[packetTypeOffset]) != TypeDeviceKeepAlive {
		return KeepAliveInfo{}, ErrWrongType
	}

	name := parseDeviceName(data)
	if name == "" {
		name = parseDeviceNameAt(data, deviceNameOffset+1)
	}

	var mac [6]byte
	copy(mac[:], data[offsetKeepAliveMac:offsetKeepAliveMac+macLength])

	return KeepAliveInfo{
		DeviceName:   name,
		DeviceNumber: data[offsetKeepAliveNumber],
		DeviceType:   DeviceType(data[offsetKeepAliveType]),
		MAC:          mac,
		IP:           parseIPv4(data, offsetKeepAliveIP),
	}, nil
}

// BuildKeepAlive assembles a device keep-alive / announce packet.
func BuildKeepAlive(info KeepAliveInfo) []byte {
	payload := make([]byte, keepAlivePacketSize-payloadOffset)

	payload[offsetKeepAliveNumber-payloadOffset] = info.DeviceNumber
	payload[offsetKeepAliveType-payloadOffset] = byte(info.DeviceType)
	copy(payload[offsetKeepAliveMac-payloadOffset:], info.MAC[:])

	if ip := net4(info.IP); ip != nil {
		copy(payload[offsetKeepAliveIP-payloadOffset:], ip)
	}

	return buildPacket(TypeDeviceKeepAlive, info.DeviceName, payload)
}
