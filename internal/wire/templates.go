package wire

// Payload templates below are fixed byte tables captured from observed
// beat and status packets emitted by real hardware. They are reproduced
// byte-for-byte; outgoing packets overwrite only the documented offsets.
// Do not "clean up" these tables — every byte is load-bearing for hardware
// that inspects fields this library does not otherwise interpret.

// beatPayloadTemplate is the 65-byte payload following the 20-byte device
// name field in a beat packet (type 0x28).
var beatPayloadTemplate = []byte{
	0x01, 0x00, 0x0d, 0x00, 0x3c, 0x01, 0x01, 0x01, 0x01, 0x02, 0x02, 0x02,
	0x02, 0x10, 0x10, 0x10, 0x10, 0x04, 0x04, 0x04, 0x04, 0x20, 0x20, 0x20,
	0x20, 0x08, 0x08, 0x08, 0x08, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x0b, 0x00, 0x00, 0x0d, 0x00,
}

// statusPayloadTemplate is the payload following the 20-byte device name
// field in a CDJ status packet (type 0x0a).
var statusPayloadTemplate = []byte{
	0x01, 0x04, 0x00, 0x00, 0xf8, 0x00, 0x00, 0x01, 0x00, 0x00, 0x03, 0x01,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0xa0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x04, 0x04, 0x00, 0x00, 0x00, 0x04,
	0x00, 0x00, 0x00, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x31, 0x2e, 0x34, 0x33, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0xff, 0x00, 0x00, 0x10, 0x00, 0x00, 0x80, 0x00, 0x00, 0x00,
	0x7f, 0xff, 0xff, 0xff, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x01, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00,
	0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0f, 0x01, 0x00, 0x00,
	0x12, 0x34, 0x56, 0x78, 0x00, 0x00, 0x00, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x15, 0x00, 0x00, 0x07, 0x61, 0x00, 0x00, 0x06, 0x2f,
}

// beatPacketSize and statusMinimumSize pin the total packet lengths used
// by the layout-pinning test property (SPEC_FULL.md §8.2).
var beatPacketSize = payloadOffset + len(beatPayloadTemplate) // 0x60

const (
	statusMinimumSize   = 0xc8
	keepAlivePacketSize = 0x36
)

// Payload-relative offsets (add payloadOffset for the absolute packet
// offset) for the beat packet template.
const (
	offBeatPayloadDeviceNumber  = 0x02
	offBeatPayloadInterval1     = 0x05
	offBeatPayloadInterval2     = 0x09
	offBeatPayloadNextBar1      = 0x0d
	offBeatPayloadInterval4     = 0x11
	offBeatPayloadNextBar2      = 0x15
	offBeatPayloadInterval8     = 0x19
	offBeatPayloadPitch         = 0x36
	offBeatPayloadBpm           = 0x3b
	offBeatPayloadBeatWithinBar = 0x3d
	offBeatPayloadDeviceNumber2 = 0x40
)

// Payload-relative offsets for the status packet template.
const (
	offStatusPayloadDeviceNumber  = 0x02
	offStatusPayloadDeviceNumber2 = 0x05
	offStatusPayloadPlayingFlag   = 0x08
	offStatusPayloadDeviceNumber3 = 0x09
	offStatusPayloadPlayState1    = 0x5c
	offStatusPayloadFlagByte      = 0x6a
	offStatusPayloadPlayState2    = 0x6c
	offStatusPayloadPitch         = 0x6e
	offStatusPayloadBpm           = 0x73
	offStatusPayloadPlayState3    = 0x7e
	offStatusPayloadMasterFlag    = 0x7f
	offStatusPayloadMasterHandoff = 0x80
	offStatusPayloadBeatNumber    = 0x81
	offStatusPayloadBeatWithinBar = 0x87
	offStatusPayloadCounter       = 0xa9
)

const (
	statusFlagSynced  uint8 = 0x10
	statusFlagMaster  uint8 = 0x20
	statusFlagPlaying uint8 = 0x40
)

// Absolute offsets, matching spec.md §4.1 exactly.
const (
	offsetBeatNext         = 0x24
	offsetBeatNextBar      = 0x2c
	offsetBeatPitch        = 0x55
	offsetBeatBpm          = 0x5a
	offsetBeatWithinBar    = 0x5c
	offsetStatusFlags      = 0x89
	offsetStatusMasterTo   = 0x9f
	offsetStatusBeat       = 0xa0
	offsetStatusWithinBar  = 0xa6
	offsetStatusPitch      = 0x8d
	offsetStatusBpm        = 0x92
	offsetKeepAliveNumber  = 0x24
	offsetKeepAliveType    = 0x25
	offsetKeepAliveMac     = 0x26
	offsetKeepAliveIP      = 0x2c
)

// control packet payload layout (sync control & handoff request/response).
const (
	controlPayloadSize         = 0x0d
	controlPayloadDeviceNumber = 0x02
	controlPayloadSender       = 0x08
	controlPayloadCommand      = 0x0c

	handoffRequestPayloadSize = 0x09

	offsetControlCommand = payloadOffset + controlPayloadCommand // 0x2b
)
