package wire

import "testing"

func TestBeatRoundTrip(t *testing.T) {
	want := BeatInfo{
		DeviceName:    "CDJ-3000",
		DeviceNumber:  2,
		NextBeatMs:    428,
		NextBarMs:     1712,
		Pitch:         NeutralPitch,
		BPM:           12800, // 128.00 BPM stored as BPM*100
		BeatWithinBar: 3,
	}

	packet := BuildBeat(want)
	if len(packet) != beatPacketSize {
		t.Fatalf("packet size = %d, want %d", len(packet), beatPacketSize)
	}

	got, err := ParseBeat(packet)
	if err != nil {
		t.Fatalf("ParseBeat: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestBeatWithinBarNormalizes(t *testing.T) {
	packet := BuildBeat(BeatInfo{DeviceName: "X"})
	packet[offsetBeatWithinBar] = 9

	got, err := ParseBeat(packet)
	if err != nil {
		t.Fatalf("ParseBeat: %v", err)
	}
	if got.BeatWithinBar != 1 {
		t.Fatalf("BeatWithinBar = %d, want 1", got.BeatWithinBar)
	}
}

func TestParseBeatRejectsBadHeader(t *testing.T) {
	packet := BuildBeat(BeatInfo{DeviceName: "X"})
	packet[0] ^= 0xff

	if _, err := ParseBeat(packet); err != ErrBadHeader {
		t.Fatalf("err = %v, want ErrBadHeader", err)
	}
}

func TestParseBeatRejectsShortPacket(t *testing.T) {
	if _, err := ParseBeat(Header[:]); err != ErrTooShort {
		t.Fatalf("err = %v, want ErrTooShort", err)
	}
}

func TestParseBeatRejectsWrongType(t *testing.T) {
	packet := BuildStatus(StatusInfo{DeviceName: "X"})
	if len(packet) < beatPacketSize {
		t.Fatalf("status packet shorter than beat packet, test invalid")
	}
	if _, err := ParseBeat(packet); err != ErrWrongType {
		t.Fatalf("err = %v, want ErrWrongType", err)
	}
}

func TestStatusRoundTrip(t *testing.T) {
	want := StatusInfo{
		DeviceName:      "CDJ-3000",
		DeviceNumber:    1,
		Playing:         true,
		Master:          true,
		Synced:          true,
		MasterHandoffTo: 0xff,
		Pitch:           NeutralPitch,
		BPM:             12800,
		HasBPM:          true,
		BeatNumber:      4096,
		HasBeat:         true,
		BeatWithinBar:   4,
	}

	packet := BuildStatus(want)
	if len(packet) < statusMinimumSize {
		t.Fatalf("packet size = %d, want >= %d", len(packet), statusMinimumSize)
	}

	got, err := ParseStatus(packet)
	if err != nil {
		t.Fatalf("ParseStatus: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestStatusOptionalFieldsDefaultOff(t *testing.T) {
	packet := BuildStatus(StatusInfo{DeviceName: "X"})
	got, err := ParseStatus(packet)
	if err != nil {
		t.Fatalf("ParseStatus: %v", err)
	}
	if got.Playing || got.Master || got.Synced {
		t.Fatalf("expected all status flags clear by default, got %+v", got)
	}
	if got.HasBPM || got.HasBeat {
		t.Fatalf("expected BPM/BeatNumber absent by default, got %+v", got)
	}
}

func TestStatusBPMAndBeatNumberAbsentOnSentinel(t *testing.T) {
	packet := BuildStatus(StatusInfo{DeviceName: "X", HasBPM: false, HasBeat: false})
	got, err := ParseStatus(packet)
	if err != nil {
		t.Fatalf("ParseStatus: %v", err)
	}
	if got.HasBPM {
		t.Fatalf("expected HasBPM = false when raw value is the 0xffff sentinel")
	}
	if got.HasBeat {
		t.Fatalf("expected HasBeat = false when raw value is the 0xffffffff sentinel")
	}
	if got.BPM != noBPM || got.BeatNumber != noBeatNumber {
		t.Fatalf("expected raw sentinel values preserved, got BPM=%#x BeatNumber=%#x", got.BPM, got.BeatNumber)
	}
}

func TestKeepAliveRoundTrip(t *testing.T) {
	want := KeepAliveInfo{
		DeviceName:   "CDJ-3000",
		DeviceNumber: 3,
		DeviceType:   DeviceTypeCDJ,
		MAC:          [6]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		IP:           "192.168.1.10",
	}

	packet := BuildKeepAlive(want)
	if len(packet) != keepAlivePacketSize {
		t.Fatalf("packet size = %d, want %d", len(packet), keepAlivePacketSize)
	}

	got, err := ParseKeepAlive(packet)
	if err != nil {
		t.Fatalf("ParseKeepAlive: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestKeepAliveRetriesShiftedNameOnly(t *testing.T) {
	packet := BuildKeepAlive(KeepAliveInfo{
		DeviceName:   "CDJ-3000",
		DeviceNumber: 3,
		DeviceType:   DeviceTypeCDJ,
		MAC:          [6]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		IP:           "192.168.1.10",
	})

	// Blank the nominal-offset name field and write it one byte later
	// instead, simulating the mixer variant; number/type/mac/ip stay put.
	for i := deviceNameOffset; i < deviceNameOffset+deviceNameLength; i++ {
		packet[i] = 0
	}
	copy(packet[deviceNameOffset+1:], "CDJ-3000")

	got, err := ParseKeepAlive(packet)
	if err != nil {
		t.Fatalf("ParseKeepAlive: %v", err)
	}
	if got.DeviceName != "CDJ-3000" {
		t.Fatalf("DeviceName = %q, want CDJ-3000", got.DeviceName)
	}
	if got.DeviceNumber != 3 {
		t.Fatalf("DeviceNumber = %d, want 3 (must not shift with the name)", got.DeviceNumber)
	}
	if got.IP != "192.168.1.10" {
		t.Fatalf("IP = %q, want 192.168.1.10 (must not shift with the name)", got.IP)
	}
}

func TestSyncControlRoundTrip(t *testing.T) {
	want := SyncControlInfo{DeviceName: "CDJ-3000", DeviceNumber: 2, Command: SyncEnable}
	packet := BuildSyncControl(want)
	if len(packet) != 44 {
		t.Fatalf("packet size = %d, want 44", len(packet))
	}
	got, err := ParseSyncControl(packet)
	if err != nil {
		t.Fatalf("ParseSyncControl: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestMasterHandoffRequestRoundTrip(t *testing.T) {
	want := MasterHandoffRequestInfo{DeviceName: "CDJ-3000", DeviceNumber: 4}
	packet := BuildMasterHandoffRequest(want)
	if len(packet) != 40 {
		t.Fatalf("packet size = %d, want 40", len(packet))
	}
	got, err := ParseMasterHandoffRequest(packet)
	if err != nil {
		t.Fatalf("ParseMasterHandoffRequest: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestMasterHandoffResponseRoundTrip(t *testing.T) {
	want := MasterHandoffResponseInfo{DeviceName: "CDJ-3000", DeviceNumber: 4, Accepted: true}
	packet := BuildMasterHandoffResponse(want)
	if len(packet) != 44 {
		t.Fatalf("packet size = %d, want 44", len(packet))
	}
	got, err := ParseMasterHandoffResponse(packet)
	if err != nil {
		t.Fatalf("ParseMasterHandoffResponse: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestPitchConversions(t *testing.T) {
	if got := PitchToMultiplier(NeutralPitch); got != 1.0 {
		t.Fatalf("PitchToMultiplier(neutral) = %v, want 1.0", got)
	}
	if got := PitchFromPercent(0); got != NeutralPitch {
		t.Fatalf("PitchFromPercent(0) = %#x, want %#x", got, NeutralPitch)
	}
}
