package capture

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"time"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	packets := [][]byte{
		{0x51, 0x73, 0x70, 0x74, 0x31, 0x57, 0x6d, 0x4a, 0x4f, 0x4c, 0x06},
		{0x01, 0x02, 0x03},
		{},
	}
	base := time.UnixMicro(1_700_000_000_000_000)
	times := []time.Time{base, base.Add(time.Millisecond), base.Add(2 * time.Millisecond)}

	for i, p := range packets {
		if err := w.Write(times[i], p); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	r := NewReader(&buf)
	for i, want := range packets {
		rec, err := r.Next()
		if err != nil {
			t.Fatalf("Next(%d): %v", i, err)
		}
		if !bytes.Equal(rec.Data, want) {
			t.Fatalf("record %d data = %v, want %v", i, rec.Data, want)
		}
		if !rec.Timestamp.Equal(times[i]) {
			t.Fatalf("record %d timestamp = %v, want %v", i, rec.Timestamp, times[i])
		}
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("final Next() = %v, want io.EOF", err)
	}
}

func TestReaderRejectsOversizeRecord(t *testing.T) {
	var buf bytes.Buffer
	var header [12]byte
	binary.LittleEndian.PutUint64(header[0:8], 0)
	binary.LittleEndian.PutUint32(header[8:12], MaxRecordLength+1)
	buf.Write(header[:])

	r := NewReader(&buf)
	if _, err := r.Next(); err != ErrRecordTooLarge {
		t.Fatalf("err = %v, want ErrRecordTooLarge", err)
	}
}
