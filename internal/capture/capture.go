// Package capture implements the packet capture/replay file format: a
// stream of <timestamp:u64-le microseconds><length:u32-le><bytes> records,
// used in place of live socket recv when a replay file is configured, and
// written for every received packet (of any type) when a capture file is
// configured.
package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// MaxRecordLength is the largest packet this format can carry; a record
// claiming a longer length aborts replay rather than attempting to read it.
const MaxRecordLength = 2048

// ErrRecordTooLarge is returned by Reader.Next when a record's declared
// length exceeds MaxRecordLength.
var ErrRecordTooLarge = errors.New("capture: record exceeds maximum length")

const recordHeaderSize = 8 + 4

// Writer appends captured packets to an underlying io.Writer. Writes are
// serialized by an internal mutex, mirroring the capture_mutex the session
// driver's single capture stream is documented to use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w for capture output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write appends one record for data, stamped at ts.
func (c *Writer) Write(ts time.Time, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var header [recordHeaderSize]byte
	binary.LittleEndian.PutUint64(header[0:8], uint64(ts.UnixMicro()))
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(data)))

	if _, err := c.w.Write(header[:]); err != nil {
		return fmt.Errorf("capture: write record header: %w", err)
	}
	if _, err := c.w.Write(data); err != nil {
		return fmt.Errorf("capture: write record body: %w", err)
	}
	return nil
}

// Record is one decoded capture-file entry.
type Record struct {
	Timestamp time.Time
	Data      []byte
}

// Reader reads capture-file records back in order, for replay.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r for capture playback.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next reads the next record. It returns io.EOF when the stream ends
// cleanly at a record boundary, and ErrRecordTooLarge when a record's
// declared length exceeds MaxRecordLength (replay must abort in that case
// rather than attempt to resynchronize).
func (c *Reader) Next() (Record, error) {
	var header [recordHeaderSize]byte
	if _, err := io.ReadFull(c.r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, fmt.Errorf("capture: truncated record header: %w", err)
		}
		return Record{}, err
	}

	tsMicro := binary.LittleEndian.Uint64(header[0:8])
	length := binary.LittleEndian.Uint32(header[8:12])
	if length > MaxRecordLength {
		return Record{}, ErrRecordTooLarge
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(c.r, data); err != nil {
		return Record{}, fmt.Errorf("capture: truncated record body: %w", err)
	}

	return Record{
		Timestamp: time.UnixMicro(int64(tsMicro)),
		Data:      data,
	}, nil
}
