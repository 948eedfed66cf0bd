package recordio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"

	"github.com/PotentialStyx/wpilog/record"
	"github.com/PotentialStyx/wpilog/varint"
)

const (
	// Version is the only supported format version (1.0).
	Version uint16 = 0x0100
	// HeaderSize is the size of the fixed part of the file header.
	HeaderSize = len(magicString) + 2 + 4
	// MaxPayloadSize is the largest payload the 4-byte size field can describe.
	MaxPayloadSize = math.MaxUint32
	// MaxFrameOverhead is the largest control byte plus fields a frame can have.
	MaxFrameOverhead = 1 + 4 + 4 + 8

	magicString = "WPILOG"
)

var (
	// MagicBytes identify a WPILOG file.
	MagicBytes = []byte(magicString)

	ErrInvalidHeader      = errors.New("invalid magic bytes - not a valid wpilog file")
	ErrUnsupportedVersion = errors.New("unsupported wpilog version")
	ErrTruncatedInput     = errors.New("truncated input")
	ErrPayloadTooLarge    = errors.New("payload exceeds maximum frame size")
)

// Header is the file header that precedes the first frame.
type Header struct {
	Version uint16
	// Extra is an opaque blob reserved for out-of-band metadata.
	Extra []byte
}

// WriteHeader writes the magic string, the version and the length-prefixed
// extra header.
func WriteHeader(w io.Writer, extra []byte) (int64, error) {
	if uint64(len(extra)) > math.MaxUint32 {
		return 0, fmt.Errorf("error writing extra header: %w", ErrPayloadTooLarge)
	}

	buf := make([]byte, 0, HeaderSize+len(extra))
	buf = append(buf, MagicBytes...)
	buf = binary.LittleEndian.AppendUint16(buf, Version)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(extra)))
	buf = append(buf, extra...)

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write header: %w", err)
	}
	return int64(n), nil
}

// ReadHeader reads and validates the file header.
func ReadHeader(r io.Reader) (Header, error) {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if !bytes.Equal(magic, MagicBytes) {
		return Header{}, ErrInvalidHeader
	}

	var fixed [6]byte
	if _, err := io.ReadFull(r, fixed[:2]); err != nil {
		return Header{}, fmt.Errorf("error reading version: %w: %w", ErrTruncatedInput, err)
	}
	version := binary.LittleEndian.Uint16(fixed[:2])
	if version != Version {
		return Header{}, fmt.Errorf("%w: 0x%04x", ErrUnsupportedVersion, version)
	}

	if _, err := io.ReadFull(r, fixed[2:]); err != nil {
		return Header{}, fmt.Errorf("error reading extra header length: %w: %w", ErrTruncatedInput, err)
	}
	length := binary.LittleEndian.Uint32(fixed[2:])

	extra, err := readN(r, uint64(length))
	if err != nil {
		return Header{}, fmt.Errorf("error reading extra header: %w", err)
	}

	return Header{Version: version, Extra: extra}, nil
}

// controlByte packs the field lengths of a frame:
// bits 0-1 id length-1, bits 2-3 size length-1, bits 4-6 timestamp length-1.
type controlByte byte

func newControlByte(idLen, sizeLen, tsLen int) controlByte {
	return controlByte(byte(idLen-1)&0x3 | (byte(sizeLen-1)&0x3)<<2 | (byte(tsLen-1)&0x7)<<4)
}

func (c controlByte) IDLen() int        { return int(c&0x3) + 1 }
func (c controlByte) SizeLen() int      { return int(c>>2&0x3) + 1 }
func (c controlByte) TimestampLen() int { return int(c>>4&0x7) + 1 }

// Size returns the number of bytes Encode produces for rec.
func Size(rec record.Record) int64 {
	payload, idLen := payloadSize(rec)
	return int64(1 + idLen + varint.Size(uint64(payload)) + varint.Size(rec.Timestamp) + payload)
}

func payloadSize(rec record.Record) (size int, idLen int) {
	if c, ok := rec.Control(); ok {
		return record.ControlSize(c), 1
	}
	data, _ := rec.Data()
	return len(data), varint.Size(uint64(rec.ID))
}

// Encode returns the frame for rec: control byte, id, size and timestamp
// fields, then the payload. Control records always use a single zero byte as
// their id field.
func Encode(rec record.Record) ([]byte, error) {
	return Append(nil, rec)
}

// Append appends the frame for rec to dst.
func Append(dst []byte, rec record.Record) ([]byte, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	payload, idLen := payloadSize(rec)
	if uint64(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, payload)
	}

	sizeLen := varint.Size(uint64(payload))
	tsLen := varint.Size(rec.Timestamp)

	if dst == nil {
		dst = make([]byte, 0, 1+idLen+sizeLen+tsLen+payload)
	}

	switch info := rec.Info.(type) {
	case record.Control:
		// The id-length bits are left at zero for control frames.
		dst = append(dst, byte(newControlByte(1, sizeLen, tsLen)), 0)
		dst = varint.Append(dst, uint64(payload))
		dst = varint.Append(dst, rec.Timestamp)
		return record.AppendControl(dst, info)
	case record.Data:
		dst = append(dst, byte(newControlByte(idLen, sizeLen, tsLen)))
		dst = varint.Append(dst, uint64(rec.ID))
		dst = varint.Append(dst, uint64(payload))
		dst = varint.Append(dst, rec.Timestamp)
		return append(dst, info...), nil
	default:
		return nil, fmt.Errorf("%w: unsupported info %T", record.ErrInvalidID, info)
	}
}

// Write writes a single record to the writer.
func Write(w io.Writer, rec record.Record) (int64, error) {
	frame, err := Encode(rec)
	if err != nil {
		return 0, fmt.Errorf("failed to encode record: %w", err)
	}

	n, err := w.Write(frame)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write frame: %w", err)
	}
	return int64(n), nil
}

// AppendRaw appends raw as a frame without interpreting its payload. It is
// the inverse of ReadFrame.
func AppendRaw(dst []byte, raw record.Raw) ([]byte, error) {
	if uint64(len(raw.Data)) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(raw.Data))
	}

	idLen := varint.Size(uint64(raw.ID))
	sizeLen := varint.Size(uint64(len(raw.Data)))
	tsLen := varint.Size(raw.Timestamp)

	dst = append(dst, byte(newControlByte(idLen, sizeLen, tsLen)))
	dst = varint.Append(dst, uint64(raw.ID))
	dst = varint.Append(dst, uint64(len(raw.Data)))
	dst = varint.Append(dst, raw.Timestamp)
	return append(dst, raw.Data...), nil
}

// WriteRaw writes raw as a single frame.
func WriteRaw(w io.Writer, raw record.Raw) (int64, error) {
	frame, err := AppendRaw(nil, raw)
	if err != nil {
		return 0, fmt.Errorf("failed to encode frame: %w", err)
	}

	n, err := w.Write(frame)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write frame: %w", err)
	}
	return int64(n), nil
}

// ReadFrame reads a single frame from the reader. It returns io.EOF when the
// stream ends cleanly before a frame, and ErrTruncatedInput when it ends
// inside one.
func ReadFrame(r io.Reader) (record.Raw, error) {
	var cb [1]byte
	if _, err := io.ReadFull(r, cb[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return record.Raw{}, io.EOF
		}
		return record.Raw{}, fmt.Errorf("failed to read control byte: %w", err)
	}
	c := controlByte(cb[0])

	id, err := readField(r, c.IDLen())
	if err != nil {
		return record.Raw{}, fmt.Errorf("error reading id: %w", err)
	}
	size, err := readField(r, c.SizeLen())
	if err != nil {
		return record.Raw{}, fmt.Errorf("error reading size: %w", err)
	}
	timestamp, err := readField(r, c.TimestampLen())
	if err != nil {
		return record.Raw{}, fmt.Errorf("error reading timestamp: %w", err)
	}

	data, err := readN(r, size)
	if err != nil {
		return record.Raw{}, fmt.Errorf("error reading payload: %w", err)
	}

	return record.Raw{ID: uint32(id), Timestamp: timestamp, Data: data}, nil
}

func readField(r io.Reader, length int) (uint64, error) {
	v, err := varint.Read(r, length)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return 0, fmt.Errorf("%w: %w", ErrTruncatedInput, err)
	}
	return v, nil
}

// readN reads exactly n bytes without trusting n for the initial allocation,
// so a corrupt size field cannot force a huge allocation up front.
func readN(r io.Reader, n uint64) ([]byte, error) {
	const chunk = 64 << 10
	if n <= chunk {
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("%w: %w", ErrTruncatedInput, err)
		}
		return b, nil
	}

	var buf bytes.Buffer
	copied, err := io.CopyN(&buf, r, int64(n))
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: read %d of %d bytes: %w", ErrTruncatedInput, copied, n, err)
	}
	return buf.Bytes(), nil
}

// Seq creates an iterator over the frames of r. Iteration stops at the first
// read failure, so a truncated trailing frame ends the sequence silently.
func Seq(r io.Reader) iter.Seq[record.Raw] {
	return func(yield func(record.Raw) bool) {
		for {
			raw, err := ReadFrame(r)
			if err != nil {
				return
			}
			if !yield(raw) {
				return
			}
		}
	}
}

// ReadFrames reads all frames into a slice.
func ReadFrames(r io.Reader) []record.Raw {
	frames := make([]record.Raw, 0, 1)
	for raw := range Seq(r) {
		frames = append(frames, raw)
	}
	return frames
}

// NewBufferedReader wraps r in a buffer unless it already is one. Frame
// decoding issues many small reads.
func NewBufferedReader(r io.Reader) io.Reader {
	switch r.(type) {
	case *bufio.Reader, *bytes.Reader, *bytes.Buffer:
		return r
	default:
		return bufio.NewReader(r)
	}
}
