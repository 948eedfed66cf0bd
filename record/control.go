package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

var (
	ErrTruncatedPayload = errors.New("record: truncated control payload")
	ErrInvalidUTF8      = errors.New("record: string field is not valid utf-8")
	ErrMalformedControl = errors.New("record: malformed control record")
	ErrFieldTooLong     = errors.New("record: string field exceeds 4GiB")
)

// ControlSize returns the encoded size of the control payload c.
func ControlSize(c Control) int {
	size := 1 + 4
	switch c := c.(type) {
	case Start:
		size += 4 + len(c.Name) + 4 + len(c.Type) + 4 + len(c.Metadata)
	case SetMetadata:
		size += 4 + len(c.Metadata)
	}
	return size
}

// AppendControl appends the payload of c to dst: tag byte, 4-byte target id,
// then the kind-specific length-prefixed strings.
func AppendControl(dst []byte, c Control) ([]byte, error) {
	dst = append(dst, byte(c.Kind()))
	dst = binary.LittleEndian.AppendUint32(dst, c.Target())

	var err error
	switch c := c.(type) {
	case Start:
		if dst, err = appendString(dst, c.Name); err != nil {
			return nil, fmt.Errorf("error writing entry name: %w", err)
		}
		if dst, err = appendString(dst, c.Type); err != nil {
			return nil, fmt.Errorf("error writing entry type: %w", err)
		}
		if dst, err = appendString(dst, c.Metadata); err != nil {
			return nil, fmt.Errorf("error writing entry metadata: %w", err)
		}
	case Finish:
	case SetMetadata:
		if dst, err = appendString(dst, c.Metadata); err != nil {
			return nil, fmt.Errorf("error writing entry metadata: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported control %T", ErrMalformedControl, c)
	}
	return dst, nil
}

func appendString(dst []byte, s string) ([]byte, error) {
	if uint64(len(s)) > math.MaxUint32 {
		return nil, ErrFieldTooLong
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...), nil
}

// Interpret converts a raw frame into a Record. Frames with a non-zero id are
// data records; frames with id 0 carry a control payload that is parsed here.
func Interpret(raw Raw) (Record, error) {
	if !raw.IsControl() {
		return Record{ID: raw.ID, Timestamp: raw.Timestamp, Info: Data(raw.Data)}, nil
	}

	c, err := ParseControl(raw.Data)
	if err != nil {
		return Record{}, err
	}
	return NewControl(raw.Timestamp, c), nil
}

// ParseControl decodes a control payload.
func ParseControl(payload []byte) (Control, error) {
	pr := payloadReader{b: payload}

	tag, err := pr.byte()
	if err != nil {
		return nil, fmt.Errorf("error reading control type: %w", err)
	}
	target, err := pr.uint32()
	if err != nil {
		return nil, fmt.Errorf("error reading entry id: %w", err)
	}

	switch ControlType(tag) {
	case ControlStart:
		name, err := pr.string()
		if err != nil {
			return nil, fmt.Errorf("error reading entry name: %w", err)
		}
		typ, err := pr.string()
		if err != nil {
			return nil, fmt.Errorf("error reading entry type: %w", err)
		}
		metadata, err := pr.string()
		if err != nil {
			return nil, fmt.Errorf("error reading entry metadata: %w", err)
		}
		return Start{EntryID: target, Name: name, Type: typ, Metadata: metadata}, nil
	case ControlFinish:
		return Finish{EntryID: target}, nil
	case ControlSetMetadata:
		metadata, err := pr.string()
		if err != nil {
			return nil, fmt.Errorf("error reading entry metadata: %w", err)
		}
		return SetMetadata{EntryID: target, Metadata: metadata}, nil
	default:
		return nil, fmt.Errorf("%w: unknown control type %d", ErrMalformedControl, tag)
	}
}

// payloadReader reads fixed-width fields from an in-memory payload.
type payloadReader struct {
	b   []byte
	off int
}

func (pr *payloadReader) take(n int) ([]byte, error) {
	if n < 0 || len(pr.b)-pr.off < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncatedPayload, n, pr.off, len(pr.b)-pr.off)
	}
	b := pr.b[pr.off : pr.off+n]
	pr.off += n
	return b, nil
}

func (pr *payloadReader) byte() (byte, error) {
	b, err := pr.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (pr *payloadReader) uint32() (uint32, error) {
	b, err := pr.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (pr *payloadReader) string() (string, error) {
	length, err := pr.uint32()
	if err != nil {
		return "", err
	}
	if uint64(length) > uint64(len(pr.b)-pr.off) {
		return "", fmt.Errorf("%w: string of %d bytes at offset %d, have %d",
			ErrTruncatedPayload, length, pr.off, len(pr.b)-pr.off)
	}
	b, err := pr.take(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}
