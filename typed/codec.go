package typed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Type names written into the Start record of each entry.
const (
	TypeRaw          = "raw"
	TypeBoolean      = "boolean"
	TypeInt64        = "int64"
	TypeFloat        = "float"
	TypeDouble       = "double"
	TypeString       = "string"
	TypeBooleanArray = "boolean[]"
	TypeInt64Array   = "int64[]"
	TypeFloatArray   = "float[]"
	TypeDoubleArray  = "double[]"
	TypeStringArray  = "string[]"
)

var (
	ErrShortPayload = errors.New("typed: payload too short")
	ErrUnknownType  = errors.New("typed: unknown entry type")
)

// Codec converts values of one entry type to and from data payloads.
type Codec[T any] interface {
	TypeName() string
	Encode(value T) []byte
	Decode(payload []byte) (T, error)
}

type codec[T any] struct {
	name   string
	encode func(T) []byte
	decode func([]byte) (T, error)
}

func (c codec[T]) TypeName() string { return c.name }

func (c codec[T]) Encode(value T) []byte { return c.encode(value) }

func (c codec[T]) Decode(payload []byte) (T, error) { return c.decode(payload) }

var (
	Raw          Codec[[]byte]    = codec[[]byte]{TypeRaw, encodeRaw, decodeRaw}
	Boolean      Codec[bool]      = codec[bool]{TypeBoolean, encodeBoolean, decodeBoolean}
	Int64        Codec[int64]     = codec[int64]{TypeInt64, encodeInt64, decodeInt64}
	Float        Codec[float32]   = codec[float32]{TypeFloat, encodeFloat, decodeFloat}
	Double       Codec[float64]   = codec[float64]{TypeDouble, encodeDouble, decodeDouble}
	String       Codec[string]    = codec[string]{TypeString, encodeString, decodeString}
	BooleanArray Codec[[]bool]    = codec[[]bool]{TypeBooleanArray, encodeBooleanArray, decodeBooleanArray}
	Int64Array   Codec[[]int64]   = codec[[]int64]{TypeInt64Array, encodeInt64Array, decodeInt64Array}
	FloatArray   Codec[[]float32] = codec[[]float32]{TypeFloatArray, encodeFloatArray, decodeFloatArray}
	DoubleArray  Codec[[]float64] = codec[[]float64]{TypeDoubleArray, encodeDoubleArray, decodeDoubleArray}
	StringArray  Codec[[]string]  = codec[[]string]{TypeStringArray, encodeStringArray, decodeStringArray}
)

// Decode decodes payload according to the entry type name. It returns
// ErrUnknownType for type names it has no codec for.
func Decode(typeName string, payload []byte) (any, error) {
	switch typeName {
	case TypeRaw:
		return Raw.Decode(payload)
	case TypeBoolean:
		return Boolean.Decode(payload)
	case TypeInt64:
		return Int64.Decode(payload)
	case TypeFloat:
		return Float.Decode(payload)
	case TypeDouble:
		return Double.Decode(payload)
	case TypeString:
		return String.Decode(payload)
	case TypeBooleanArray:
		return BooleanArray.Decode(payload)
	case TypeInt64Array:
		return Int64Array.Decode(payload)
	case TypeFloatArray:
		return FloatArray.Decode(payload)
	case TypeDoubleArray:
		return DoubleArray.Decode(payload)
	case TypeStringArray:
		return StringArray.Decode(payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
}

func encodeRaw(v []byte) []byte { return v }

func decodeRaw(p []byte) ([]byte, error) { return p, nil }

func encodeBoolean(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func decodeBoolean(p []byte) (bool, error) {
	if len(p) < 1 {
		return false, fmt.Errorf("%w: boolean needs 1 byte", ErrShortPayload)
	}
	return p[0] != 0, nil
}

func encodeInt64(v int64) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(v))
}

func decodeInt64(p []byte) (int64, error) {
	if len(p) < 8 {
		return 0, fmt.Errorf("%w: int64 needs 8 bytes, have %d", ErrShortPayload, len(p))
	}
	return int64(binary.LittleEndian.Uint64(p)), nil
}

func encodeFloat(v float32) []byte {
	return binary.LittleEndian.AppendUint32(nil, math.Float32bits(v))
}

func decodeFloat(p []byte) (float32, error) {
	if len(p) < 4 {
		return 0, fmt.Errorf("%w: float needs 4 bytes, have %d", ErrShortPayload, len(p))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(p)), nil
}

func encodeDouble(v float64) []byte {
	return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v))
}

func decodeDouble(p []byte) (float64, error) {
	if len(p) < 8 {
		return 0, fmt.Errorf("%w: double needs 8 bytes, have %d", ErrShortPayload, len(p))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p)), nil
}

func encodeString(v string) []byte { return []byte(v) }

func decodeString(p []byte) (string, error) { return string(p), nil }

func encodeBooleanArray(v []bool) []byte {
	out := make([]byte, len(v))
	for i, b := range v {
		if b {
			out[i] = 1
		}
	}
	return out
}

func decodeBooleanArray(p []byte) ([]bool, error) {
	out := make([]bool, len(p))
	for i, b := range p {
		out[i] = b != 0
	}
	return out, nil
}

func encodeInt64Array(v []int64) []byte {
	out := make([]byte, 0, 8*len(v))
	for _, n := range v {
		out = binary.LittleEndian.AppendUint64(out, uint64(n))
	}
	return out
}

func decodeInt64Array(p []byte) ([]int64, error) {
	if len(p)%8 != 0 {
		return nil, fmt.Errorf("%w: int64[] length %d is not a multiple of 8", ErrShortPayload, len(p))
	}
	out := make([]int64, len(p)/8)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(p[i*8:]))
	}
	return out, nil
}

func encodeFloatArray(v []float32) []byte {
	out := make([]byte, 0, 4*len(v))
	for _, f := range v {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out
}

func decodeFloatArray(p []byte) ([]float32, error) {
	if len(p)%4 != 0 {
		return nil, fmt.Errorf("%w: float[] length %d is not a multiple of 4", ErrShortPayload, len(p))
	}
	out := make([]float32, len(p)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	return out, nil
}

func encodeDoubleArray(v []float64) []byte {
	out := make([]byte, 0, 8*len(v))
	for _, f := range v {
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(f))
	}
	return out
}

func decodeDoubleArray(p []byte) ([]float64, error) {
	if len(p)%8 != 0 {
		return nil, fmt.Errorf("%w: double[] length %d is not a multiple of 8", ErrShortPayload, len(p))
	}
	out := make([]float64, len(p)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(p[i*8:]))
	}
	return out, nil
}

// string[] payloads are a u32 element count followed by u32 length-prefixed
// strings.
func encodeStringArray(v []string) []byte {
	size := 4
	for _, s := range v {
		size += 4 + len(s)
	}

	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(v)))
	for _, s := range v {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(s)))
		out = append(out, s...)
	}
	return out
}

func decodeStringArray(p []byte) ([]string, error) {
	if len(p) < 4 {
		return nil, fmt.Errorf("%w: string[] needs a 4 byte count", ErrShortPayload)
	}
	count := binary.LittleEndian.Uint32(p)
	p = p[4:]

	// Every element needs at least its length prefix.
	if uint64(count)*4 > uint64(len(p)) {
		return nil, fmt.Errorf("%w: string[] count %d exceeds payload", ErrShortPayload, count)
	}

	out := make([]string, 0, count)
	for i := range count {
		if len(p) < 4 {
			return nil, fmt.Errorf("%w: string[] element %d has no length", ErrShortPayload, i)
		}
		n := binary.LittleEndian.Uint32(p)
		p = p[4:]
		if uint64(n) > uint64(len(p)) {
			return nil, fmt.Errorf("%w: string[] element %d needs %d bytes, have %d", ErrShortPayload, i, n, len(p))
		}
		out = append(out, string(p[:n]))
		p = p[n:]
	}
	return out, nil
}
