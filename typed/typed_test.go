package typed_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/PotentialStyx/wpilog/datalog"
	"github.com/PotentialStyx/wpilog/record"
	"github.com/PotentialStyx/wpilog/typed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodings(t *testing.T) {
	tests := []struct {
		name     string
		typeName string
		payload  []byte
		want     any
	}{
		{
			name:     "boolean true",
			typeName: typed.TypeBoolean,
			payload:  typed.Boolean.Encode(true),
			want:     true,
		},
		{
			name:     "int64",
			typeName: typed.TypeInt64,
			payload:  typed.Int64.Encode(-2),
			want:     int64(-2),
		},
		{
			name:     "float",
			typeName: typed.TypeFloat,
			payload:  typed.Float.Encode(1.5),
			want:     float32(1.5),
		},
		{
			name:     "double",
			typeName: typed.TypeDouble,
			payload:  typed.Double.Encode(math.Pi),
			want:     math.Pi,
		},
		{
			name:     "string",
			typeName: typed.TypeString,
			payload:  typed.String.Encode("héllo"),
			want:     "héllo",
		},
		{
			name:     "raw",
			typeName: typed.TypeRaw,
			payload:  typed.Raw.Encode([]byte{1, 2}),
			want:     []byte{1, 2},
		},
		{
			name:     "boolean array",
			typeName: typed.TypeBooleanArray,
			payload:  typed.BooleanArray.Encode([]bool{true, false, true}),
			want:     []bool{true, false, true},
		},
		{
			name:     "int64 array",
			typeName: typed.TypeInt64Array,
			payload:  typed.Int64Array.Encode([]int64{1, math.MinInt64, math.MaxInt64}),
			want:     []int64{1, math.MinInt64, math.MaxInt64},
		},
		{
			name:     "float array",
			typeName: typed.TypeFloatArray,
			payload:  typed.FloatArray.Encode([]float32{0.25, -8}),
			want:     []float32{0.25, -8},
		},
		{
			name:     "double array",
			typeName: typed.TypeDoubleArray,
			payload:  typed.DoubleArray.Encode([]float64{1e-9, 42}),
			want:     []float64{1e-9, 42},
		},
		{
			name:     "string array",
			typeName: typed.TypeStringArray,
			payload:  typed.StringArray.Encode([]string{"a", "", "bcd"}),
			want:     []string{"a", "", "bcd"},
		},
		{
			name:     "empty string array",
			typeName: typed.TypeStringArray,
			payload:  typed.StringArray.Encode(nil),
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := typed.Decode(tt.typeName, tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWireLayout(t *testing.T) {
	assert.Equal(t, []byte{1}, typed.Boolean.Encode(true))
	assert.Equal(t, []byte{0}, typed.Boolean.Encode(false))
	assert.Equal(t, []byte{0x01, 0x02, 0, 0, 0, 0, 0, 0}, typed.Int64.Encode(0x0201))
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, typed.Float.Encode(1))
	assert.Equal(t, []byte{
		2, 0, 0, 0,
		1, 0, 0, 0, 'a',
		2, 0, 0, 0, 'b', 'c',
	}, typed.StringArray.Encode([]string{"a", "bc"}))

	// Eight bytes per element.
	assert.Len(t, typed.Int64Array.Encode([]int64{1, 2, 3}), 24)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		typeName string
		payload  []byte
		wantErr  error
	}{
		{name: "unknown type", typeName: "struct:Pose2d", payload: []byte{1}, wantErr: typed.ErrUnknownType},
		{name: "empty boolean", typeName: typed.TypeBoolean, payload: nil, wantErr: typed.ErrShortPayload},
		{name: "short int64", typeName: typed.TypeInt64, payload: []byte{1, 2, 3}, wantErr: typed.ErrShortPayload},
		{name: "short float", typeName: typed.TypeFloat, payload: []byte{1}, wantErr: typed.ErrShortPayload},
		{name: "short double", typeName: typed.TypeDouble, payload: make([]byte, 7), wantErr: typed.ErrShortPayload},
		{name: "ragged int64 array", typeName: typed.TypeInt64Array, payload: make([]byte, 12), wantErr: typed.ErrShortPayload},
		{name: "ragged float array", typeName: typed.TypeFloatArray, payload: make([]byte, 6), wantErr: typed.ErrShortPayload},
		{name: "ragged double array", typeName: typed.TypeDoubleArray, payload: make([]byte, 9), wantErr: typed.ErrShortPayload},
		{name: "string array without count", typeName: typed.TypeStringArray, payload: []byte{1}, wantErr: typed.ErrShortPayload},
		{name: "string array count too large", typeName: typed.TypeStringArray, payload: []byte{0xff, 0xff, 0xff, 0xff}, wantErr: typed.ErrShortPayload},
		{name: "string array element truncated", typeName: typed.TypeStringArray, payload: []byte{1, 0, 0, 0, 5, 0, 0, 0, 'a'}, wantErr: typed.ErrShortPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := typed.Decode(tt.typeName, tt.payload)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type ticker struct{ n uint64 }

func (c *ticker) Now() uint64 {
	c.n++
	return c.n
}

func TestEntriesThroughWriter(t *testing.T) {
	buf := new(bytes.Buffer)
	w, err := datalog.NewWriter(buf, &ticker{})
	require.NoError(t, err)

	b, err := typed.NewBoolean(w, "/enabled", "")
	require.NoError(t, err)
	i, err := typed.NewInt64Array(w, "/ids", `{"source":"test"}`)
	require.NoError(t, err)
	s, err := typed.NewStringArray(w, "/names", "")
	require.NoError(t, err)

	require.NoError(t, b.Update(true))
	require.NoError(t, i.UpdateWithTimestamp([]int64{7, 8}, 99))
	require.NoError(t, s.Update([]string{"x", "y"}))
	require.NoError(t, b.Close())
	require.NoError(t, i.Close())
	require.NoError(t, s.Close())
	require.NoError(t, w.Close())

	r, err := datalog.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	types := map[uint32]string{}
	var values []any
	for rec, err := range r.Records() {
		require.NoError(t, err)
		if c, ok := rec.Control(); ok {
			if start, ok := c.(record.Start); ok {
				types[start.EntryID] = start.Type
			}
			continue
		}
		data, _ := rec.Data()
		v, err := typed.Decode(types[rec.ID], data)
		require.NoError(t, err)
		values = append(values, v)
	}

	assert.Equal(t, map[uint32]string{
		b.Raw().ID(): typed.TypeBoolean,
		i.Raw().ID(): typed.TypeInt64Array,
		s.Raw().ID(): typed.TypeStringArray,
	}, types)
	assert.Equal(t, []any{true, []int64{7, 8}, []string{"x", "y"}}, values)
}

func TestNewOnClosedWriter(t *testing.T) {
	w, err := datalog.NewWriter(new(bytes.Buffer), &ticker{})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = typed.NewDouble(w, "/late", "")
	assert.ErrorIs(t, err, datalog.ErrClosed)
}
