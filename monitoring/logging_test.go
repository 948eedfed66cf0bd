package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredEntry(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewLoggerTo(buf, "writer", INFO)

	l.Log(context.Background(), WARN, "sink_error", "write failed", map[string]interface{}{"frames": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "writer", entry["component"])
	assert.Equal(t, "sink_error", entry["event_type"])
	assert.Equal(t, "write failed", entry["message"])
	assert.Equal(t, float64(3), entry["frames"])
	assert.Contains(t, entry, "time")
}

func TestLoggerFiltersLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewLoggerTo(buf, "writer", WARN)

	l.Log(context.Background(), DEBUG, "noise", "dropped", nil)
	l.Log(context.Background(), INFO, "noise", "dropped", nil)
	assert.Zero(t, buf.Len())

	l.Log(context.Background(), ERROR, "boom", "kept", nil)
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   LogLevel
		wantOK bool
	}{
		{in: "debug", want: DEBUG, wantOK: true},
		{in: " Info ", want: INFO, wantOK: true},
		{in: "", want: INFO, wantOK: true},
		{in: "warning", want: WARN, wantOK: true},
		{in: "ERROR", want: ERROR, wantOK: true},
		{in: "loud", want: INFO, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "ERROR", ERROR.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
