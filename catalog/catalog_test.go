package catalog_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/PotentialStyx/wpilog/catalog"
	"github.com/PotentialStyx/wpilog/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start(ts uint64, id uint32, name, typ, md string) record.Record {
	return record.NewControl(ts, record.Start{EntryID: id, Name: name, Type: typ, Metadata: md})
}

func TestApplyLifecycle(t *testing.T) {
	c := catalog.New()

	require.NoError(t, c.Apply(start(1, 2, "/b", "double", "")))
	require.NoError(t, c.Apply(start(2, 1, "/a", "int64", `{"unit":"m"}`)))
	require.NoError(t, c.Apply(record.NewData(1, 3, []byte{1})))
	require.NoError(t, c.Apply(record.NewData(1, 4, []byte{2})))
	require.NoError(t, c.Apply(record.NewControl(5, record.SetMetadata{EntryID: 2, Metadata: `{"unit":"s"}`})))
	require.NoError(t, c.Apply(record.NewControl(6, record.Finish{EntryID: 1})))

	assert.Equal(t, 2, c.Len())

	a, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, catalog.Entry{
		ID:            1,
		Name:          "/a",
		Type:          "int64",
		Metadata:      `{"unit":"m"}`,
		Started:       2,
		Finished:      6,
		Active:        false,
		Records:       2,
		LastTimestamp: 4,
	}, a)

	b, ok := c.Lookup(2)
	require.True(t, ok)
	assert.True(t, b.Active)
	assert.Equal(t, `{"unit":"s"}`, b.Metadata)

	_, ok = c.Lookup(3)
	assert.False(t, ok)

	var ids []uint32
	for e := range c.All() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []uint32{1, 2}, ids)

	ids = ids[:0]
	for e := range c.Active() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []uint32{2}, ids)
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name    string
		records []record.Record
		wantErr error
	}{
		{
			name:    "data for unknown entry",
			records: []record.Record{record.NewData(9, 1, nil)},
			wantErr: catalog.ErrUnknownEntry,
		},
		{
			name:    "finish for unknown entry",
			records: []record.Record{record.NewControl(1, record.Finish{EntryID: 9})},
			wantErr: catalog.ErrUnknownEntry,
		},
		{
			name:    "metadata for unknown entry",
			records: []record.Record{record.NewControl(1, record.SetMetadata{EntryID: 9, Metadata: "{}"})},
			wantErr: catalog.ErrUnknownEntry,
		},
		{
			name: "duplicate start",
			records: []record.Record{
				start(1, 1, "/a", "raw", ""),
				start(2, 1, "/b", "raw", ""),
			},
			wantErr: catalog.ErrDuplicateEntry,
		},
		{
			name: "data after finish",
			records: []record.Record{
				start(1, 1, "/a", "raw", ""),
				record.NewControl(2, record.Finish{EntryID: 1}),
				record.NewData(1, 3, nil),
			},
			wantErr: catalog.ErrFinishedEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := catalog.New()
			var err error
			for _, rec := range tt.records {
				err = c.Apply(rec)
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadCollectsErrors(t *testing.T) {
	errBad := errors.New("bad control payload")
	seq := func(yield func(record.Record, error) bool) {
		steps := []struct {
			rec record.Record
			err error
		}{
			{rec: start(1, 1, "/a", "raw", "")},
			{err: errBad},
			{rec: record.NewData(7, 2, nil)},
			{rec: record.NewData(1, 3, nil)},
		}
		for _, s := range steps {
			if !yield(s.rec, s.err) {
				return
			}
		}
	}

	c, err := catalog.Load(seq)
	assert.ErrorIs(t, err, errBad)
	assert.ErrorIs(t, err, catalog.ErrUnknownEntry)

	e, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, int64(1), e.Records)
}

func TestMetadataField(t *testing.T) {
	e := catalog.Entry{Metadata: `{"unit":"m/s","rate":50,"enabled":true,"nested":{"a":[1,2]}}`}

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{key: "unit", want: "m/s", wantOK: true},
		{key: "rate", want: "50", wantOK: true},
		{key: "enabled", want: "true", wantOK: true},
		{key: "nested", want: `{"a":[1,2]}`, wantOK: true},
		{key: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := e.MetadataField(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := catalog.Entry{Metadata: "not json"}.MetadataField("unit")
	assert.False(t, ok)
	_, ok = catalog.Entry{Metadata: "[1]"}.MetadataField("0")
	assert.False(t, ok)
	_, ok = catalog.Entry{}.MetadataField("unit")
	assert.False(t, ok)
}

func TestMetadataMap(t *testing.T) {
	e := catalog.Entry{Metadata: `{"unit":"m","rate":50,"gain":0.5,"on":false,"tags":["x"],"none":null}`}

	assert.Equal(t, map[string]any{
		"unit": "m",
		"rate": int64(50),
		"gain": 0.5,
		"on":   false,
		"tags": []any{"x"},
		"none": nil,
	}, e.MetadataMap())

	assert.Empty(t, catalog.Entry{Metadata: "{broken"}.MetadataMap())
	assert.Empty(t, catalog.Entry{}.MetadataMap())
}

func TestAllStopsEarly(t *testing.T) {
	c := catalog.New()
	for id := uint32(1); id <= 5; id++ {
		require.NoError(t, c.Apply(start(uint64(id), id, "/e", "raw", "")))
	}

	var got []uint32
	for e := range c.All() {
		got = append(got, e.ID)
		if len(got) == 2 {
			break
		}
	}
	assert.True(t, slices.Equal([]uint32{1, 2}, got))
}
