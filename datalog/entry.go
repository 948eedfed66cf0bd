package datalog

import (
	"runtime"
	"sync/atomic"

	"github.com/PotentialStyx/wpilog/record"
)

// Entry is the handle for one entry id. It is safe for concurrent use;
// records logged from one goroutine are written in call order.
//
// Close emits the entry's Finish record. Callers should defer it right after
// MakeEntry. A handle that becomes unreachable without being closed has its
// Finish record queued by a runtime cleanup instead.
type Entry struct {
	id    uint32
	name  string
	typ   string
	w     *Writer
	state *entryState
}

type entryState struct {
	closed atomic.Bool
}

type finisher struct {
	w     *Writer
	id    uint32
	state *entryState
}

func newEntry(w *Writer, id uint32, name, typ string) *Entry {
	e := &Entry{
		id:    id,
		name:  name,
		typ:   typ,
		w:     w,
		state: &entryState{},
	}
	runtime.AddCleanup(e, func(f finisher) {
		f.finish()
	}, finisher{w: w, id: id, state: e.state})
	return e
}

// ID returns the entry id.
func (e *Entry) ID() uint32 { return e.id }

// Name returns the entry name given to MakeEntry.
func (e *Entry) Name() string { return e.name }

// Type returns the entry type given to MakeEntry.
func (e *Entry) Type() string { return e.typ }

// LogRaw logs payload stamped with the writer's time source.
func (e *Entry) LogRaw(payload []byte) error {
	return e.LogRawWithTimestamp(payload, e.w.time.Now())
}

// LogRawWithTimestamp logs payload with a caller supplied timestamp in
// microseconds. The payload is copied before LogRawWithTimestamp returns.
func (e *Entry) LogRawWithTimestamp(payload []byte, timestamp uint64) error {
	if e.state.closed.Load() {
		return ErrEntryClosed
	}
	return e.w.enqueueRecord(record.NewData(e.id, timestamp, payload))
}

// SetMetadata queues a SetMetadata record for this entry.
func (e *Entry) SetMetadata(metadata string) error {
	if e.state.closed.Load() {
		return ErrEntryClosed
	}
	return e.w.enqueueRecord(record.NewControl(e.w.time.Now(), record.SetMetadata{
		EntryID:  e.id,
		Metadata: metadata,
	}))
}

// Close queues the entry's Finish record. It never blocks and never fails:
// if the writer is already closed the Finish record is dropped. Calling
// Close more than once has no further effect.
func (e *Entry) Close() error {
	finisher{w: e.w, id: e.id, state: e.state}.finish()
	return nil
}

func (f finisher) finish() {
	if !f.state.closed.CompareAndSwap(false, true) {
		return
	}
	//nolint:errcheck // Nothing can be done once the writer is gone.
	_ = f.w.enqueueRecord(record.NewControl(f.w.time.Now(), record.Finish{EntryID: f.id}))
}
