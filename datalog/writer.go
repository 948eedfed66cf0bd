package datalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/PotentialStyx/wpilog/metrics"
	"github.com/PotentialStyx/wpilog/monitoring"
	"github.com/PotentialStyx/wpilog/record"
	"github.com/PotentialStyx/wpilog/recordio"
	"github.com/gammazero/deque"
	"github.com/google/uuid"
)

var (
	ErrClosed      = errors.New("datalog: writer is closed")
	ErrSinkWrite   = errors.New("datalog: sink write failed")
	ErrEntryClosed = errors.New("datalog: entry is closed")
	ErrIDExhausted = errors.New("datalog: entry ids exhausted")
)

// Metric names recorded when the writer is created WithMetrics.
const (
	MetricFramesWritten  = "wpilog_frames_written"
	MetricBytesWritten   = "wpilog_bytes_written"
	MetricEntriesStarted = "wpilog_entries_started"
	MetricQueueDepth     = "wpilog_queue_depth"
)

// TimeSource provides the current timestamp in microseconds. It must be safe
// for concurrent use.
type TimeSource interface {
	Now() uint64
}

// TimeSourceFunc adapts a function to a TimeSource.
type TimeSourceFunc func() uint64

func (f TimeSourceFunc) Now() uint64 { return f() }

type message struct {
	frame []byte
	stop  bool
}

// Writer serializes log records from any number of goroutines into a single
// ordered stream. Encoded frames are queued without bounds and written by one
// background goroutine, so producers never wait on the sink.
type Writer struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   deque.Deque[message]
	closing bool
	failed  error

	nextID  atomic.Uint32
	time    TimeSource
	sink    *bufio.Writer
	done    chan struct{}
	session string
	opts    options

	// Owned by the worker goroutine.
	frames int64
	bytes  int64
}

// NewWriter writes the file header to w and starts the background worker.
// The caller keeps ownership of w and should close it after Close returns.
func NewWriter(w io.Writer, ts TimeSource, opts ...Option) (*Writer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if ts == nil {
		return nil, errors.New("datalog: time source is required")
	}

	sink := bufio.NewWriterSize(w, o.bufferSize)
	if _, err := recordio.WriteHeader(sink, o.extraHeader); err != nil {
		return nil, err
	}
	if err := sink.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	if o.metrics != nil {
		registerMetrics(o.metrics)
	}

	wr := &Writer{
		time:    ts,
		sink:    sink,
		done:    make(chan struct{}),
		session: uuid.NewString(),
		opts:    o,
	}
	wr.cond = sync.NewCond(&wr.mu)

	wr.log(monitoring.INFO, "pipeline_open", "writer started", map[string]interface{}{
		"extra_header_bytes": len(o.extraHeader),
	})

	go wr.run()

	return wr, nil
}

func registerMetrics(reg *metrics.Registry) {
	reg.Register(metrics.Metric{Name: MetricFramesWritten, Type: metrics.Counter, Description: "frames written to the sink"})
	reg.Register(metrics.Metric{Name: MetricBytesWritten, Type: metrics.Counter, Description: "bytes written to the sink"})
	reg.Register(metrics.Metric{Name: MetricEntriesStarted, Type: metrics.Counter, Description: "entries started"})
	reg.Register(metrics.Metric{Name: MetricQueueDepth, Type: metrics.Gauge, Description: "frames waiting for the worker"})
}

// Session returns the random id identifying this writer in log output.
func (w *Writer) Session() string {
	return w.session
}

// Now reads the writer's time source.
func (w *Writer) Now() uint64 {
	return w.time.Now()
}

// MakeEntry allocates the next entry id, queues its Start record and returns
// a handle for logging data under that id.
func (w *Writer) MakeEntry(name, typ, metadata string) (*Entry, error) {
	id, err := w.allocateID()
	if err != nil {
		return nil, err
	}

	rec := record.NewControl(w.time.Now(), record.Start{
		EntryID:  id,
		Name:     name,
		Type:     typ,
		Metadata: metadata,
	})
	if err := w.enqueueRecord(rec); err != nil {
		return nil, fmt.Errorf("failed to start entry %q: %w", name, err)
	}

	w.opts.metrics.Add(MetricEntriesStarted, 1)
	w.log(monitoring.DEBUG, "entry_start", "entry started", map[string]interface{}{
		"entry_id": id,
		"name":     name,
		"type":     typ,
	})

	return newEntry(w, id, name, typ), nil
}

// allocateID hands out ids 1, 2, 3... and never wraps around to reuse one.
func (w *Writer) allocateID() (uint32, error) {
	for {
		cur := w.nextID.Load()
		if cur == math.MaxUint32 {
			return 0, ErrIDExhausted
		}
		if w.nextID.CompareAndSwap(cur, cur+1) {
			return cur + 1, nil
		}
	}
}

func (w *Writer) enqueueRecord(rec record.Record) error {
	frame, err := recordio.Encode(rec)
	if err != nil {
		return err
	}
	return w.enqueue(frame)
}

func (w *Writer) enqueue(frame []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closing {
		return ErrClosed
	}
	if w.failed != nil {
		return fmt.Errorf("%w: %w", ErrSinkWrite, w.failed)
	}

	w.queue.PushBack(message{frame: frame})
	w.opts.metrics.Set(MetricQueueDepth, float64(w.queue.Len()))
	w.cond.Signal()
	return nil
}

// Close stops accepting records, waits for every queued frame to be written
// and flushes the sink. Records logged after Close begins are lost and the
// logging call returns ErrClosed. A sink failure seen by the worker is
// returned here, wrapped in ErrSinkWrite.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closing {
		w.mu.Unlock()
		return ErrClosed
	}
	w.closing = true
	if w.failed == nil {
		w.queue.PushBack(message{stop: true})
		w.cond.Signal()
	}
	w.mu.Unlock()

	<-w.done

	return w.Err()
}

// Done returns a channel that is closed when the worker exits, either after
// Close or after a sink failure.
func (w *Writer) Done() <-chan struct{} {
	return w.done
}

// Err returns the sink failure that stopped the worker, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.failed != nil {
		return fmt.Errorf("%w: %w", ErrSinkWrite, w.failed)
	}
	return nil
}

func (w *Writer) run() {
	defer close(w.done)

	for {
		w.mu.Lock()
		for w.queue.Len() == 0 {
			w.cond.Wait()
		}
		msg := w.queue.PopFront()
		depth := w.queue.Len()
		w.mu.Unlock()

		w.opts.metrics.Set(MetricQueueDepth, float64(depth))

		if msg.stop {
			if err := w.sink.Flush(); err != nil {
				w.fail(err)
				return
			}
			w.log(monitoring.INFO, "pipeline_close", "writer stopped", map[string]interface{}{
				"frames": w.frames,
				"bytes":  w.bytes,
			})
			return
		}

		n, err := w.sink.Write(msg.frame)
		if err != nil {
			w.fail(err)
			return
		}
		w.frames++
		w.bytes += int64(n)
		w.opts.metrics.Add(MetricFramesWritten, 1)
		w.opts.metrics.Add(MetricBytesWritten, float64(n))

		// Flush whenever the queue runs dry so a crash loses as little as possible.
		if depth == 0 {
			if err := w.sink.Flush(); err != nil {
				w.fail(err)
				return
			}
		}
	}
}

func (w *Writer) fail(err error) {
	w.mu.Lock()
	w.failed = err
	dropped := w.queue.Len()
	w.queue.Clear()
	w.mu.Unlock()

	w.log(monitoring.ERROR, "sink_error", "sink write failed", map[string]interface{}{
		"error":   err.Error(),
		"frames":  w.frames,
		"dropped": dropped,
	})
}

func (w *Writer) log(level monitoring.LogLevel, eventType, message string, details map[string]interface{}) {
	details["session"] = w.session
	w.opts.logger.Log(context.Background(), level, eventType, message, details)
}
