package timeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/PotentialStyx/wpilog/loser"
	"github.com/PotentialStyx/wpilog/monitoring"
	"github.com/PotentialStyx/wpilog/record"
	"github.com/PotentialStyx/wpilog/recordio"
	"github.com/google/btree"
)

var ErrSorterClosed = errors.New("timeline: sorter is closed")

const (
	classStart = iota
	classOther
)

type item struct {
	class uint8
	pos   uint64
	raw   record.Raw
}

func (a item) less(b item) bool {
	if a.class != b.class {
		return a.class < b.class
	}
	if a.raw.Timestamp != b.raw.Timestamp {
		return a.raw.Timestamp < b.raw.Timestamp
	}
	return a.pos < b.pos
}

func classOf(raw record.Raw) uint8 {
	if raw.IsControl() && len(raw.Data) > 0 && record.ControlType(raw.Data[0]) == record.ControlStart {
		return classStart
	}
	return classOther
}

// frameLess orders frames across runs. Stream position is not stored in a
// spilled run; the merge breaks ties by run order instead, and runs are
// consecutive slices of the input.
func frameLess(a, b record.Raw) bool {
	ca, cb := classOf(a), classOf(b)
	if ca != cb {
		return ca < cb
	}
	return a.Timestamp < b.Timestamp
}

// Sorter reorders the frames of a log by timestamp. Frames with equal
// timestamps keep their stream order and every Start frame is moved ahead
// of all other frames, so data never precedes the Start of its entry.
//
// Input larger than the run size is sorted in runs that are spilled to
// temporary files in the log format itself and merged back lazily. A Sorter
// is not safe for concurrent use.
type Sorter struct {
	opts   options
	spills []string
	err    error
	closed bool
}

func New(opts ...Option) *Sorter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Sorter{opts: o}
}

// Sort consumes frames and returns them in timeline order. Spilled runs are
// read back while the result is iterated; a failure there ends the result
// early and is reported by Err.
func (s *Sorter) Sort(ctx context.Context, frames iter.Seq[record.Raw]) (iter.Seq[record.Raw], error) {
	if s.closed {
		return nil, ErrSorterClosed
	}

	var (
		runs []iter.Seq[record.Raw]
		run  = newRun()
		pos  uint64
	)
	for raw := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if run.Len() >= s.opts.runSize {
			path, err := s.spill(run)
			if err != nil {
				return nil, err
			}
			runs = append(runs, s.readRun(path))
			run = newRun()
		}
		run.ReplaceOrInsert(item{class: classOf(raw), pos: pos, raw: raw})
		pos++
	}
	runs = append(runs, ascend(run))

	s.opts.logger.Log(ctx, monitoring.DEBUG, "sort_ready", "frames sorted into runs", map[string]interface{}{
		"frames":  pos,
		"runs":    len(runs),
		"spilled": len(runs) - 1,
	})

	if len(runs) == 1 {
		return runs[0], nil
	}
	return loser.Merge(frameLess, runs...), nil
}

func newRun() *btree.BTreeG[item] {
	return btree.NewG[item](32, item.less)
}

func ascend(run *btree.BTreeG[item]) iter.Seq[record.Raw] {
	return func(yield func(record.Raw) bool) {
		run.Ascend(func(it item) bool {
			return yield(it.raw)
		})
	}
}

func (s *Sorter) spill(run *btree.BTreeG[item]) (string, error) {
	f, err := os.CreateTemp(s.opts.tempDir, "wpilog-run-*.wpilog")
	if err != nil {
		return "", fmt.Errorf("failed to create run file: %w", err)
	}
	s.spills = append(s.spills, f.Name())
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := recordio.WriteHeader(w, nil); err != nil {
		return "", err
	}

	var writeErr error
	run.Ascend(func(it item) bool {
		if _, err := recordio.WriteRaw(w, it.raw); err != nil {
			writeErr = err
			return false
		}
		return true
	})
	if writeErr != nil {
		return "", fmt.Errorf("failed to spill run %s: %w", f.Name(), writeErr)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to spill run %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to spill run %s: %w", f.Name(), err)
	}

	s.opts.logger.Log(context.Background(), monitoring.DEBUG, "run_spilled", "sorted run written to disk", map[string]interface{}{
		"path":   f.Name(),
		"frames": run.Len(),
	})

	return f.Name(), nil
}

func (s *Sorter) readRun(path string) iter.Seq[record.Raw] {
	return func(yield func(record.Raw) bool) {
		f, err := os.Open(path)
		if err != nil {
			s.fail(fmt.Errorf("failed to open run: %w", err))
			return
		}
		defer f.Close()

		r := bufio.NewReader(f)
		if _, err := recordio.ReadHeader(r); err != nil {
			s.fail(fmt.Errorf("failed to read run %s: %w", path, err))
			return
		}
		for {
			raw, err := recordio.ReadFrame(r)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				s.fail(fmt.Errorf("failed to read run %s: %w", path, err))
				return
			}
			if !yield(raw) {
				return
			}
		}
	}
}

func (s *Sorter) fail(err error) {
	if s.err == nil {
		s.err = err
	}
	s.opts.logger.Log(context.Background(), monitoring.ERROR, "run_read_error", "failed to read spilled run", map[string]interface{}{
		"error": err.Error(),
	})
}

// Err returns the first error hit while reading spilled runs back.
func (s *Sorter) Err() error {
	return s.err
}

// Spilled returns the number of runs written to disk so far.
func (s *Sorter) Spilled() int {
	return len(s.spills)
}

// Close removes every spilled run. Sequences returned by Sort must not be
// iterated afterwards.
func (s *Sorter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for _, path := range s.spills {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	s.spills = nil
	return errors.Join(errs...)
}
