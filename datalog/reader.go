package datalog

import (
	"io"
	"iter"

	"github.com/PotentialStyx/wpilog/record"
	"github.com/PotentialStyx/wpilog/recordio"
)

// Reader streams the frames of a log. It is forward only: the frames of the
// underlying source can be iterated once.
type Reader struct {
	r      io.Reader
	header recordio.Header
}

// NewReader reads and validates the file header. A bad header fails here and
// no Reader is returned.
func NewReader(r io.Reader) (*Reader, error) {
	br := recordio.NewBufferedReader(r)

	header, err := recordio.ReadHeader(br)
	if err != nil {
		return nil, err
	}

	return &Reader{r: br, header: header}, nil
}

// ExtraHeader returns the opaque blob stored after the version.
func (r *Reader) ExtraHeader() []byte {
	return r.header.Extra
}

// Version returns the format version from the header.
func (r *Reader) Version() uint16 {
	return r.header.Version
}

// All returns the raw frames. The sequence ends at the end of the source or
// at the first frame that cannot be read, so a truncated tail is dropped
// without an error.
func (r *Reader) All() iter.Seq[record.Raw] {
	return recordio.Seq(r.r)
}

// Records returns each frame interpreted as a Record. A control payload that
// cannot be parsed is yielded as an error for that frame and iteration
// continues with the next frame.
func (r *Reader) Records() iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		for raw := range r.All() {
			if !yield(record.Interpret(raw)) {
				return
			}
		}
	}
}
