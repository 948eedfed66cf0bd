package typed

import (
	"github.com/PotentialStyx/wpilog/datalog"
)

// Entry logs values of one type through a raw datalog entry.
type Entry[T any] struct {
	raw   *datalog.Entry
	codec Codec[T]
}

// New starts an entry whose type name and payload encoding come from codec.
func New[T any](w *datalog.Writer, codec Codec[T], name, metadata string) (*Entry[T], error) {
	raw, err := w.MakeEntry(name, codec.TypeName(), metadata)
	if err != nil {
		return nil, err
	}
	return &Entry[T]{raw: raw, codec: codec}, nil
}

// Update logs value stamped with the writer's time source.
func (e *Entry[T]) Update(value T) error {
	return e.raw.LogRaw(e.codec.Encode(value))
}

// UpdateWithTimestamp logs value at timestamp, in microseconds.
func (e *Entry[T]) UpdateWithTimestamp(value T, timestamp uint64) error {
	return e.raw.LogRawWithTimestamp(e.codec.Encode(value), timestamp)
}

// Raw returns the underlying entry handle.
func (e *Entry[T]) Raw() *datalog.Entry { return e.raw }

// Close finishes the entry.
func (e *Entry[T]) Close() error { return e.raw.Close() }

func NewRaw(w *datalog.Writer, name, metadata string) (*Entry[[]byte], error) {
	return New(w, Raw, name, metadata)
}

func NewBoolean(w *datalog.Writer, name, metadata string) (*Entry[bool], error) {
	return New(w, Boolean, name, metadata)
}

func NewInt64(w *datalog.Writer, name, metadata string) (*Entry[int64], error) {
	return New(w, Int64, name, metadata)
}

func NewFloat(w *datalog.Writer, name, metadata string) (*Entry[float32], error) {
	return New(w, Float, name, metadata)
}

func NewDouble(w *datalog.Writer, name, metadata string) (*Entry[float64], error) {
	return New(w, Double, name, metadata)
}

func NewString(w *datalog.Writer, name, metadata string) (*Entry[string], error) {
	return New(w, String, name, metadata)
}

func NewBooleanArray(w *datalog.Writer, name, metadata string) (*Entry[[]bool], error) {
	return New(w, BooleanArray, name, metadata)
}

func NewInt64Array(w *datalog.Writer, name, metadata string) (*Entry[[]int64], error) {
	return New(w, Int64Array, name, metadata)
}

func NewFloatArray(w *datalog.Writer, name, metadata string) (*Entry[[]float32], error) {
	return New(w, FloatArray, name, metadata)
}

func NewDoubleArray(w *datalog.Writer, name, metadata string) (*Entry[[]float64], error) {
	return New(w, DoubleArray, name, metadata)
}

func NewStringArray(w *datalog.Writer, name, metadata string) (*Entry[[]string], error) {
	return New(w, StringArray, name, metadata)
}
