package record

import (
	"errors"
	"fmt"
)

// ControlID is the record id reserved for control records.
const ControlID uint32 = 0

var ErrInvalidID = errors.New("record: invalid id")

// Record is one logical log event.
type Record struct {
	// ID is the entry id for data records and ControlID for control records.
	ID uint32
	// Timestamp is in microseconds.
	Timestamp uint64
	Info      Info
}

// Info is either Data or one of the Control kinds.
type Info interface {
	info()
}

// Data is the opaque payload of a data record.
type Data []byte

func (Data) info() {}

// ControlType is the on-wire tag of a control payload.
type ControlType uint8

const (
	ControlStart ControlType = iota
	ControlFinish
	ControlSetMetadata
)

func (t ControlType) String() string {
	switch t {
	case ControlStart:
		return "start"
	case ControlFinish:
		return "finish"
	case ControlSetMetadata:
		return "set_metadata"
	default:
		return fmt.Sprintf("ControlType(%d)", uint8(t))
	}
}

// Control is implemented by Start, Finish and SetMetadata.
type Control interface {
	Info
	// Target is the entry id the control message refers to.
	Target() uint32
	Kind() ControlType
}

// Start declares that EntryID denotes a new entry.
type Start struct {
	EntryID  uint32
	Name     string
	Type     string
	Metadata string
}

func (Start) info() {}

func (s Start) Target() uint32 { return s.EntryID }

func (Start) Kind() ControlType { return ControlStart }

// Finish retires EntryID.
type Finish struct {
	EntryID uint32
}

func (Finish) info() {}

func (f Finish) Target() uint32 { return f.EntryID }

func (Finish) Kind() ControlType { return ControlFinish }

// SetMetadata replaces the metadata of EntryID.
type SetMetadata struct {
	EntryID  uint32
	Metadata string
}

func (SetMetadata) info() {}

func (m SetMetadata) Target() uint32 { return m.EntryID }

func (SetMetadata) Kind() ControlType { return ControlSetMetadata }

// NewData builds a data record for entry id.
func NewData(id uint32, timestamp uint64, payload []byte) Record {
	return Record{ID: id, Timestamp: timestamp, Info: Data(payload)}
}

// NewControl builds a control record carrying c.
func NewControl(timestamp uint64, c Control) Record {
	return Record{ID: ControlID, Timestamp: timestamp, Info: c}
}

// IsControl reports whether r is a control record.
func (r Record) IsControl() bool {
	_, ok := r.Info.(Control)
	return ok
}

// Control returns the control payload of r, if any.
func (r Record) Control() (Control, bool) {
	c, ok := r.Info.(Control)
	return c, ok
}

// Data returns the payload of a data record.
func (r Record) Data() ([]byte, bool) {
	d, ok := r.Info.(Data)
	return d, ok
}

// Validate checks that the record id agrees with its kind.
func (r Record) Validate() error {
	switch info := r.Info.(type) {
	case Data:
		if r.ID == ControlID {
			return fmt.Errorf("%w: data record must not use id %d", ErrInvalidID, ControlID)
		}
	case Control:
		if r.ID != ControlID {
			return fmt.Errorf("%w: control record must use id %d, got %d", ErrInvalidID, ControlID, r.ID)
		}
		if info.Target() == ControlID {
			return fmt.Errorf("%w: control target must not be %d", ErrInvalidID, ControlID)
		}
	case nil:
		return fmt.Errorf("%w: record has no info", ErrInvalidID)
	}
	return nil
}

// Raw is a frame as sliced from the stream, before control payloads are parsed.
type Raw struct {
	ID        uint32
	Timestamp uint64
	Data      []byte
}

// IsControl reports whether the frame carries a control payload.
func (r Raw) IsControl() bool {
	return r.ID == ControlID
}
