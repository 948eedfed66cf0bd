package catalog

import (
	"errors"
	"fmt"
	"iter"

	"github.com/PotentialStyx/wpilog/record"
	"github.com/google/btree"
)

var (
	ErrUnknownEntry   = errors.New("catalog: record for unknown entry")
	ErrDuplicateEntry = errors.New("catalog: entry started twice")
	ErrFinishedEntry  = errors.New("catalog: record for finished entry")
)

// Entry is what the catalog knows about one entry id.
type Entry struct {
	ID       uint32
	Name     string
	Type     string
	Metadata string

	// Started and Finished are the timestamps of the Start and Finish
	// records. Finished is only meaningful when Active is false.
	Started  uint64
	Finished uint64
	Active   bool

	// Records counts the data records seen for the entry and LastTimestamp
	// is the timestamp of the most recent one.
	Records       int64
	LastTimestamp uint64
}

// Catalog tracks the lifecycle of every entry in a record stream, ordered
// by entry id. It is not safe for concurrent use.
type Catalog struct {
	entries *btree.BTreeG[*Entry]
}

func New() *Catalog {
	return &Catalog{
		entries: btree.NewG[*Entry](2, func(a, b *Entry) bool {
			return a.ID < b.ID
		}),
	}
}

// Load builds a catalog from records. Conversion errors and records that do
// not fit the lifecycle are collected and returned together; they never stop
// the scan.
func Load(records iter.Seq2[record.Record, error]) (*Catalog, error) {
	c := New()

	var errs []error
	for rec, err := range records {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := c.Apply(rec); err != nil {
			errs = append(errs, err)
		}
	}

	return c, errors.Join(errs...)
}

// Apply updates the catalog with one record.
//
// A Start for an id that is already active replaces the entry and returns
// ErrDuplicateEntry. Data, SetMetadata and Finish records for an id that was
// never started return ErrUnknownEntry and are otherwise ignored. Records
// for a finished entry are counted and return ErrFinishedEntry.
func (c *Catalog) Apply(rec record.Record) error {
	ctl, ok := rec.Control()
	if !ok {
		e, err := c.live(rec.ID)
		if e != nil {
			e.Records++
			e.LastTimestamp = rec.Timestamp
		}
		return err
	}

	switch ctl := ctl.(type) {
	case record.Start:
		prev, found := c.entries.ReplaceOrInsert(&Entry{
			ID:       ctl.EntryID,
			Name:     ctl.Name,
			Type:     ctl.Type,
			Metadata: ctl.Metadata,
			Started:  rec.Timestamp,
			Active:   true,
		})
		if found && prev.Active {
			return fmt.Errorf("%w: id %d (%q, then %q)", ErrDuplicateEntry, ctl.EntryID, prev.Name, ctl.Name)
		}
	case record.SetMetadata:
		e, err := c.live(ctl.EntryID)
		if e != nil {
			e.Metadata = ctl.Metadata
		}
		return err
	case record.Finish:
		e, err := c.live(ctl.EntryID)
		if e != nil && e.Active {
			e.Active = false
			e.Finished = rec.Timestamp
		}
		return err
	}
	return nil
}

// live returns the entry for id along with the lifecycle error, if any, of
// using it. The entry is nil only when id was never started.
func (c *Catalog) live(id uint32) (*Entry, error) {
	e, ok := c.entries.Get(&Entry{ID: id})
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownEntry, id)
	}
	if !e.Active {
		return e, fmt.Errorf("%w: id %d (%q)", ErrFinishedEntry, id, e.Name)
	}
	return e, nil
}

// Lookup returns a copy of the entry with the given id.
func (c *Catalog) Lookup(id uint32) (Entry, bool) {
	e, ok := c.entries.Get(&Entry{ID: id})
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Len returns the number of entries ever started.
func (c *Catalog) Len() int {
	return c.entries.Len()
}

// All iterates over every entry in id order.
func (c *Catalog) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		c.entries.Ascend(func(e *Entry) bool {
			return yield(*e)
		})
	}
}

// Active iterates over the entries that have not been finished, in id order.
func (c *Catalog) Active() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		c.entries.Ascend(func(e *Entry) bool {
			if !e.Active {
				return true
			}
			return yield(*e)
		})
	}
}
