// Package record defines the logical events stored in a WPILOG file and the
// encoding of control payloads.
//
// A Record is either a data record, carrying an opaque payload for a live
// entry, or a control record (id 0) that manages entry lifecycle:
//
//	Start       tag 0 | target u32 | name | type | metadata
//	Finish      tag 1 | target u32
//	SetMetadata tag 2 | target u32 | metadata
//
// Strings are a 4-byte little-endian length followed by UTF-8 bytes.
//
// Readers first slice frames into Raw values; Interpret turns a Raw into a
// Record, parsing control payloads on the way:
//
//	rec, err := record.Interpret(raw)
//	if err != nil {
//	    return err
//	}
//	if c, ok := rec.Control(); ok {
//	    fmt.Println(c.Kind(), c.Target())
//	}
package record
