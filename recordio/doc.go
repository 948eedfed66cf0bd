// Package recordio implements the WPILOG binary frame format. It provides
// the file header, frame encoding and a lenient streaming decoder.
//
// File layout (all integers little-endian):
//
//	"WPILOG" | version u16 (0x0100) | extra header length u32 | extra header
//	frame*
//
// Each frame starts with a control byte holding the byte lengths of the three
// variable-length fields that follow, then the payload:
//
//	control byte: bits 0-1 id length-1, bits 2-3 size length-1, bits 4-6 timestamp length-1
//	id        1-4 bytes (a single 0x00 byte for control records)
//	size      1-4 bytes
//	timestamp 1-8 bytes, microseconds
//	payload   size bytes
//
// Basic usage:
//
//	var buf bytes.Buffer
//	if _, err := recordio.WriteHeader(&buf, nil); err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := recordio.Write(&buf, record.NewData(1, 1000, []byte{1})); err != nil {
//	    log.Fatal(err)
//	}
//
//	header, err := recordio.ReadHeader(&buf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for raw := range recordio.Seq(&buf) {
//	    fmt.Println(raw.ID, raw.Timestamp, raw.Data)
//	}
//
// Seq stops at the first frame it cannot read completely, so the intact
// prefix of a file left behind by a crashed writer is still readable.
package recordio
