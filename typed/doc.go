// Package typed provides typed entries on top of datalog's raw byte entries.
//
// Each supported WPILOG type has a Codec that fixes its type name and its
// little-endian payload encoding:
//
//	boolean   1 byte, 0 or 1
//	int64     8 bytes
//	float     4 bytes, IEEE 754
//	double    8 bytes, IEEE 754
//	string    UTF-8 bytes
//	raw       the bytes as given
//	T[]       the element encodings concatenated
//	string[]  u32 count, then a u32 length and the bytes of each element
//
// Basic usage:
//
//	speed, err := typed.NewDouble(w, "/drive/speed", `{"unit":"m/s"}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer speed.Close()
//
//	_ = speed.Update(3.2)
//
// Decode turns a payload back into a Go value given the entry's type name.
package typed
