// Package datalog writes and reads WPILOG files.
//
// A Writer owns the output stream. Any number of goroutines may hold Entry
// handles and log through them at the same time: each call encodes a frame
// and appends it to one unbounded FIFO queue, and a single background
// goroutine drains that queue into the sink. Logging never waits on I/O.
//
// Entry ids are handed out from 1 upwards and never reused. MakeEntry queues
// the entry's Start record before returning, and Entry.Close queues its
// Finish record. Records logged through one handle appear in the file in the
// order the calls were made.
//
// Close is the only blocking call. It waits until every frame queued before
// it has been written and the sink has been flushed. Frames logged after
// Close begins are rejected with ErrClosed. A sink write failure stops the
// worker; it is reported by Err, by Close and by every later logging call.
//
// Basic usage:
//
//	f, err := os.Create("robot.wpilog")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	clock := datalog.TimeSourceFunc(func() uint64 {
//	    return uint64(time.Now().UnixMicro())
//	})
//	w, err := datalog.NewWriter(f, clock)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	entry, err := w.MakeEntry("/drive/speed", "double", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = entry.LogRaw(payload)
//	_ = entry.Close()
//
//	if err := w.Close(); err != nil {
//	    log.Fatal(err)
//	}
//
// Reading is synchronous and lenient: NewReader rejects a bad header, but a
// frame cut short at the end of the file simply ends the iteration.
//
//	r, err := datalog.NewReader(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for rec, err := range r.Records() {
//	    ...
//	}
package datalog
