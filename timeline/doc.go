// Package timeline replays a log in timestamp order.
//
// Frames in a WPILOG file appear in the order they were queued, which is
// not the order of their timestamps once producers backfill or use
// synchronized clocks. A Sorter reads every frame of a log and hands them
// back ordered by timestamp, with Start frames first so that each entry is
// declared before any of its data.
//
// Memory is bounded by the run size: full runs are written to temporary
// WPILOG files and merged with a loser tree when the result is iterated.
//
//	s := timeline.New(timeline.WithRunSize(100_000))
//	defer s.Close()
//
//	sorted, err := s.Sort(ctx, reader.All())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for raw := range sorted {
//	    ...
//	}
//	if err := s.Err(); err != nil {
//	    log.Fatal(err)
//	}
package timeline
