// Package catalog follows entry lifecycles through a stream of records.
//
// Feed it records in stream order with Apply, or build it in one pass from
// a reader with Load. Each Start record creates an entry, SetMetadata
// replaces its metadata, Finish retires it, and data records are counted
// against it. Records that break the lifecycle (data for an id that was
// never started, a second Start for a live id) are reported as errors but
// the catalog stays usable.
//
//	r, err := datalog.NewReader(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cat, err := catalog.Load(r.Records())
//	if err != nil {
//	    log.Printf("lifecycle problems: %v", err)
//	}
//	for e := range cat.All() {
//	    fmt.Println(e.ID, e.Name, e.Type, e.Records)
//	}
package catalog
