package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/PotentialStyx/wpilog/catalog"
	"github.com/PotentialStyx/wpilog/internal/filter"
	"github.com/PotentialStyx/wpilog/monitoring"
	"github.com/PotentialStyx/wpilog/record"
	"github.com/PotentialStyx/wpilog/timeline"
	"github.com/PotentialStyx/wpilog/typed"
	"github.com/spf13/cobra"
)

type dumpOptions struct {
	filter string
	sorted bool
	limit  int
}

func (a *app) dumpCmd() *cobra.Command {
	var opts dumpOptions

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the records of a log",
		Long: `Print every record of a log, decoding data payloads by entry type.

The --filter expression is CEL evaluated per record against the record's
entry: id, name, type_name, metadata, json (parsed metadata), ts and size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closer, err := openLog(args[0])
			if err != nil {
				return err
			}
			defer closer.Close()

			f, err := filter.Compile(opts.filter)
			if err != nil {
				return err
			}

			frames := r.All()
			if opts.sorted {
				sorter := timeline.New(
					timeline.WithRunSize(a.cfg.SortRunSize),
					timeline.WithTempDir(a.cfg.TempDir),
					timeline.WithLogger(a.logger),
				)
				defer sorter.Close()

				if frames, err = sorter.Sort(cmd.Context(), frames); err != nil {
					return err
				}
				if err := a.dump(cmd.Context(), cmd.OutOrStdout(), frames, f, opts.limit); err != nil {
					return err
				}
				return sorter.Err()
			}

			return a.dump(cmd.Context(), cmd.OutOrStdout(), frames, f, opts.limit)
		},
	}
	cmd.Flags().StringVar(&opts.filter, "filter", "", "CEL expression selecting records")
	cmd.Flags().BoolVar(&opts.sorted, "sorted", false, "Print in timestamp order instead of file order")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Stop after this many records (0 prints all)")
	return cmd
}

// dump prints frames, tracking entries as it goes so data can be decoded by
// type and filtered by entry.
func (a *app) dump(ctx context.Context, out io.Writer, frames iter.Seq[record.Raw], f filter.Filter, limit int) error {
	cat := catalog.New()
	printed := 0

	for raw := range frames {
		rec, err := record.Interpret(raw)
		if err != nil {
			a.logger.Log(ctx, monitoring.WARN, "malformed_record", "skipping record", map[string]interface{}{
				"timestamp": raw.Timestamp,
				"error":     err.Error(),
			})
			continue
		}
		if err := cat.Apply(rec); err != nil {
			a.logger.Log(ctx, monitoring.WARN, "lifecycle_violation", "record does not fit entry lifecycle", map[string]interface{}{
				"timestamp": rec.Timestamp,
				"error":     err.Error(),
			})
		}

		id := rec.ID
		if c, ok := rec.Control(); ok {
			id = c.Target()
		}
		entry, _ := cat.Lookup(id)

		if f.Enabled() && !f.Match(filter.Fields{
			ID:        entry.ID,
			Name:      entry.Name,
			Type:      entry.Type,
			Metadata:  entry.Metadata,
			JSON:      entry.MetadataMap(),
			Timestamp: rec.Timestamp,
			Size:      len(raw.Data),
		}) {
			continue
		}

		if _, err := fmt.Fprintln(out, formatRecord(rec, entry)); err != nil {
			return err
		}
		printed++
		if limit > 0 && printed >= limit {
			break
		}
	}
	return nil
}

func formatRecord(rec record.Record, entry catalog.Entry) string {
	switch info := rec.Info.(type) {
	case record.Start:
		return fmt.Sprintf("%d start %d %q type=%s metadata=%q", rec.Timestamp, info.EntryID, info.Name, info.Type, info.Metadata)
	case record.Finish:
		return fmt.Sprintf("%d finish %d %q", rec.Timestamp, info.EntryID, entry.Name)
	case record.SetMetadata:
		return fmt.Sprintf("%d set_metadata %d %q metadata=%q", rec.Timestamp, info.EntryID, entry.Name, info.Metadata)
	case record.Data:
		return fmt.Sprintf("%d data %d %q %s", rec.Timestamp, rec.ID, entry.Name, formatValue(entry.Type, info))
	default:
		return fmt.Sprintf("%d unknown", rec.Timestamp)
	}
}

func formatValue(typeName string, payload []byte) string {
	v, err := typed.Decode(typeName, payload)
	if err != nil {
		if !errors.Is(err, typed.ErrUnknownType) {
			return fmt.Sprintf("<%v> % x", err, payload)
		}
		return fmt.Sprintf("% x", payload)
	}
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case []byte:
		return fmt.Sprintf("% x", v)
	case []string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
