package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/PotentialStyx/wpilog/datalog"
	"github.com/PotentialStyx/wpilog/metrics"
	"github.com/PotentialStyx/wpilog/monitoring"
	"github.com/PotentialStyx/wpilog/typed"
	"github.com/spf13/cobra"
)

const defaultGenerateFile = "generate-out.wpilog"

func (a *app) generateCmd() *cobra.Command {
	var extra string

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Write a sample log with one entry of every type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultGenerateFile
			if len(args) == 1 {
				path = args[0]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Writing example file with all datatypes to %s\n", path)

			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if err != nil {
				return err
			}
			reg := metrics.NewRegistry()
			if err := writeSample(f, a.logger, reg, []byte(extra)); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			details := map[string]interface{}{"path": path}
			for _, v := range reg.Snapshot() {
				details[v.Name] = v.Value
			}
			a.logger.Log(cmd.Context(), monitoring.INFO, "sample_written", "sample log written", details)
			return nil
		},
	}
	cmd.Flags().StringVar(&extra, "extra-header", "", "Opaque extra header stored in the file")
	return cmd
}

// sampleEntries holds one typed entry per supported type.
type sampleEntries struct {
	raw          *typed.Entry[[]byte]
	boolean      *typed.Entry[bool]
	int64        *typed.Entry[int64]
	float        *typed.Entry[float32]
	double       *typed.Entry[float64]
	string       *typed.Entry[string]
	booleanArray *typed.Entry[[]bool]
	int64Array   *typed.Entry[[]int64]
	floatArray   *typed.Entry[[]float32]
	doubleArray  *typed.Entry[[]float64]
	stringArray  *typed.Entry[[]string]
}

// close finishes every entry that was created. It is safe to call more than
// once and on a partially filled set.
func (e *sampleEntries) close() error {
	return errors.Join(
		closeEntry(e.raw),
		closeEntry(e.boolean),
		closeEntry(e.int64),
		closeEntry(e.float),
		closeEntry(e.double),
		closeEntry(e.string),
		closeEntry(e.booleanArray),
		closeEntry(e.int64Array),
		closeEntry(e.floatArray),
		closeEntry(e.doubleArray),
		closeEntry(e.stringArray),
	)
}

func closeEntry[T any](e *typed.Entry[T]) error {
	if e == nil {
		return nil
	}
	return e.Close()
}

// sampleEnd is the timestamp of the Finish records, after all sample data.
const sampleEnd = 6_000_000

// writeSample writes a small log covering every entry type. Entries start at
// time zero, data is logged with explicit timestamps one second apart and
// the entries finish at sampleEnd, so the file replays cleanly in timestamp
// order.
func writeSample(w io.Writer, logger monitoring.Logger, reg *metrics.Registry, extra []byte) (err error) {
	var now atomic.Uint64
	writer, err := datalog.NewWriter(w, datalog.TimeSourceFunc(now.Load),
		datalog.WithLogger(logger),
		datalog.WithMetrics(reg),
		datalog.WithExtraHeader(extra),
	)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	var e sampleEntries
	defer e.close() //nolint:errcheck // entry Close never fails
	if e.raw, err = typed.NewRaw(writer, "NT:Primitives/raw", ""); err != nil {
		return err
	}
	if e.boolean, err = typed.NewBoolean(writer, "NT:Primitives/boolean", ""); err != nil {
		return err
	}
	if e.int64, err = typed.NewInt64(writer, "NT:Primitives/int64", ""); err != nil {
		return err
	}
	if e.float, err = typed.NewFloat(writer, "NT:Primitives/float", ""); err != nil {
		return err
	}
	if e.double, err = typed.NewDouble(writer, "NT:Primitives/double", ""); err != nil {
		return err
	}
	if e.string, err = typed.NewString(writer, "NT:Primitives/string", ""); err != nil {
		return err
	}
	if e.booleanArray, err = typed.NewBooleanArray(writer, "NT:Array/Booleans", ""); err != nil {
		return err
	}
	if e.int64Array, err = typed.NewInt64Array(writer, "NT:Array/int64", ""); err != nil {
		return err
	}
	if e.floatArray, err = typed.NewFloatArray(writer, "NT:Array/float", ""); err != nil {
		return err
	}
	if e.doubleArray, err = typed.NewDoubleArray(writer, "NT:Array/double", ""); err != nil {
		return err
	}
	if e.stringArray, err = typed.NewStringArray(writer, "NT:Array/string", `{"source":"generate"}`); err != nil {
		return err
	}

	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	ts := uint64(1_000_000)
	check(e.raw.UpdateWithTimestamp([]byte{0, 0}, ts))
	check(e.boolean.UpdateWithTimestamp(false, ts))
	check(e.int64.UpdateWithTimestamp(1, ts))
	check(e.float.UpdateWithTimestamp(0.25, ts))
	check(e.double.UpdateWithTimestamp(0.00000000025, ts))
	check(e.string.UpdateWithTimestamp("Hello", ts))
	check(e.booleanArray.UpdateWithTimestamp([]bool{false, false}, ts))
	check(e.int64Array.UpdateWithTimestamp([]int64{-2, -1}, ts))
	check(e.floatArray.UpdateWithTimestamp([]float32{-1.0, -0.5}, ts))
	check(e.doubleArray.UpdateWithTimestamp([]float64{-0.0000000001, -0.0000000005}, ts))
	check(e.stringArray.UpdateWithTimestamp([]string{"Hello", ", ", "World", "!"}, ts))

	ts = 2_000_000
	check(e.raw.UpdateWithTimestamp([]byte{0, 1}, ts))
	check(e.int64.UpdateWithTimestamp(2, ts))
	check(e.float.UpdateWithTimestamp(0.50, ts))
	check(e.double.UpdateWithTimestamp(0.00000000050, ts))
	check(e.string.UpdateWithTimestamp(", ", ts))
	check(e.booleanArray.UpdateWithTimestamp([]bool{false, true}, ts))
	check(e.floatArray.UpdateWithTimestamp([]float32{-0.5, 0}, ts))
	check(e.doubleArray.UpdateWithTimestamp([]float64{-0.0000000005, 0}, ts))

	ts = 3_000_000
	check(e.raw.UpdateWithTimestamp([]byte{1, 1}, ts))
	check(e.boolean.UpdateWithTimestamp(true, ts))
	check(e.int64.UpdateWithTimestamp(4, ts))
	check(e.float.UpdateWithTimestamp(0.75, ts))
	check(e.double.UpdateWithTimestamp(0.00000000075, ts))
	check(e.string.UpdateWithTimestamp("World", ts))
	check(e.booleanArray.UpdateWithTimestamp([]bool{true, false}, ts))
	check(e.int64Array.UpdateWithTimestamp([]int64{0, 1}, ts))
	check(e.floatArray.UpdateWithTimestamp([]float32{0, 0.5}, ts))
	check(e.doubleArray.UpdateWithTimestamp([]float64{0, 0.0000000005}, ts))
	check(e.stringArray.UpdateWithTimestamp([]string{"Goodbye", ", ", "World", "!"}, ts))

	ts = 4_000_000
	check(e.raw.UpdateWithTimestamp([]byte{1, 0}, ts))
	check(e.int64.UpdateWithTimestamp(8, ts))
	check(e.float.UpdateWithTimestamp(1.0, ts))
	check(e.double.UpdateWithTimestamp(0.00000000010, ts))
	check(e.string.UpdateWithTimestamp("!", ts))
	check(e.booleanArray.UpdateWithTimestamp([]bool{true, true}, ts))
	check(e.int64Array.UpdateWithTimestamp([]int64{1, 2}, ts))
	check(e.floatArray.UpdateWithTimestamp([]float32{0.5, 1.0}, ts))
	check(e.doubleArray.UpdateWithTimestamp([]float64{0.0000000005, 0.0000000001}, ts))

	ts = 5_000_000
	check(e.int64.UpdateWithTimestamp(8, ts))

	now.Store(sampleEnd)
	check(e.close())

	return errors.Join(errs...)
}
