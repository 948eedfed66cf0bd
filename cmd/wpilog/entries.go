package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/PotentialStyx/wpilog/catalog"
	"github.com/PotentialStyx/wpilog/internal/filter"
	"github.com/PotentialStyx/wpilog/monitoring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (a *app) entriesCmd() *cobra.Command {
	var (
		expr       string
		activeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "entries <file>",
		Short: "List the entries of a log",
		Long: `List every entry started in a log with its type, metadata and record count.

The --filter expression sees id, name, type_name, metadata, json, ts and
size, where ts is the start timestamp and size is the record count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filter.Compile(expr)
			if err != nil {
				return err
			}

			r, closer, err := openLog(args[0])
			if err != nil {
				return err
			}
			defer closer.Close()

			cat, err := catalog.Load(r.Records())
			if err != nil {
				for _, e := range unjoin(err) {
					a.logger.Log(cmd.Context(), monitoring.WARN, "lifecycle_violation", "record does not fit entry lifecycle", map[string]interface{}{
						"error": e.Error(),
					})
				}
			}

			entries := cat.All()
			if activeOnly {
				entries = cat.Active()
			}

			sb := &strings.Builder{}
			table := newTable(sb)
			table.SetHeader([]string{"ID", "NAME", "TYPE", "RECORDS", "START", "FINISH", "METADATA"})
			for e := range entries {
				if !f.Match(filter.Fields{
					ID:        e.ID,
					Name:      e.Name,
					Type:      e.Type,
					Metadata:  e.Metadata,
					JSON:      e.MetadataMap(),
					Timestamp: e.Started,
					Size:      int(e.Records),
				}) {
					continue
				}
				finish := "-"
				if !e.Active {
					finish = strconv.FormatUint(e.Finished, 10)
				}
				table.Append([]string{
					strconv.FormatUint(uint64(e.ID), 10),
					e.Name,
					e.Type,
					strconv.FormatInt(e.Records, 10),
					strconv.FormatUint(e.Started, 10),
					finish,
					e.Metadata,
				})
			}
			table.Render()

			_, err = io.WriteString(cmd.OutOrStdout(), sb.String())
			return err
		},
	}
	cmd.Flags().StringVar(&expr, "filter", "", "CEL expression selecting entries")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only list entries that were never finished")
	return cmd
}

// newTable returns a borderless, left-aligned table that never wraps cells,
// so each entry stays on one line.
func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// unjoin splits an error built with errors.Join back into its parts.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
