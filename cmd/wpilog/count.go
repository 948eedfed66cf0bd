package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <file>",
		Short: "Count the frames of a log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closer, err := openLog(args[0])
			if err != nil {
				return err
			}
			defer closer.Close()

			var total, control int
			for raw := range r.All() {
				total++
				if raw.IsControl() {
					control++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %d.%d\n", r.Version()>>8, r.Version()&0xff)
			fmt.Fprintf(out, "extra header: %d bytes\n", len(r.ExtraHeader()))
			fmt.Fprintf(out, "frames: %d\n", total)
			fmt.Fprintf(out, "control: %d\n", control)
			fmt.Fprintf(out, "data: %d\n", total-control)
			return nil
		},
	}
}
