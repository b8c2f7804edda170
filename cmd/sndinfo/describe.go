// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/sndkit"
)

func newDescribeCmd() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "describe file...",
		Short: "Print the header of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := sndkit.DescribeMany(cmd.Context(), args...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range ds {
				fmt.Fprintln(out, d)
				if !long {
					continue
				}
				fmt.Fprintf(out, "  duration: %v\n", d.Duration())
				fmt.Fprintf(out, "  length:   %d bytes\n", d.TrueLength)
				if d.OriginalFormat != 0 {
					fmt.Fprintf(out, "  format:   0x%x\n", d.OriginalFormat)
				}
				if c, err := sndkit.Comment(d.Path); err == nil && c != "" {
					fmt.Fprintf(out, "  comment:  %q\n", c)
				}
				if d.Loops != nil {
					fmt.Fprintf(out, "  loops:    %+v\n", *d.Loops)
				}
				for _, m := range d.Markers {
					fmt.Fprintf(out, "  marker:   %+v\n", m)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "print duration, comment, loops and markers")
	return cmd
}
