// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/sndkit/header"
)

func newRawDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "raw-defaults",
		Short: "Print how headerless files are interpreted",
		Long: `raw-defaults prints the sample rate, channel count and encoding used
for files without a recognizable header. Set them with the raw section of
the --config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rd := header.RawDefaultsValue()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "sample_rate: %d\nchannels: %d\nsample_type: %s\n",
				rd.SampleRate, rd.Chans, rd.SampleType)
			return err
		},
	}
}
