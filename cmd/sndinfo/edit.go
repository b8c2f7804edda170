// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/sndkit"
	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/sample"
)

func newConvertCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert file",
		Short: "Rewrite the header as another container, keeping the data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := header.ParseType(to)
			if err != nil {
				return err
			}
			if err := sndkit.ConvertType(args[0], t); err != nil {
				return err
			}
			return printHeader(cmd, args[0])
		},
	}
	cmd.Flags().StringVarP(&to, "type", "t", "", "target container (aiff, aifc, wav, rf64, caf, au, sf, nist, raw)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newSetCmd() *cobra.Command {
	var (
		rate, chans int
		samples     int64
		location    int64
		comment     string
		sampleType  string
	)
	cmd := &cobra.Command{
		Use:   "set file",
		Short: "Patch header fields in place",
		Long: `set changes the named header fields. The sample data is left alone, so
changing the sample type relabels the bytes rather than converting them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			flags := cmd.Flags()
			var errs []error
			if flags.Changed("sample-type") {
				st, err := sample.ParseType(sampleType)
				if err != nil {
					return err
				}
				errs = append(errs, sndkit.SetSampleType(path, st))
			}
			if flags.Changed("rate") {
				errs = append(errs, sndkit.SetSampleRate(path, rate))
			}
			if flags.Changed("chans") {
				errs = append(errs, sndkit.SetChans(path, chans))
			}
			if flags.Changed("samples") {
				errs = append(errs, sndkit.SetSamples(path, samples))
			}
			if flags.Changed("data-location") {
				errs = append(errs, sndkit.SetDataLocation(path, location))
			}
			if flags.Changed("comment") {
				errs = append(errs, sndkit.SetComment(path, comment))
			}
			if len(errs) == 0 {
				return errors.New("nothing to set")
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}
			return printHeader(cmd, path)
		},
	}
	f := cmd.Flags()
	f.IntVar(&rate, "rate", 0, "sample rate in Hz")
	f.IntVar(&chans, "chans", 0, "channel count")
	f.Int64Var(&samples, "samples", 0, "interleaved sample count")
	f.Int64Var(&location, "data-location", 0, "byte offset of the sample data")
	f.StringVar(&comment, "comment", "", "header comment")
	f.StringVar(&sampleType, "sample-type", "", "sample encoding (bshort, lshort, mulaw, ...)")
	return cmd
}

func printHeader(cmd *cobra.Command, path string) error {
	d, err := sndkit.Describe(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), d)
	return err
}
