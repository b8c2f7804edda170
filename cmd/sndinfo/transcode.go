// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/ik5/sndkit"
	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/sample"
)

func newTranscodeCmd() *cobra.Command {
	var (
		to, sampleType string
		rate, chans    int
		clip           bool
	)
	cmd := &cobra.Command{
		Use:   "transcode in out",
		Short: "Decode a file and write it with another layout",
		Long: `transcode reads any file with PCM data, or MPEG and Ogg Vorbis audio,
resamples and remixes it and writes a new file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := header.ParseType(to)
			if err != nil {
				return err
			}
			st, err := sample.ParseType(sampleType)
			if err != nil {
				return err
			}
			in, err := sndkit.Describe(args[0])
			if err != nil {
				return err
			}
			if rate == 0 {
				rate = in.SampleRate
			}
			if chans == 0 {
				chans = in.Chans
			}
			opts := sndkit.CreateOptions{Type: t, SampleType: st, SampleRate: rate, Chans: chans, Clip: clip}
			if err := sndkit.Transcode(args[0], args[1], opts); err != nil {
				return err
			}
			return printHeader(cmd, args[1])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&to, "type", "t", "wav", "output container")
	f.StringVarP(&sampleType, "sample-type", "s", "lshort", "output sample encoding")
	f.IntVarP(&rate, "rate", "r", 0, "output rate, default the input rate")
	f.IntVar(&chans, "chans", 0, "output channels, default the input channels")
	f.BoolVar(&clip, "clip", true, "clamp out-of-range samples")
	return cmd
}
