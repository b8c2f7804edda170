// SPDX-License-Identifier: EPL-2.0

// Command sndinfo describes sound files and edits their headers.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/sndkit"
	"github.com/ik5/sndkit/internal/logger"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)
	root := &cobra.Command{
		Use:           "sndinfo",
		Short:         "Describe sound files and edit their headers",
		SilenceUsage:  true,
		SilenceErrors: false,
		Long: `sndinfo reads the header of about seventy sound file formats and prints
what it finds. It can also patch header fields in place, convert a header to
another container and transcode the audio.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				cfg, err := sndkit.LoadConfig(configPath)
				if err != nil {
					return err
				}
				if err := cfg.Apply(); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("verbose") {
				logger.SetVerbose(verbose)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		newDescribeCmd(),
		newConvertCmd(),
		newSetCmd(),
		newTranscodeCmd(),
		newRawDefaultsCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}
