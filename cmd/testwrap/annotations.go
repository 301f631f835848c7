package main

import (
	"github.com/spf13/cobra"

	"github.com/bebsworthy/testwrap/internal/outputs"
)

func newAnnotationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotations <directory> <output-file>",
		Short: "Merge *.part annotation files into one file",
		Long: `Annotations concatenates the *.part files a test dropped directly inside
the given directory into a single output file, in directory order. A missing
directory or one without *.part files produces no output file.`,
		Example: `  testwrap annotations ./outputs.annotations ANNOTATIONS`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return outputs.MergeAnnotations(args[0], args[1])
		},
	}
	return cmd
}
