package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/testwrap/internal/outputs"
)

func newArchiveCmd() *cobra.Command {
	var (
		outPath  string
		manifest string
		depth    int
		include  []string
		exclude  []string
	)

	cmd := &cobra.Command{
		Use:   "archive [flags] <directory>",
		Short: "Package an outputs directory into a zip archive",
		Long: `Archive enumerates a directory tree, packages the files into a zip
archive and optionally writes a manifest listing what was packaged. Paths
inside the archive always use forward slashes.`,
		Example: `  testwrap archive --out outputs.zip ./outputs
  testwrap archive --out outputs.zip --manifest MANIFEST --depth 1 ./outputs
  testwrap archive --out logs.zip --include '**/*.log' ./outputs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			entries, err := outputs.Walk(root, depth)
			if err != nil {
				return err
			}
			entries, err = outputs.Filter(entries, include, exclude)
			if err != nil {
				return err
			}
			if err := outputs.CreateArchive(root, entries, outPath); err != nil {
				return err
			}
			if manifest != "" {
				text := outputs.RenderManifest(entries, nil)
				if err := os.WriteFile(manifest, []byte(text), 0o644); err != nil {
					return fmt.Errorf("writing manifest: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Archive file to create")
	cmd.Flags().StringVar(&manifest, "manifest", "", "Manifest file to write alongside the archive")
	cmd.Flags().IntVar(&depth, "depth", outputs.UnlimitedDepth, "Directory levels below the root to descend into (-1 for unlimited)")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Glob patterns of entries to package (default: all)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns of entries to skip")
	_ = cmd.MarkFlagRequired("out") //nolint:errcheck

	return cmd
}
