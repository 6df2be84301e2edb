package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newBuildCommand(flags *globalFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write feeds, sitemap, robots.txt and manifests to a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := moduleBuilder(flags.options())
			if err != nil {
				return err
			}
			cfg := module.Config
			if out != "" {
				cfg.Build.OutputDir = out
			}
			if err := cfg.ValidateBuild(); err != nil {
				return err
			}

			artifacts, err := module.Module.Build(cmd.Context(), cfg.Build.OutputDir)
			if err != nil {
				return err
			}
			for _, artifact := range artifacts {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", filepath.Join(cfg.Build.OutputDir, artifact.Path), len(artifact.Body))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output directory (overrides build.output_dir)")
	return cmd
}
