package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	envFile    string
	contentDir string
	logLevel   string
}

func (g *globalFlags) options() bootstrap.Options {
	return bootstrap.Options{
		ConfigPath: g.configPath,
		EnvFile:    g.envFile,
		ContentDir: g.contentDir,
		LogLevel:   g.logLevel,
	}
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "blog",
		Short:         "Serve and build a file-backed blog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "Path to a .env file (defaults to ./.env when present)")
	root.PersistentFlags().StringVar(&flags.contentDir, "content-dir", "", "Directory holding the post files")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Minimum log level")

	root.AddCommand(
		newServeCommand(flags),
		newBuildCommand(flags),
		newPreviewCommand(flags),
		newListCommand(flags),
	)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "blog: %v\n", err)
		os.Exit(1)
	}
}
