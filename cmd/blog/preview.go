package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newPreviewCommand(flags *globalFlags) *cobra.Command {
	var renderHTML bool
	cmd := &cobra.Command{
		Use:   "preview <slug>",
		Short: "Print one post's metadata and rendered HTML, drafts included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := moduleBuilder(flags.options())
			if err != nil {
				return err
			}
			post, err := module.Module.Store().LoadPreview(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load post %q: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Slug: %s\nTitle: %s\nPublished: %t\nDate: %s\n", post.Slug, post.Title, post.Published, post.PublishedAt.Format(time.RFC3339))
			if post.UpdatedAt != nil {
				fmt.Fprintf(out, "Updated: %s\n", post.UpdatedAt.Format(time.RFC3339))
			}
			fmt.Fprintf(out, "Tags: %s\nReading time: %d min\nSource: %s\nChecksum: %s\n", strings.Join(post.Tags, ", "), post.ReadingMinutes, post.SourcePath, post.Checksum)
			if post.Summary != "" {
				fmt.Fprintf(out, "Summary: %s\n", post.Summary)
			}
			if renderHTML {
				fmt.Fprintf(out, "\nRendered HTML:\n%s\n", post.BodyHTML)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&renderHTML, "render-html", true, "Include the rendered HTML body")
	return cmd
}
