package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func newListCommand(flags *globalFlags) *cobra.Command {
	var tag string
	var showTags bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print published posts newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := moduleBuilder(flags.options())
			if err != nil {
				return err
			}
			posts := module.Module.Posts()
			ctx := cmd.Context()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			if showTags {
				tags, err := posts.Tags(ctx)
				if err != nil {
					return err
				}
				for _, summary := range tags {
					fmt.Fprintf(w, "%s\t%d\n", summary.Name, summary.Count)
				}
				return nil
			}

			var list []*interfaces.Post
			if strings.TrimSpace(tag) != "" {
				list, err = posts.ByTag(ctx, tag)
			} else {
				list, err = posts.All(ctx)
			}
			if err != nil {
				return err
			}
			for _, post := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", post.PublishedAt.Format("2006-01-02"), post.Slug, post.Title, strings.Join(post.Tags, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Only list posts carrying this tag")
	cmd.Flags().BoolVar(&showTags, "tags", false, "List tag counts instead of posts")
	return cmd
}
