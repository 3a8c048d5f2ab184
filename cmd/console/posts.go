package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/service/posts"
	"github.com/deicod/ermblog-console/internal/service/table"
)

func (c *cli) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Browse posts and change their status",
	}
	cmd.AddCommand(c.postsListCmd(), c.postsShowCmd(), c.postsSetStatusCmd())
	return cmd
}

func (c *cli) postsListCmd() *cobra.Command {
	var (
		status string
		first  int
		pages  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a posts view",
		Long: `List the posts table, optionally narrowed to one status view.

Examples:
  console posts list                      # unfiltered view
  console posts list --status pending     # posts waiting for review
  console posts list --first 50 --pages 3 # three pages of fifty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if first == 0 {
				first = c.app.Config.Console.PostsPageSize
			}
			view, err := loadPages(pages, func(after string) (posts.PageView, error) {
				return c.app.Posts.LoadPage(cmd.Context(), posts.ListInput{Status: status, First: first, After: after})
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.output, view, func(tw *tabwriter.Writer) {
				writePosts(tw, view.Items)
				pageFooter(tw, view)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status view: draft, pending, private, published or archived (default all)")
	cmd.Flags().IntVar(&first, "first", 0, "page size (default console.posts_page_size)")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to fetch")
	return cmd
}

func (c *cli) postsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID...",
		Short: "Look up posts by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := c.app.Posts.Get(cmd.Context(), posts.GetInput{IDs: args})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.output, found, func(tw *tabwriter.Writer) {
				writePosts(tw, found)
			})
		},
	}
}

func (c *cli) postsSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status ID STATUS",
		Short: "Change a post's status",
		Long: `Change a post's status and move it between the cached views.

The views are updated from the status the API reports back, which may
differ from the one requested (for example when publishing requires review).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := c.app.Posts.SetStatus(cmd.Context(), posts.SetStatusInput{ID: args[0], Status: args[1]})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.output, post, func(tw *tabwriter.Writer) {
				writePosts(tw, []domain.Post{post})
			})
		},
	}
}

// loadPages fetches up to n pages, following end cursors, and returns the
// view after the last one.
func loadPages[T any](n int, load func(after string) (table.Page[T], error)) (table.Page[T], error) {
	var (
		view  table.Page[T]
		after string
	)
	for range max(n, 1) {
		v, err := load(after)
		if err != nil {
			return view, err
		}
		view = v
		if !v.HasNextPage || v.EndCursor == "" {
			break
		}
		after = v.EndCursor
	}
	return view, nil
}
