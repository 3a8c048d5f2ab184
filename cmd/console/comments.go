package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/service/comments"
)

func (c *cli) commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Browse and moderate comments",
	}
	cmd.AddCommand(c.commentsListCmd(), c.commentsModerateCmd())
	return cmd
}

func (c *cli) commentsListCmd() *cobra.Command {
	var (
		status string
		first  int
		pages  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a comments view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if first == 0 {
				first = c.app.Config.Console.CommentsPageSize
			}
			view, err := loadPages(pages, func(after string) (comments.PageView, error) {
				return c.app.Comments.LoadPage(cmd.Context(), comments.ListInput{Status: status, First: first, After: after})
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.output, view, func(tw *tabwriter.Writer) {
				writeComments(tw, view.Items)
				pageFooter(tw, view)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status view: pending, approved, spam or trash (default all)")
	cmd.Flags().IntVar(&first, "first", 0, "page size (default console.comments_page_size)")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to fetch")
	return cmd
}

func (c *cli) commentsModerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moderate ID STATUS",
		Short: "Approve, flag or trash a comment",
		Long: `Move a comment to another moderation status.

Examples:
  console comments moderate c42 approved
  console comments moderate c43 spam`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, err := c.app.Comments.Moderate(cmd.Context(), comments.ModerateInput{ID: args[0], Status: args[1]})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.output, comment, func(tw *tabwriter.Writer) {
				writeComments(tw, []domain.Comment{comment})
			})
		},
	}
}
