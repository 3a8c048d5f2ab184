package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/service/comments"
	"github.com/deicod/ermblog-console/internal/service/posts"
)

// watchLine is one applied event as printed by watch.
type watchLine struct {
	At       time.Time `json:"at"              yaml:"at"`
	Entity   string    `json:"entity"          yaml:"entity"`
	Kind     string    `json:"kind"            yaml:"kind"`
	ID       string    `json:"id"              yaml:"id"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
	Posts    string    `json:"posts"           yaml:"posts"`
	Comments string    `json:"comments"        yaml:"comments"`
}

func (c *cli) watchCmd() *cobra.Command {
	var postViews, commentViews []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live changes to the cached tables",
		Long: `Load the first page of each requested view, then apply created, updated
and deleted pushes from the API until interrupted, printing the totals of
every cached view after each event.

When metrics.addr is set, Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := c.app.Config.Console

			for _, s := range postViews {
				if _, err := c.app.Posts.LoadPage(ctx, posts.ListInput{Status: s, First: cfg.PostsPageSize}); err != nil {
					return err
				}
			}
			for _, s := range commentViews {
				if _, err := c.app.Comments.LoadPage(ctx, comments.ListInput{Status: s, First: cfg.CommentsPageSize}); err != nil {
					return err
				}
			}

			emit := c.watchPrinter(cmd.OutOrStdout())
			emit(watchLine{Kind: "loaded"})
			return c.app.Watch(ctx, func(ev domain.Event, err error) {
				line := watchLine{Entity: ev.Entity.String(), Kind: ev.Kind.String(), ID: ev.ID}
				if err != nil {
					line.Error = err.Error()
				}
				emit(line)
			})
		},
	}
	cmd.Flags().StringSliceVar(&postViews, "posts", []string{"all"}, "posts views to keep loaded")
	cmd.Flags().StringSliceVar(&commentViews, "comments", []string{"all"}, "comments views to keep loaded")
	return cmd
}

// watchPrinter returns a function printing one line per event in the
// selected output format. Lines are emitted from a single goroutine.
func (c *cli) watchPrinter(w io.Writer) func(watchLine) {
	jsonEnc := json.NewEncoder(w)
	return func(line watchLine) {
		line.At = time.Now().UTC()
		line.Posts = viewTotals(c.app.Posts.Views())
		line.Comments = viewTotals(c.app.Comments.Views())

		switch c.output {
		case formatJSON:
			_ = jsonEnc.Encode(line)
		case formatYAML:
			out, err := yaml.Marshal(line)
			if err == nil {
				fmt.Fprintf(w, "---\n%s", out)
			}
		default:
			event := line.Kind
			if line.Entity != "" {
				event = line.Entity + " " + line.Kind + " " + line.ID
			}
			if line.Error != "" {
				event += " (failed: " + line.Error + ")"
			}
			fmt.Fprintf(w, "%s  %-40s posts[%s] comments[%s]\n",
				line.At.Format(time.TimeOnly), event, line.Posts, line.Comments)
		}
	}
}
