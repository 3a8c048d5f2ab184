package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deicod/ermblog-console/internal/adapter/snapshot"
	"github.com/deicod/ermblog-console/internal/service/comments"
	"github.com/deicod/ermblog-console/internal/service/posts"
)

var errSnapshotsDisabled = errors.New("snapshots are disabled: set snapshot.driver and snapshot.dsn")

func (c *cli) snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "snapshot",
		Short:       "Manage saved copies of the cache",
		Annotations: map[string]string{annotationManualSnapshot: "true"},
	}
	cmd.AddCommand(
		c.snapshotSaveCmd(),
		c.snapshotRestoreCmd(),
		c.snapshotListCmd(),
		c.snapshotDeleteCmd(),
	)
	return cmd
}

func (c *cli) snapshots() (*snapshot.Store, error) {
	if c.app.Snapshots == nil {
		return nil, errSnapshotsDisabled
	}
	return c.app.Snapshots, nil
}

func (c *cli) snapshotSaveCmd() *cobra.Command {
	var postViews, commentViews []string

	cmd := &cobra.Command{
		Use:   "save [NAME]",
		Short: "Fetch the first page of each view and save the cache",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.snapshots()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cfg := c.app.Config

			for _, s := range postViews {
				if _, err := c.app.Posts.LoadPage(ctx, posts.ListInput{Status: s, First: cfg.Console.PostsPageSize}); err != nil {
					return err
				}
			}
			for _, s := range commentViews {
				if _, err := c.app.Comments.LoadPage(ctx, comments.ListInput{Status: s, First: cfg.Console.CommentsPageSize}); err != nil {
					return err
				}
			}

			name := cfg.Snapshot.Name
			if len(args) == 1 {
				name = args[0]
			}
			info, err := store.Save(ctx, name, c.app.Store.Snapshot())
			if err != nil {
				return err
			}
			return c.renderInfos(cmd, info)
		},
	}
	cmd.Flags().StringSliceVar(&postViews, "posts", []string{"all"}, "posts views to fetch")
	cmd.Flags().StringSliceVar(&commentViews, "comments", []string{"all"}, "comments views to fetch")
	return cmd
}

func (c *cli) snapshotRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore NAME",
		Short: "Make a saved snapshot the one loaded on start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.snapshots()
			if err != nil {
				return err
			}
			snap, _, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", args[0], err)
			}
			info, err := store.Save(cmd.Context(), c.app.Config.Snapshot.Name, snap)
			if err != nil {
				return err
			}
			return c.renderInfos(cmd, info)
		},
	}
}

func (c *cli) snapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.snapshots()
			if err != nil {
				return err
			}
			infos, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			return c.renderInfos(cmd, infos...)
		},
	}
}

func (c *cli) snapshotDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.snapshots()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("snapshot %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "snapshot %s deleted\n", args[0])
			return nil
		},
	}
}

func (c *cli) renderInfos(cmd *cobra.Command, infos ...snapshot.Info) error {
	if infos == nil {
		infos = []snapshot.Info{}
	}
	return render(cmd.OutOrStdout(), c.output, infos, func(tw *tabwriter.Writer) {
		writeSnapshots(tw, infos)
	})
}
