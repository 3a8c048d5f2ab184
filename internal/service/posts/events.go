package posts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deicod/ermblog-console/internal/connsync"
	"github.com/deicod/ermblog-console/internal/domain"
)

// HandleCreated applies a postCreated push.
func (s *Service) HandleCreated(ctx context.Context, node map[string]any) error {
	change, err := s.table.Created(node)
	if err != nil {
		return fmt.Errorf("apply post created: %w", err)
	}
	s.logChange(ctx, "post created", node["id"], change)
	return nil
}

// HandleUpdated applies a postUpdated push.
func (s *Service) HandleUpdated(ctx context.Context, node map[string]any) error {
	change, err := s.table.Updated(node)
	if err != nil {
		return fmt.Errorf("apply post updated: %w", err)
	}
	s.logChange(ctx, "post updated", node["id"], change)
	return nil
}

// HandleDeleted applies a postDeleted push.
func (s *Service) HandleDeleted(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("apply post deleted: %w", domain.NewValidationError("id", "required"))
	}
	change := s.table.Deleted(id)
	s.logChange(ctx, "post deleted", id, change)
	return nil
}

func (s *Service) logChange(ctx context.Context, msg string, id any, change connsync.Change[domain.PostStatus]) {
	if change.IsZero() {
		s.log.DebugContext(ctx, msg, slog.Any("post_id", id))
		return
	}
	s.log.InfoContext(ctx, msg,
		slog.Any("post_id", id),
		slog.Any("inserted", filterNames(change.Inserted)),
		slog.Any("removed", filterNames(change.Removed)),
		slog.Bool("purged", change.Purged),
	)
}

func filterNames(fs []connsync.Filter[domain.PostStatus]) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	return out
}
