package comments

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deicod/ermblog-console/internal/connsync"
	"github.com/deicod/ermblog-console/internal/domain"
)

// HandleCreated applies a commentCreated push.
func (s *Service) HandleCreated(ctx context.Context, node map[string]any) error {
	change, err := s.table.Created(node)
	if err != nil {
		return fmt.Errorf("apply comment created: %w", err)
	}
	s.logChange(ctx, "comment created", node["id"], change)
	return nil
}

// HandleUpdated applies a commentUpdated push. Comments that no view holds
// are merged but not inserted anywhere.
func (s *Service) HandleUpdated(ctx context.Context, node map[string]any) error {
	change, err := s.table.Updated(node)
	if err != nil {
		return fmt.Errorf("apply comment updated: %w", err)
	}
	s.logChange(ctx, "comment updated", node["id"], change)
	return nil
}

// HandleDeleted applies a commentDeleted push.
func (s *Service) HandleDeleted(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("apply comment deleted: %w", domain.NewValidationError("id", "required"))
	}
	s.logChange(ctx, "comment deleted", id, s.table.Deleted(id))
	return nil
}

func (s *Service) logChange(ctx context.Context, msg string, id any, change connsync.Change[domain.CommentStatus]) {
	if change.IsZero() {
		s.log.DebugContext(ctx, msg, slog.Any("comment_id", id))
		return
	}
	inserted := make([]string, len(change.Inserted))
	for i, f := range change.Inserted {
		inserted[i] = f.String()
	}
	removed := make([]string, len(change.Removed))
	for i, f := range change.Removed {
		removed[i] = f.String()
	}
	s.log.InfoContext(ctx, msg,
		slog.Any("comment_id", id),
		slog.Any("inserted", inserted),
		slog.Any("removed", removed),
		slog.Bool("purged", change.Purged),
	)
}
