package posts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deicod/ermblog-console/internal/domain"
)

// SetStatus changes a post's status through the API and moves the cached
// post between views using the status the API returned.
func (s *Service) SetStatus(ctx context.Context, input SetStatusInput) (domain.Post, error) {
	if err := input.Validate(); err != nil {
		return domain.Post{}, err
	}
	status, _ := domain.ParsePostStatus(input.Status)

	node, err := s.api.UpdatePostStatus(ctx, input.ID, status)
	if err != nil {
		return domain.Post{}, fmt.Errorf("update post status: %w", err)
	}

	change, err := s.table.Updated(node)
	if err != nil {
		return domain.Post{}, fmt.Errorf("apply post status: %w", err)
	}
	s.logChange(ctx, "post status changed", input.ID, change)

	post, ok := s.table.Lookup(input.ID)
	if !ok {
		return domain.Post{}, fmt.Errorf("post %s: %w", input.ID, domain.ErrNotFound)
	}
	s.log.InfoContext(ctx, "post status set",
		slog.String("post_id", post.ID),
		slog.String("status", post.Status.String()),
	)
	return post, nil
}
