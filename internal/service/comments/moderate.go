package comments

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/deicod/ermblog-console/internal/domain"
)

// Moderate moves a comment to a new moderation status. When the comment is
// cached with a known status, only the row actions offered for that status
// are accepted.
func (s *Service) Moderate(ctx context.Context, input ModerateInput) (domain.Comment, error) {
	if err := input.Validate(); err != nil {
		return domain.Comment{}, err
	}
	target, _ := domain.ParseCommentStatus(input.Status)

	if current, ok := s.table.Lookup(input.ID); ok && current.Status.IsValid() {
		if !slices.Contains(domain.CommentTransitions(current.Status), target) {
			return domain.Comment{}, fmt.Errorf("moderate comment %s from %s to %s: %w",
				input.ID, current.Status, target, domain.ErrConflict)
		}
	}

	node, err := s.api.UpdateCommentStatus(ctx, input.ID, target)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("update comment status: %w", err)
	}

	change, err := s.table.Updated(node)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("apply comment status: %w", err)
	}
	s.logChange(ctx, "comment moderated", input.ID, change)

	comment, ok := s.table.Lookup(input.ID)
	if !ok {
		return domain.Comment{}, fmt.Errorf("comment %s: %w", input.ID, domain.ErrNotFound)
	}
	s.log.InfoContext(ctx, "comment status set",
		slog.String("comment_id", comment.ID),
		slog.String("status", comment.Status.String()),
	)
	return comment, nil
}
