package posts

import (
	"context"
	"fmt"

	"github.com/deicod/ermblog-console/internal/domain"
)

// Get looks up posts by id in one batched request and merges them into the
// cache. Results follow the order of input.IDs.
func (s *Service) Get(ctx context.Context, input GetInput) ([]domain.Post, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	nodes, errs := s.loader.LoadMany(ctx, input.IDs)
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("get post %s: %w", input.IDs[i], err)
		}
	}

	posts, err := s.table.Put(nodes...)
	if err != nil {
		return nil, fmt.Errorf("store posts: %w", err)
	}
	return posts, nil
}
