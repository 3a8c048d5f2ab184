package comments

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deicod/ermblog-console/internal/adapter/gqlclient"
	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/relaystore"
)

// LoadPage fetches a page of the comments table into the view for the
// requested status.
func (s *Service) LoadPage(ctx context.Context, input ListInput) (PageView, error) {
	if err := input.Validate(); err != nil {
		return PageView{}, err
	}

	status, _ := domain.ParseCommentStatus(input.Status)
	first := input.First
	if first == 0 {
		first = DefaultPageSize
	}

	page, err := s.api.FetchComments(ctx, gqlclient.PageRequest{
		First:  first,
		After:  input.After,
		Status: string(status),
	})
	if err != nil {
		return PageView{}, fmt.Errorf("fetch comments: %w", err)
	}

	mode := relaystore.Replace
	if input.After != "" {
		mode = relaystore.Append
	}
	view := s.table.Write(status, page, mode)

	s.log.DebugContext(ctx, "comments page loaded",
		slog.String("filter", view.Filter),
		slog.Int("items", len(view.Items)),
	)
	return view, nil
}

// Page returns the cached view for status.
func (s *Service) Page(status domain.CommentStatus) (PageView, bool) {
	return s.table.Page(status)
}

// ResidentViews returns the names of the cached views in canonical order.
func (s *Service) ResidentViews() []string {
	var out []string
	for _, f := range s.table.Resident() {
		out = append(out, f.String())
	}
	return out
}

// Views returns every cached view in canonical order.
func (s *Service) Views() []PageView {
	var out []PageView
	for _, f := range s.table.Resident() {
		status, _ := f.Status()
		if v, ok := s.table.Page(status); ok {
			out = append(out, v)
		}
	}
	return out
}
