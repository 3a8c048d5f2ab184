package comments

import (
	"context"
	"log/slog"
	"time"

	"github.com/deicod/ermblog-console/internal/adapter/gqlclient"
	"github.com/deicod/ermblog-console/internal/connsync"
	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/relaystore"
	"github.com/deicod/ermblog-console/internal/service/table"
)

type commentsAPI interface {
	FetchComments(ctx context.Context, req gqlclient.PageRequest) (relaystore.ConnectionPage, error)
	UpdateCommentStatus(ctx context.Context, id string, status domain.CommentStatus) (map[string]any, error)
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageView is the resident state of one comments table view.
type PageView = table.Page[domain.Comment]

// Service keeps the cached comments table in step with the API.
type Service struct {
	api   commentsAPI
	table *table.Table[domain.CommentStatus, domain.Comment]
	log   *slog.Logger
}

// NewService creates a new Comments service. The synchronizer is expected
// to only move comments already shown in some view.
func NewService(
	log *slog.Logger,
	store *relaystore.Store,
	sync *connsync.Synchronizer[domain.CommentStatus],
	api commentsAPI,
) *Service {
	return &Service{
		api:   api,
		table: table.New(store, sync, "Comment", readComment),
		log:   log.With("service", "comments"),
	}
}

func readComment(rec relaystore.RecordProxy) domain.Comment {
	c := domain.Comment{ID: string(rec.DataID())}
	c.Content, _ = rec.String("content")
	c.AuthorName, _ = rec.String("authorName")
	status, _ := rec.String(connsync.StatusField)
	c.Status = domain.CommentStatus(status)

	if v, ok := rec.String("submittedAt"); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			c.SubmittedAt = &ts
		}
	}
	return c
}
