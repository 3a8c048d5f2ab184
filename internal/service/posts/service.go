package posts

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

type postsAPI interface {
	FetchPosts(ctx context.Context, req gqlclient.PageRequest) (relaystore.ConnectionPage, error)
	UpdatePostStatus(ctx context.Context, id string, status domain.PostStatus) (map[string]any, error)
}

type postLoader interface {
	LoadMany(ctx context.Context, ids []string) ([]map[string]any, []error)
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxLookup       = 100
)

// PageView is the resident state of one posts table view.
type PageView = table.Page[domain.Post]

// Service keeps the cached posts table in step with the API.
type Service struct {
	api    postsAPI
	loader postLoader
	table  *table.Table[domain.PostStatus, domain.Post]
	log    *slog.Logger
}

// NewService creates a new Posts service.
func NewService(
	log *slog.Logger,
	store *relaystore.Store,
	sync *connsync.Synchronizer[domain.PostStatus],
	api postsAPI,
	loader postLoader,
) *Service {
	return &Service{
		api:    api,
		loader: loader,
		table:  table.New(store, sync, "Post", readPost),
		log:    log.With("service", "posts"),
	}
}

func readPost(rec relaystore.RecordProxy) domain.Post {
	p := domain.Post{ID: string(rec.DataID())}
	p.Title, _ = rec.String("title")
	status, _ := rec.String(connsync.StatusField)
	p.Status = domain.PostStatus(status)
	p.AuthorID, _ = rec.String("authorID")

	if v, ok := rec.String("updatedAt"); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			p.UpdatedAt = &ts
		}
	}

	if author, ok := rec.LinkedRecord("author"); ok {
		a := domain.Author{ID: string(author.DataID())}
		a.DisplayName, _ = author.String("displayName")
		a.Email, _ = author.String("email")
		a.Username, _ = author.String("username")
		p.Author = &a
	}
	return p
}
