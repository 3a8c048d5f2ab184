package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deicod/ermblog-console/internal/adapter/gqlclient"
	"github.com/deicod/ermblog-console/internal/adapter/snapshot"
	"github.com/deicod/ermblog-console/internal/config"
	"github.com/deicod/ermblog-console/internal/connsync"
	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/metrics"
	"github.com/deicod/ermblog-console/internal/relaystore"
	"github.com/deicod/ermblog-console/internal/service/comments"
	"github.com/deicod/ermblog-console/internal/service/live"
	"github.com/deicod/ermblog-console/internal/service/posts"
	"github.com/deicod/ermblog-console/internal/transport/rest"
)

// App holds the wired console: one record store shared by the posts and
// comments tables, the API clients feeding it and optional snapshot storage.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Store    *relaystore.Store
	Posts    *posts.Service
	Comments *comments.Service
	Metrics  *metrics.Metrics

	// Snapshots is nil when snapshot.driver is empty.
	Snapshots *snapshot.Store

	dispatcher *live.Dispatcher
}

// New wires every component from cfg. Call Close when done.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	checkAccessToken(log, cfg.API.AccessToken, time.Now())

	store := relaystore.New()
	m := metrics.New(store.Len)

	client := gqlclient.New(log, gqlclient.Config{
		Endpoint:   cfg.API.HTTPEndpoint,
		Token:      cfg.API.AccessToken,
		TokenType:  cfg.API.TokenType,
		MaxRetries: cfg.API.MaxRetries,
		RetryDelay: cfg.API.RetryDelay,
		Timeout:    cfg.API.Timeout,
		OnUnauthorized: func() {
			log.Warn("api rejected the access token", slog.String("endpoint", cfg.API.HTTPEndpoint))
		},
	})
	subscriber := gqlclient.NewSubscriber(log, gqlclient.SubscriberConfig{
		Endpoint:   cfg.API.WSEndpoint,
		Token:      cfg.API.AccessToken,
		TokenType:  cfg.API.TokenType,
		MaxRetries: cfg.API.WSMaxRetries,
		RetryDelay: cfg.API.WSRetryDelay,
	})

	postsSync := connsync.New(
		syncConfig(gqlclient.PostsConnection()),
		domain.PostStatuses(),
		connsync.WithPurgeOnDelete(),
		connsync.WithObserver(m),
	)
	commentsSync := connsync.New(
		syncConfig(gqlclient.CommentsConnection()),
		domain.CommentStatuses(),
		connsync.WithPriorMembership(),
		connsync.WithPurgeOnDelete(),
		connsync.WithObserver(m),
	)

	postsSvc := posts.NewService(log, store, postsSync, client, gqlclient.NewPostLoader(client))
	commentsSvc := comments.NewService(log, store, commentsSync, client)

	a := &App{
		Config:     cfg,
		Log:        log,
		Store:      store,
		Posts:      postsSvc,
		Comments:   commentsSvc,
		Metrics:    m,
		dispatcher: live.NewDispatcher(log, subscriber, postsSvc, commentsSvc, m, cfg.Console.MailboxSize),
	}

	if cfg.Snapshot.Enabled() {
		snaps, err := snapshot.Open(ctx, log, snapshot.Config{
			Driver:   cfg.Snapshot.Driver,
			DSN:      cfg.Snapshot.DSN,
			Compress: cfg.Snapshot.Compress,
		})
		if err != nil {
			return nil, fmt.Errorf("open snapshots: %w", err)
		}
		a.Snapshots = snaps
	}

	log.Debug("console wired",
		slog.String("version", BuildInfo().String()),
		slog.String("api", cfg.API.HTTPEndpoint),
		slog.Bool("snapshots", a.Snapshots != nil),
	)
	return a, nil
}

// tokenExpiryWarning is how close to expiry a token must be to be flagged.
const tokenExpiryWarning = 10 * time.Minute

// checkAccessToken warns about a JWT access token that has expired or is
// about to. Opaque tokens are left to the API.
func checkAccessToken(log *slog.Logger, token string, now time.Time) {
	exp, ok := gqlclient.TokenExpiry(token)
	if !ok {
		return
	}
	switch left := exp.Sub(now); {
	case left <= 0:
		log.Warn("access token has expired", slog.Time("expired_at", exp))
	case left < tokenExpiryWarning:
		log.Warn("access token expires soon", slog.Time("expires_at", exp), slog.Duration("left", left))
	}
}

func syncConfig(spec gqlclient.ConnectionSpec) connsync.Config {
	return connsync.Config{
		Key:       spec.Key,
		FilterArg: spec.Filters[0],
		EdgeType:  spec.EdgeType,
	}
}

// Restore loads the configured snapshot into the store. A missing snapshot
// leaves the store empty.
func (a *App) Restore(ctx context.Context) error {
	if a.Snapshots == nil {
		return nil
	}
	snap, info, err := a.Snapshots.Load(ctx, a.Config.Snapshot.Name)
	if errors.Is(err, domain.ErrNotFound) {
		a.Log.InfoContext(ctx, "no snapshot to restore", slog.String("name", a.Config.Snapshot.Name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	a.Store.Restore(snap)
	a.Log.InfoContext(ctx, "snapshot restored",
		slog.String("name", info.Name),
		slog.Int("records", info.Records),
		slog.Time("saved_at", info.SavedAt),
	)
	return nil
}

// Persist saves the store under the configured snapshot name.
func (a *App) Persist(ctx context.Context) error {
	if a.Snapshots == nil {
		return nil
	}
	info, err := a.Snapshots.Save(ctx, a.Config.Snapshot.Name, a.Store.Snapshot())
	if err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	a.Log.InfoContext(ctx, "snapshot saved",
		slog.String("name", info.Name),
		slog.Int("records", info.Records),
		slog.Int("bytes", info.Bytes),
	)
	return nil
}

// Watch applies lifecycle pushes until ctx is done or the subscription
// gives up. It serves /live, /health and /metrics alongside when
// metrics.addr is set. onApplied may be nil.
func (a *App) Watch(ctx context.Context, onApplied func(domain.Event, error)) error {
	if onApplied != nil {
		a.dispatcher.OnApplied(onApplied)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.dispatcher.Run(gctx)
	})
	if addr := a.Config.Metrics.Addr; addr != "" {
		g.Go(func() error {
			return rest.Serve(gctx, a.Log, addr, a.opsRouter())
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (a *App) opsRouter() http.Handler {
	var snaps interface{ Ping(context.Context) error }
	if a.Snapshots != nil {
		snaps = a.Snapshots
	}
	health := rest.NewHealthHandler(snaps, a.Store.Len, BuildInfo().String())
	return rest.NewRouter(a.Log, health, a.Metrics.Handler())
}

// Close releases the snapshot database.
func (a *App) Close() error {
	if a.Snapshots == nil {
		return nil
	}
	return a.Snapshots.Close()
}
