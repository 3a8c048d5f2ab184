// Package live applies the API's lifecycle pushes to the cached tables.
// Pushes from all six subscriptions share one connection and are queued
// into a single mailbox; one goroutine drains it, so each event is applied
// whole before the next one starts.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/deicod/ermblog-console/internal/adapter/gqlclient"
	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/pkg/ctxutil"
)

type subscriber interface {
	Run(ctx context.Context, subs ...gqlclient.Subscription) error
}

type eventHandler interface {
	HandleCreated(ctx context.Context, node map[string]any) error
	HandleUpdated(ctx context.Context, node map[string]any) error
	HandleDeleted(ctx context.Context, id string) error
}

type eventRecorder interface {
	EventApplied(entity domain.Entity, kind domain.EventKind)
	EventFailed(entity domain.Entity, kind domain.EventKind)
}

const DefaultMailboxSize = 256

type route struct {
	op     gqlclient.Operation
	entity domain.Entity
	kind   domain.EventKind
}

var routes = []route{
	{gqlclient.PostCreatedSubscription, domain.EntityPost, domain.EventCreated},
	{gqlclient.PostUpdatedSubscription, domain.EntityPost, domain.EventUpdated},
	{gqlclient.PostDeletedSubscription, domain.EntityPost, domain.EventDeleted},
	{gqlclient.CommentCreatedSubscription, domain.EntityComment, domain.EventCreated},
	{gqlclient.CommentUpdatedSubscription, domain.EntityComment, domain.EventUpdated},
	{gqlclient.CommentDeletedSubscription, domain.EntityComment, domain.EventDeleted},
}

// Dispatcher routes subscription pushes to the posts and comments services.
type Dispatcher struct {
	sub      subscriber
	handlers map[domain.Entity]eventHandler
	metrics  eventRecorder
	mailbox  int
	listener func(domain.Event, error)
	log      *slog.Logger
}

// NewDispatcher creates a Dispatcher. A mailboxSize of zero selects
// DefaultMailboxSize.
func NewDispatcher(
	log *slog.Logger,
	sub subscriber,
	posts eventHandler,
	comments eventHandler,
	metrics eventRecorder,
	mailboxSize int,
) *Dispatcher {
	if mailboxSize <= 0 {
		mailboxSize = DefaultMailboxSize
	}
	return &Dispatcher{
		sub: sub,
		handlers: map[domain.Entity]eventHandler{
			domain.EntityPost:    posts,
			domain.EntityComment: comments,
		},
		metrics: metrics,
		mailbox: mailboxSize,
		log:     log.With("service", "live"),
	}
}

// OnApplied registers fn to observe every handled event and its outcome.
// It must be called before Run.
func (d *Dispatcher) OnApplied(fn func(domain.Event, error)) {
	d.listener = fn
}

// Run subscribes to every lifecycle event and applies pushes until ctx is
// done or the subscriber gives up.
func (d *Dispatcher) Run(ctx context.Context) error {
	mailbox := make(chan domain.Event, d.mailbox)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(mailbox)
		subs := make([]gqlclient.Subscription, 0, len(routes))
		for _, r := range routes {
			subs = append(subs, gqlclient.Subscription{
				Operation: r.op,
				Next: func(ctx context.Context, data json.RawMessage) {
					d.enqueue(ctx, mailbox, r, data)
				},
			})
		}
		if err := d.sub.Run(gctx, subs...); err != nil {
			return fmt.Errorf("live events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		for ev := range mailbox {
			d.apply(gctx, ev)
		}
		return nil
	})
	return g.Wait()
}

func (d *Dispatcher) enqueue(ctx context.Context, mailbox chan<- domain.Event, r route, data json.RawMessage) {
	ev, err := decode(r, data)
	if err != nil {
		d.log.WarnContext(ctx, "undecodable event skipped",
			slog.String("entity", r.entity.String()),
			slog.String("kind", string(r.kind)),
			slog.String("error", err.Error()),
		)
		d.metrics.EventFailed(r.entity, r.kind)
		return
	}

	select {
	case mailbox <- ev:
	case <-ctx.Done():
	}
}

func (d *Dispatcher) apply(ctx context.Context, ev domain.Event) {
	ctx = ctxutil.WithSource(ctx, ctxutil.SourceSubscription)
	ctx = ctxutil.WithRequestID(ctx, uuid.NewString())

	err := d.dispatch(ctx, ev)
	if err != nil {
		d.log.ErrorContext(ctx, "event not applied",
			slog.String("entity", ev.Entity.String()),
			slog.String("kind", string(ev.Kind)),
			slog.String("id", ev.ID),
			slog.String("error", err.Error()),
		)
		d.metrics.EventFailed(ev.Entity, ev.Kind)
	} else {
		d.metrics.EventApplied(ev.Entity, ev.Kind)
	}

	if d.listener != nil {
		d.listener(ev, err)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, ev domain.Event) error {
	h, ok := d.handlers[ev.Entity]
	if !ok || h == nil {
		return fmt.Errorf("no handler for %s events", ev.Entity)
	}
	switch ev.Kind {
	case domain.EventCreated:
		return h.HandleCreated(ctx, ev.Node)
	case domain.EventUpdated:
		return h.HandleUpdated(ctx, ev.Node)
	case domain.EventDeleted:
		return h.HandleDeleted(ctx, ev.ID)
	}
	return fmt.Errorf("unknown event kind %q", ev.Kind)
}

func decode(r route, data json.RawMessage) (domain.Event, error) {
	ev := domain.Event{Entity: r.entity, Kind: r.kind}
	if r.kind == domain.EventDeleted {
		id, err := gqlclient.DecodeID(r.op, data)
		if err != nil {
			return ev, err
		}
		ev.ID = id
		return ev, nil
	}

	node, err := gqlclient.DecodeNode(r.op, data)
	if err != nil {
		return ev, err
	}
	id, _ := node["id"].(string)
	if id == "" {
		return ev, errors.New("pushed object has no id")
	}
	ev.ID = id
	ev.Node = node
	return ev, nil
}
