package gqlclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// graphql-transport-ws message types.
const (
	subprotocol = "graphql-transport-ws"

	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgPing           = "ping"
	msgPong           = "pong"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
)

var errAllCompleted = errors.New("all subscriptions completed")

// SubscriberConfig configures a Subscriber.
type SubscriberConfig struct {
	Endpoint    string
	Token       string
	TokenType   string
	MaxRetries  int
	RetryDelay  time.Duration
	InitTimeout time.Duration
	Dialer      *websocket.Dialer
}

// Subscription is one operation kept open by a Subscriber. Next receives
// the data object of every pushed result, in arrival order.
type Subscription struct {
	Operation Operation
	Variables map[string]any
	Next      func(ctx context.Context, data json.RawMessage)
}

// Subscriber multiplexes subscriptions over one graphql-transport-ws
// connection and reconnects when it drops.
type Subscriber struct {
	cfg SubscriberConfig
	log *slog.Logger
}

// NewSubscriber creates a Subscriber.
func NewSubscriber(log *slog.Logger, cfg SubscriberConfig) *Subscriber {
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = 10 * time.Second
	}
	return &Subscriber{cfg: cfg, log: log.With("component", "subscriber")}
}

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Run keeps subs open until ctx is done or the server completes all of
// them. A dropped connection is re-established up to MaxRetries times in a
// row, re-subscribing everything; the count resets after each successful
// handshake. Run returns nil on cancellation.
func (s *Subscriber) Run(ctx context.Context, subs ...Subscription) error {
	if len(subs) == 0 {
		return nil
	}

	failures := 0
	for {
		acked, err := s.session(ctx, subs)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, errAllCompleted) {
			return nil
		}
		if acked {
			failures = 0
		}
		failures++
		if failures > s.cfg.MaxRetries {
			return fmt.Errorf("subscribe: %w", err)
		}

		s.log.WarnContext(ctx, "subscription connection lost, reconnecting",
			slog.String("error", err.Error()),
			slog.Int("attempt", failures),
		)
		if err := sleep(ctx, s.cfg.RetryDelay); err != nil {
			return nil
		}
	}
}

// session runs one connection. It reports whether the server acknowledged
// the connection.
func (s *Subscriber) session(ctx context.Context, subs []Subscription) (bool, error) {
	header := http.Header{}
	dialer := *s.cfg.Dialer
	dialer.Subprotocols = []string{subprotocol}

	conn, resp, err := dialer.DialContext(ctx, s.cfg.Endpoint, header)
	if err != nil {
		if resp != nil {
			return false, &NetworkError{Status: resp.StatusCode, Err: err}
		}
		return false, &NetworkError{Err: err}
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := s.handshake(conn); err != nil {
		return false, err
	}
	s.log.DebugContext(ctx, "subscription connection acknowledged", slog.Int("subscriptions", len(subs)))

	active := make(map[string]Subscription, len(subs))
	for _, sub := range subs {
		id := uuid.NewString()
		payload, err := json.Marshal(request{
			Query:         sub.Operation.Text,
			OperationName: sub.Operation.Name,
			Variables:     sub.Variables,
		})
		if err != nil {
			return true, fmt.Errorf("encode %s: %w", sub.Operation.Name, err)
		}
		if err := conn.WriteJSON(wsMessage{ID: id, Type: msgSubscribe, Payload: payload}); err != nil {
			return true, fmt.Errorf("subscribe %s: %w", sub.Operation.Name, err)
		}
		active[id] = sub
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return true, fmt.Errorf("read: %w", err)
		}

		switch msg.Type {
		case msgNext:
			sub, ok := active[msg.ID]
			if !ok {
				continue
			}
			var result response
			if err := json.Unmarshal(msg.Payload, &result); err != nil {
				s.log.WarnContext(ctx, "undecodable subscription result",
					slog.String("operation", sub.Operation.Name),
					slog.String("error", err.Error()),
				)
				continue
			}
			if len(result.Errors) > 0 {
				s.log.WarnContext(ctx, "subscription result with errors",
					slog.String("operation", sub.Operation.Name),
					slog.String("error", result.Errors.Error()),
				)
				continue
			}
			sub.Next(ctx, result.Data)

		case msgError:
			sub, ok := active[msg.ID]
			if !ok {
				continue
			}
			var errs gqlerror.List
			_ = json.Unmarshal(msg.Payload, &errs)
			s.log.ErrorContext(ctx, "subscription rejected",
				slog.String("operation", sub.Operation.Name),
				slog.String("error", errs.Error()),
			)
			delete(active, msg.ID)
			if len(active) == 0 {
				return true, errAllCompleted
			}

		case msgComplete:
			delete(active, msg.ID)
			if len(active) == 0 {
				return true, errAllCompleted
			}

		case msgPing:
			if err := conn.WriteJSON(wsMessage{Type: msgPong}); err != nil {
				return true, fmt.Errorf("pong: %w", err)
			}

		case msgPong:
		}
	}
}

func (s *Subscriber) handshake(conn *websocket.Conn) error {
	hello := wsMessage{Type: msgConnectionInit}
	if auth := authorization(s.cfg.TokenType, s.cfg.Token); auth != "" {
		payload, err := json.Marshal(map[string]string{"Authorization": auth})
		if err != nil {
			return fmt.Errorf("encode init payload: %w", err)
		}
		hello.Payload = payload
	}
	if err := conn.WriteJSON(hello); err != nil {
		return fmt.Errorf("connection init: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(s.cfg.InitTimeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	defer conn.SetReadDeadline(time.Time{})

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("await ack: %w", err)
		}
		switch msg.Type {
		case msgConnectionAck:
			return nil
		case msgPing:
			if err := conn.WriteJSON(wsMessage{Type: msgPong}); err != nil {
				return fmt.Errorf("pong: %w", err)
			}
		case msgPong:
		default:
			return fmt.Errorf("unexpected %q before ack", msg.Type)
		}
	}
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
