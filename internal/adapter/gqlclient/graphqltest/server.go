// Package graphqltest runs an in-process GraphQL API for client tests. It
// serves a given schema over HTTP POST and graphql-transport-ws, answering
// root fields with registered resolvers and streaming published payloads to
// subscriptions.
package graphqltest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Resolver answers one root field.
type Resolver func(ctx context.Context, args map[string]any) (any, error)

// Server is a fake GraphQL API.
type Server struct {
	// URL is the HTTP endpoint; WSURL the websocket endpoint.
	URL   string
	WSURL string

	srv  *httptest.Server
	done chan struct{}

	mu         sync.Mutex
	resolvers  map[string]Resolver
	streams    map[string][]chan json.RawMessage
	headers    []http.Header
	operations []string
	failures   []int
}

// New starts a Server for schema. It is shut down when the test ends.
func New(t testing.TB, schema *ast.Schema) *Server {
	t.Helper()

	s := &Server{
		done:      make(chan struct{}),
		resolvers: make(map[string]Resolver),
		streams:   make(map[string][]chan json.RawMessage),
	}

	h := handler.New(&graphql.ExecutableSchemaMock{
		SchemaFunc: func() *ast.Schema { return schema },
		ExecFunc:   s.exec,
	})
	h.AddTransport(transport.POST{})
	h.AddTransport(&transport.Websocket{})

	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.headers = append(s.headers, r.Header.Clone())
		var status int
		if len(s.failures) > 0 {
			status, s.failures = s.failures[0], s.failures[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(s.srv.Close)
	t.Cleanup(func() { close(s.done) })

	s.URL = s.srv.URL
	s.WSURL = "ws" + strings.TrimPrefix(s.srv.URL, "http")
	return s
}

// Handle registers the resolver for a query or mutation root field.
func (s *Server) Handle(field string, r Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolvers[field] = r
}

// FailNext answers the next len(statuses) requests, websocket upgrades
// included, with the given HTTP statuses instead of executing them.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statuses...)
}

// Headers returns the headers of every request received so far.
func (s *Server) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.headers...)
}

// Operations returns the names of executed operations in order.
func (s *Server) Operations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.operations...)
}

// Subscribers returns how many live subscriptions stream field.
func (s *Server) Subscribers(field string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.streams[field])
}

// Publish pushes payload to every live subscription of field.
func (s *Server) Publish(field string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	targets := append([]chan json.RawMessage(nil), s.streams[field]...)
	s.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- raw:
		case <-s.done:
			return errors.New("graphqltest: server closed")
		}
	}
	return nil
}

// Complete ends every live subscription of field.
func (s *Server) Complete(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.streams[field] {
		close(ch)
	}
	delete(s.streams, field)
}

// ---------------------------------------------------------------------------
// Execution
// ---------------------------------------------------------------------------

func (s *Server) exec(ctx context.Context) graphql.ResponseHandler {
	oc := graphql.GetOperationContext(ctx)

	s.mu.Lock()
	s.operations = append(s.operations, oc.OperationName)
	s.mu.Unlock()

	if oc.Operation.Operation == ast.Subscription {
		return s.stream(oc)
	}

	var once sync.Once
	return func(ctx context.Context) *graphql.Response {
		var resp *graphql.Response
		once.Do(func() { resp = s.resolve(ctx, oc) })
		return resp
	}
}

func (s *Server) resolve(ctx context.Context, oc *graphql.OperationContext) *graphql.Response {
	data := make(map[string]any)
	var errs gqlerror.List

	for _, f := range rootFields(oc.Operation) {
		s.mu.Lock()
		r := s.resolvers[f.Name]
		s.mu.Unlock()

		if r == nil {
			data[f.Alias] = nil
			errs = append(errs, &gqlerror.Error{
				Message: "no resolver for " + f.Name,
				Path:    ast.Path{ast.PathName(f.Alias)},
			})
			continue
		}

		v, err := r(ctx, f.ArgumentMap(oc.Variables))
		if err != nil {
			data[f.Alias] = nil
			errs = append(errs, toError(err, f.Alias))
			continue
		}
		data[f.Alias] = v
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return &graphql.Response{Errors: gqlerror.List{{Message: err.Error()}}}
	}
	return &graphql.Response{Data: raw, Errors: errs}
}

func (s *Server) stream(oc *graphql.OperationContext) graphql.ResponseHandler {
	fields := rootFields(oc.Operation)
	if len(fields) == 0 {
		return graphql.OneShot(&graphql.Response{Errors: gqlerror.List{{Message: "empty subscription"}}})
	}
	f := fields[0]

	ch := make(chan json.RawMessage, 64)
	s.mu.Lock()
	s.streams[f.Name] = append(s.streams[f.Name], ch)
	s.mu.Unlock()

	return func(ctx context.Context) *graphql.Response {
		select {
		case <-ctx.Done():
			s.drop(f.Name, ch)
			return nil
		case <-s.done:
			return nil
		case payload, ok := <-ch:
			if !ok {
				return nil
			}
			raw, _ := json.Marshal(map[string]json.RawMessage{f.Alias: payload})
			return &graphql.Response{Data: raw}
		}
	}
}

func (s *Server) drop(field string, ch chan json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.streams[field]
	for i, c := range list {
		if c == ch {
			s.streams[field] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func rootFields(op *ast.OperationDefinition) []*ast.Field {
	var out []*ast.Field
	for _, sel := range op.SelectionSet {
		if f, ok := sel.(*ast.Field); ok {
			out = append(out, f)
		}
	}
	return out
}

func toError(err error, alias string) *gqlerror.Error {
	var ge *gqlerror.Error
	if errors.As(err, &ge) {
		out := *ge
		out.Path = ast.Path{ast.PathName(alias)}
		return &out
	}
	return &gqlerror.Error{Message: err.Error(), Path: ast.Path{ast.PathName(alias)}}
}
