package gqlclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/deicod/ermblog-console/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

const postLookupFields = `id title status updatedAt authorID author { id displayName email username } __typename`

// lookupOperations caches the aliased post lookup documents by batch size.
var lookupOperations sync.Map

// PostLoader batches concurrent post lookups into one aliased query.
// Results are not cached between calls.
type PostLoader struct {
	loader *dataloader.Loader[string, map[string]any]
}

// NewPostLoader creates a PostLoader backed by c.
func NewPostLoader(c *Client) *PostLoader {
	return &PostLoader{
		loader: dataloader.NewBatchedLoader(
			newPostsBatchFn(c),
			dataloader.WithWait[string, map[string]any](wait),
			dataloader.WithBatchCapacity[string, map[string]any](maxBatch),
			dataloader.WithCache[string, map[string]any](&dataloader.NoCache[string, map[string]any]{}),
		),
	}
}

// Load returns the post with the given id, or domain.ErrNotFound.
func (l *PostLoader) Load(ctx context.Context, id string) (map[string]any, error) {
	return l.loader.Load(ctx, id)()
}

// LoadMany looks up ids in one batch. Results and errors are index-aligned
// with ids.
func (l *PostLoader) LoadMany(ctx context.Context, ids []string) ([]map[string]any, []error) {
	return l.loader.LoadMany(ctx, ids)()
}

func newPostsBatchFn(c *Client) dataloader.BatchFunc[string, map[string]any] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[map[string]any] {
		nodes, err := c.FetchPostsByID(ctx, keys)
		if err != nil {
			return errorResults[map[string]any](len(keys), err)
		}
		return mapResults(keys, nodes)
	}
}

// FetchPostsByID looks up posts in one request. Posts the API does not
// return are absent from the result.
func (c *Client) FetchPostsByID(ctx context.Context, ids []string) (map[string]map[string]any, error) {
	if len(ids) == 0 {
		return map[string]map[string]any{}, nil
	}
	op, err := postLookupOperation(len(ids))
	if err != nil {
		return nil, err
	}

	vars := make(map[string]any, len(ids))
	for i, id := range ids {
		vars[fmt.Sprintf("id%d", i)] = id
	}

	var data map[string]json.RawMessage
	if err := c.Do(ctx, op, vars, &data); err != nil {
		return nil, err
	}

	out := make(map[string]map[string]any, len(ids))
	for i, id := range ids {
		raw, ok := data[fmt.Sprintf("p%d", i)]
		if !ok {
			continue
		}
		var node map[string]any
		if err := json.Unmarshal(raw, &node); err != nil {
			return nil, fmt.Errorf("decode post %s: %w", id, err)
		}
		if node != nil {
			out[id] = node
		}
	}
	return out, nil
}

func postLookupOperation(n int) (Operation, error) {
	if op, ok := lookupOperations.Load(n); ok {
		return op.(Operation), nil
	}

	var b strings.Builder
	b.WriteString("query PostLookupQuery(")
	for i := range n {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$id%d: ID!", i)
	}
	b.WriteString(") {\n")
	for i := range n {
		fmt.Fprintf(&b, "  p%d: post(id: $id%d) { %s }\n", i, i, postLookupFields)
	}
	b.WriteString("}\n")

	op, err := parseOperation(schema, b.String())
	if err != nil {
		return Operation{}, fmt.Errorf("build post lookup: %w", err)
	}
	lookupOperations.Store(n, op)
	return op, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps found values back to key order; missing keys resolve to
// domain.ErrNotFound.
func mapResults[V any](keys []string, found map[string]V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := found[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Error: fmt.Errorf("post %s: %w", key, domain.ErrNotFound)}
		}
	}
	return results
}
