// Package table keeps the cached, status-filtered listings behind the posts
// and comments tables. Every write runs in one store transaction and routes
// through the connection synchronizer, so all resident views of a table
// agree on which records they hold.
package table

import (
	"github.com/deicod/ermblog-console/internal/connsync"
	"github.com/deicod/ermblog-console/internal/domain"
	"github.com/deicod/ermblog-console/internal/relaystore"
)

// Page is the resident state of one view.
type Page[T any] struct {
	Filter      string `json:"filter"               yaml:"filter"`
	TotalCount  *int   `json:"totalCount,omitempty" yaml:"totalCount,omitempty"`
	HasNextPage bool   `json:"hasNextPage"          yaml:"hasNextPage"`
	EndCursor   string `json:"endCursor,omitempty"  yaml:"endCursor,omitempty"`
	Items       []T    `json:"items"                yaml:"items"`
}

// ReadFunc converts a cached record into its read model.
type ReadFunc[T any] func(rec relaystore.RecordProxy) T

// Table binds a synchronizer to a store for one node type.
type Table[S connsync.Status, T any] struct {
	store    *relaystore.Store
	sync     *connsync.Synchronizer[S]
	nodeType string
	read     ReadFunc[T]
}

// New creates a Table.
func New[S connsync.Status, T any](
	store *relaystore.Store,
	sync *connsync.Synchronizer[S],
	nodeType string,
	read ReadFunc[T],
) *Table[S, T] {
	return &Table[S, T]{store: store, sync: sync, nodeType: nodeType, read: read}
}

// Write stores a fetched page in the view for status.
func (t *Table[S, T]) Write(status S, page relaystore.ConnectionPage, mode relaystore.WriteMode) Page[T] {
	f := connsync.FilterFor(status)

	var out Page[T]
	t.store.Update(func(tx *relaystore.Tx) {
		conn := relaystore.WriteConnectionPage(tx, tx.Root(), t.sync.Key(), t.sync.Args(f), page, mode)
		out = t.view(f, conn)
	})
	return out
}

// Page returns the view for status if it is resident.
func (t *Table[S, T]) Page(status S) (Page[T], bool) {
	f := connsync.FilterFor(status)

	var (
		out Page[T]
		ok  bool
	)
	t.store.View(func(tx *relaystore.Tx) {
		var conn relaystore.RecordProxy
		if conn, ok = t.sync.Connection(tx, f); ok {
			out = t.view(f, conn)
		}
	})
	return out, ok
}

// Resident returns the filters whose views are cached.
func (t *Table[S, T]) Resident() []connsync.Filter[S] {
	var out []connsync.Filter[S]
	t.store.View(func(tx *relaystore.Tx) {
		for _, f := range t.sync.Filters() {
			if _, ok := t.sync.Connection(tx, f); ok {
				out = append(out, f)
			}
		}
	})
	return out
}

// Lookup returns the cached record with the given id.
func (t *Table[S, T]) Lookup(id string) (T, bool) {
	var (
		out T
		ok  bool
	)
	t.store.View(func(tx *relaystore.Tx) {
		var rec relaystore.RecordProxy
		if rec, ok = tx.Get(relaystore.DataID(id)); ok {
			out = t.read(rec)
		}
	})
	return out, ok
}

// Put merges nodes into the cache without touching any view.
func (t *Table[S, T]) Put(nodes ...map[string]any) ([]T, error) {
	var (
		out []T
		err error
	)
	t.store.Update(func(tx *relaystore.Tx) {
		for _, node := range nodes {
			rec, ok := relaystore.Normalize(tx, t.nodeType, node)
			if !ok {
				err = missingID()
				return
			}
			out = append(out, t.read(rec))
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Created merges a newly created node and inserts it into the views its
// status matches.
func (t *Table[S, T]) Created(node map[string]any) (connsync.Change[S], error) {
	var (
		change connsync.Change[S]
		err    error
	)
	t.store.Update(func(tx *relaystore.Tx) {
		rec, ok := relaystore.Normalize(tx, t.nodeType, node)
		if !ok {
			err = missingID()
			return
		}
		change = t.sync.InsertCreated(tx, rec, statusOf[S](rec))
	})
	return change, err
}

// Updated merges an updated node. A record that was already cached moves
// between views when its status changed; a record seen for the first time
// is merged only, since the server counted it wherever it belongs.
func (t *Table[S, T]) Updated(node map[string]any) (connsync.Change[S], error) {
	var (
		change connsync.Change[S]
		err    error
	)
	t.store.Update(func(tx *relaystore.Tx) {
		id, _ := node["id"].(string)
		prev, seen := tx.Get(relaystore.DataID(id))
		var before S
		if seen {
			before = statusOf[S](prev)
		}

		rec, ok := relaystore.Normalize(tx, t.nodeType, node)
		if !ok {
			err = missingID()
			return
		}
		if !seen {
			return
		}
		if next := statusOf[S](rec); next != before {
			change = t.sync.ApplyStatusChange(tx, rec.DataID(), next)
		}
	})
	return change, err
}

// Deleted removes the record from every view.
func (t *Table[S, T]) Deleted(id string) connsync.Change[S] {
	var change connsync.Change[S]
	t.store.Update(func(tx *relaystore.Tx) {
		change = t.sync.RemoveDeleted(tx, relaystore.DataID(id))
	})
	return change
}

func (t *Table[S, T]) view(f connsync.Filter[S], conn relaystore.RecordProxy) Page[T] {
	info := relaystore.ReadPageInfo(conn)
	page := Page[T]{
		Filter:      f.String(),
		HasNextPage: info.HasNextPage,
		EndCursor:   info.EndCursor,
		Items:       []T{},
	}
	if n, ok := relaystore.TotalCount(conn); ok {
		page.TotalCount = &n
	}
	for _, node := range relaystore.EdgeNodes(conn) {
		page.Items = append(page.Items, t.read(node))
	}
	return page
}

// statusOf reads the status the record holds after a merge. A missing or
// null status reads as the zero value.
func statusOf[S connsync.Status](rec relaystore.RecordProxy) S {
	s, _ := rec.String(connsync.StatusField)
	return S(s)
}

func missingID() error {
	return domain.NewValidationError("id", "required")
}
