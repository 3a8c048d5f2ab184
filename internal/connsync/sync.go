// Package connsync keeps the status-filtered views of a paginated connection
// consistent when a record is created, changes status or is deleted.
//
// Every operation runs inside a caller-supplied writable store transaction,
// recomputes membership from the store's current contents and never fails:
// views that were never fetched, records that are missing and statuses that
// are not recognized all degrade to no-ops.
package connsync

import "github.com/deicod/ermblog-console/internal/relaystore"

// StatusField is the record field holding the status.
const StatusField = "status"

// Config names the connection a Synchronizer maintains.
type Config struct {
	// Key is the connection key shared by all views.
	Key string
	// FilterArg is the connection argument carrying the status filter.
	FilterArg string
	// EdgeType is the typename given to synthesized edges.
	EdgeType string
}

// Observer is notified of every edge the synchronizer inserts or removes.
type Observer interface {
	EdgeInserted(connection, filter string)
	EdgeRemoved(connection, filter string)
}

type nopObserver struct{}

func (nopObserver) EdgeInserted(string, string) {}
func (nopObserver) EdgeRemoved(string, string)  {}

type options struct {
	priorMembership bool
	purgeOnDelete   bool
	observer        Observer
}

// Option configures a Synchronizer.
type Option func(*options)

// WithPriorMembership restricts status changes to insert a record only when
// it was present in at least one fetched view before the change.
func WithPriorMembership() Option {
	return func(o *options) { o.priorMembership = true }
}

// WithPurgeOnDelete drops a deleted record from the store once it has been
// removed from at least one view.
func WithPurgeOnDelete() Option {
	return func(o *options) { o.purgeOnDelete = true }
}

// WithObserver registers o for edge notifications.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// Change describes what an operation did. A zero Change is a no-op.
type Change[S Status] struct {
	Inserted []Filter[S]
	Removed  []Filter[S]
	Purged   bool
}

// IsZero reports whether nothing changed.
func (c Change[S]) IsZero() bool {
	return len(c.Inserted) == 0 && len(c.Removed) == 0 && !c.Purged
}

// Synchronizer maintains the views of one connection. It holds no state
// between calls.
type Synchronizer[S Status] struct {
	cfg     Config
	filters []Filter[S]
	opts    options
}

// New returns a Synchronizer over the unfiltered view followed by one view
// per status, in the given order.
func New[S Status](cfg Config, statuses []S, opts ...Option) *Synchronizer[S] {
	o := options{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}

	filters := make([]Filter[S], 0, len(statuses)+1)
	filters = append(filters, AnyStatus[S]())
	for _, s := range statuses {
		filters = append(filters, ByStatus(s))
	}

	return &Synchronizer[S]{cfg: cfg, filters: filters, opts: o}
}

// Key returns the connection key.
func (s *Synchronizer[S]) Key() string { return s.cfg.Key }

// Filters returns the views in canonical order.
func (s *Synchronizer[S]) Filters() []Filter[S] {
	out := make([]Filter[S], len(s.filters))
	copy(out, s.filters)
	return out
}

// Args returns the connection arguments addressing view f.
func (s *Synchronizer[S]) Args(f Filter[S]) relaystore.Filters {
	return f.args(s.cfg.FilterArg)
}

// Connection returns the resident connection for view f.
func (s *Synchronizer[S]) Connection(tx *relaystore.Tx, f Filter[S]) (relaystore.RecordProxy, bool) {
	return relaystore.GetConnection(tx.Root(), s.cfg.Key, s.Args(f))
}

// InsertCreated adds a newly created record to the front of every resident
// view it matches. Views already holding the record are left alone.
func (s *Synchronizer[S]) InsertCreated(tx *relaystore.Tx, rec relaystore.RecordProxy, status S) Change[S] {
	status = resolve(status)

	var change Change[S]
	for _, f := range s.filters {
		conn, ok := s.Connection(tx, f)
		if !ok || !Matches(f, status) {
			continue
		}
		if relaystore.HasNode(conn, rec.DataID()) {
			continue
		}
		s.insert(tx, conn, rec, f)
		change.Inserted = append(change.Inserted, f)
	}
	return change
}

// ApplyStatusChange writes next onto the record and then moves it between
// views: out of resident views it no longer matches, onto the front of
// resident views it now matches. Views it stays in keep its edge and
// position.
func (s *Synchronizer[S]) ApplyStatusChange(tx *relaystore.Tx, id relaystore.DataID, next S) Change[S] {
	rec, ok := tx.Get(id)
	if !ok {
		return Change[S]{}
	}

	next = resolve(next)
	var zero S
	if next == zero {
		rec.SetValue(StatusField, nil)
	} else {
		rec.SetValue(StatusField, string(next))
	}

	allowInsert := true
	if s.opts.priorMembership {
		allowInsert = s.residentAnywhere(tx, id)
	}

	var change Change[S]
	for _, f := range s.filters {
		conn, ok := s.Connection(tx, f)
		if !ok {
			continue
		}
		present := relaystore.HasNode(conn, id)
		should := Matches(f, next)

		switch {
		case present && !should:
			s.remove(tx, conn, id, f)
			change.Removed = append(change.Removed, f)
		case !present && should && allowInsert:
			s.insert(tx, conn, rec, f)
			change.Inserted = append(change.Inserted, f)
		}
	}
	return change
}

// RemoveDeleted removes the record from every resident view.
func (s *Synchronizer[S]) RemoveDeleted(tx *relaystore.Tx, id relaystore.DataID) Change[S] {
	var change Change[S]
	for _, f := range s.filters {
		conn, ok := s.Connection(tx, f)
		if !ok || !relaystore.HasNode(conn, id) {
			continue
		}
		s.remove(tx, conn, id, f)
		change.Removed = append(change.Removed, f)
	}

	if s.opts.purgeOnDelete && len(change.Removed) > 0 {
		if _, ok := tx.Get(id); ok {
			tx.Delete(id)
			change.Purged = true
		}
	}
	return change
}

func (s *Synchronizer[S]) residentAnywhere(tx *relaystore.Tx, id relaystore.DataID) bool {
	for _, f := range s.filters {
		if conn, ok := s.Connection(tx, f); ok && relaystore.HasNode(conn, id) {
			return true
		}
	}
	return false
}

func (s *Synchronizer[S]) insert(tx *relaystore.Tx, conn, rec relaystore.RecordProxy, f Filter[S]) {
	edge := relaystore.CreateEdge(tx, conn, rec, s.cfg.EdgeType)
	relaystore.InsertEdgeBefore(conn, edge)
	adjustTotalCount(conn, 1)
	s.opts.observer.EdgeInserted(s.cfg.Key, f.String())
}

func (s *Synchronizer[S]) remove(tx *relaystore.Tx, conn relaystore.RecordProxy, id relaystore.DataID, f Filter[S]) {
	relaystore.DeleteNode(tx, conn, id)
	adjustTotalCount(conn, -1)
	s.opts.observer.EdgeRemoved(s.cfg.Key, f.String())
}

// adjustTotalCount shifts a numeric totalCount by delta, never below zero.
// A missing or non-numeric count is left as is.
func adjustTotalCount(conn relaystore.RecordProxy, delta int) {
	n, ok := relaystore.TotalCount(conn)
	if !ok {
		return
	}
	relaystore.SetTotalCount(conn, max(0, n+delta))
}

func resolve[S Status](s S) S {
	if !s.IsValid() {
		var zero S
		return zero
	}
	return s
}
