// Package relaystore is the console's normalized record cache: a flat,
// id-keyed record source shared by every view, with helpers for paginated
// connections. All access goes through transactions. At most one writer
// transaction runs at a time and readers never observe a writer's partial
// state.
package relaystore

import (
	"sync"
)

// Store is the normalized record source.
type Store struct {
	mu      sync.RWMutex
	records map[DataID]*record
}

// New creates an empty store containing only the root record.
func New() *Store {
	s := &Store{records: make(map[DataID]*record)}
	s.records[RootID] = newRecord(RootID, RootType)
	return s
}

// Update runs fn as the single writer. Writes made by fn become visible to
// readers when fn returns. If fn panics, every record it touched is restored
// and the panic is re-raised.
func (s *Store) Update(fn func(tx *Tx)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{store: s, writable: true, undo: make(map[DataID]*record)}
	defer func() {
		if r := recover(); r != nil {
			tx.rollback()
			panic(r)
		}
	}()

	fn(tx)
}

// View runs fn with a read-only transaction. Any write attempted through it
// panics.
func (s *Store) View(fn func(tx *Tx)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fn(&Tx{store: s})
}

// Len returns the number of records, root included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Tx is a handle to the store valid only inside Update or View.
type Tx struct {
	store    *Store
	writable bool
	// undo holds the pre-transaction state of each touched record; a nil
	// entry means the record did not exist.
	undo map[DataID]*record
}

// Root returns the root record.
func (tx *Tx) Root() RecordProxy {
	return RecordProxy{tx: tx, id: RootID}
}

// Get returns the record with the given id.
func (tx *Tx) Get(id DataID) (RecordProxy, bool) {
	if _, ok := tx.store.records[id]; !ok {
		return RecordProxy{}, false
	}
	return RecordProxy{tx: tx, id: id}, true
}

// GetOrCreate returns the record with the given id, creating it with the
// given typename when absent. An existing record keeps its typename unless
// it had none.
func (tx *Tx) GetOrCreate(id DataID, typename string) RecordProxy {
	tx.mustWrite()
	if rec, ok := tx.store.records[id]; ok {
		if rec.typename == "" && typename != "" {
			tx.mutable(id).typename = typename
		}
		return RecordProxy{tx: tx, id: id}
	}
	tx.journal(id)
	tx.store.records[id] = newRecord(id, typename)
	return RecordProxy{tx: tx, id: id}
}

// Delete removes the record. Links pointing at it become dangling and are
// skipped by readers. Deleting the root or a missing record is a no-op.
func (tx *Tx) Delete(id DataID) {
	tx.mustWrite()
	if id == RootID {
		return
	}
	if _, ok := tx.store.records[id]; !ok {
		return
	}
	tx.journal(id)
	delete(tx.store.records, id)
}

// Writable reports whether the transaction accepts writes.
func (tx *Tx) Writable() bool { return tx.writable }

func (tx *Tx) mustWrite() {
	if !tx.writable {
		panic("relaystore: write in read-only transaction")
	}
}

func (tx *Tx) journal(id DataID) {
	if _, seen := tx.undo[id]; seen {
		return
	}
	if rec, ok := tx.store.records[id]; ok {
		tx.undo[id] = rec.clone()
		return
	}
	tx.undo[id] = nil
}

// mutable returns the live record for id after journaling it.
func (tx *Tx) mutable(id DataID) *record {
	tx.mustWrite()
	tx.journal(id)
	return tx.store.records[id]
}

func (tx *Tx) rollback() {
	for id, prev := range tx.undo {
		if prev == nil {
			delete(tx.store.records, id)
			continue
		}
		tx.store.records[id] = prev
	}
}

func (tx *Tx) lookup(id DataID) *record {
	return tx.store.records[id]
}
