package relaystore

import "slices"

// RecordProxy reads and writes one record through the transaction that
// produced it. A proxy whose record was deleted reads as empty.
type RecordProxy struct {
	tx *Tx
	id DataID
}

// DataID returns the record id.
func (p RecordProxy) DataID() DataID { return p.id }

// Typename returns the record's GraphQL typename.
func (p RecordProxy) Typename() string {
	if rec := p.rec(); rec != nil {
		return rec.typename
	}
	return ""
}

// Exists reports whether the record is still present in the store.
func (p RecordProxy) Exists() bool { return p.rec() != nil }

// Value returns the scalar stored under name, or nil.
func (p RecordProxy) Value(name string) any {
	if rec := p.rec(); rec != nil {
		return rec.values[name]
	}
	return nil
}

// String returns the scalar stored under name when it is a string.
func (p RecordProxy) String(name string) (string, bool) {
	s, ok := p.Value(name).(string)
	return s, ok
}

// SetValue stores a scalar under name, replacing any link of the same name.
func (p RecordProxy) SetValue(name string, value any) {
	rec := p.tx.mutable(p.id)
	if rec == nil {
		return
	}
	rec.clearField(name)
	rec.values[name] = value
}

// LinkedRecord follows the single link stored under name.
func (p RecordProxy) LinkedRecord(name string) (RecordProxy, bool) {
	rec := p.rec()
	if rec == nil {
		return RecordProxy{}, false
	}
	id, ok := rec.links[name]
	if !ok {
		return RecordProxy{}, false
	}
	return p.tx.Get(id)
}

// SetLinkedRecord links name to target.
func (p RecordProxy) SetLinkedRecord(name string, target RecordProxy) {
	rec := p.tx.mutable(p.id)
	if rec == nil {
		return
	}
	rec.clearField(name)
	rec.links[name] = target.id
}

// LinkedIDs returns the ids stored in the plural link name, including ids
// whose records no longer exist.
func (p RecordProxy) LinkedIDs(name string) []DataID {
	if rec := p.rec(); rec != nil {
		return slices.Clone(rec.lists[name])
	}
	return nil
}

// LinkedRecords returns the existing records of the plural link name, in
// order.
func (p RecordProxy) LinkedRecords(name string) []RecordProxy {
	rec := p.rec()
	if rec == nil {
		return nil
	}
	ids := rec.lists[name]
	out := make([]RecordProxy, 0, len(ids))
	for _, id := range ids {
		if linked, ok := p.tx.Get(id); ok {
			out = append(out, linked)
		}
	}
	return out
}

// SetLinkedRecords replaces the plural link name.
func (p RecordProxy) SetLinkedRecords(name string, targets []RecordProxy) {
	ids := make([]DataID, len(targets))
	for i, t := range targets {
		ids[i] = t.id
	}
	p.setLinkedIDs(name, ids)
}

func (p RecordProxy) setLinkedIDs(name string, ids []DataID) {
	rec := p.tx.mutable(p.id)
	if rec == nil {
		return
	}
	rec.clearField(name)
	rec.lists[name] = ids
}

func (p RecordProxy) rec() *record {
	if p.tx == nil {
		return nil
	}
	return p.tx.lookup(p.id)
}
