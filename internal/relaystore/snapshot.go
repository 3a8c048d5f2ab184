package relaystore

import (
	"maps"
	"slices"
	"sort"
)

// RecordSnapshot is the serializable form of one record.
type RecordSnapshot struct {
	ID       DataID              `json:"id"`
	Typename string              `json:"typename,omitempty"`
	Values   map[string]any      `json:"values,omitempty"`
	Links    map[string]DataID   `json:"links,omitempty"`
	Lists    map[string][]DataID `json:"lists,omitempty"`
}

// Snapshot is a point-in-time copy of every record, ordered by id.
type Snapshot struct {
	Records []RecordSnapshot `json:"records"`
}

// Snapshot copies the store under a read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]DataID, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := Snapshot{Records: make([]RecordSnapshot, 0, len(ids))}
	for _, id := range ids {
		rec := s.records[id].clone()
		out.Records = append(out.Records, RecordSnapshot{
			ID:       rec.id,
			Typename: rec.typename,
			Values:   rec.values,
			Links:    rec.links,
			Lists:    rec.lists,
		})
	}
	return out
}

// Restore replaces the store contents with snap. The root record is
// recreated when snap does not contain one.
func (s *Store) Restore(snap Snapshot) {
	records := make(map[DataID]*record, len(snap.Records)+1)
	for _, rs := range snap.Records {
		if rs.ID == "" {
			continue
		}
		rec := newRecord(rs.ID, rs.Typename)
		maps.Copy(rec.values, rs.Values)
		maps.Copy(rec.links, rs.Links)
		for k, v := range rs.Lists {
			rec.lists[k] = slices.Clone(v)
		}
		records[rs.ID] = rec
	}
	if _, ok := records[RootID]; !ok {
		records[RootID] = newRecord(RootID, RootType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}
