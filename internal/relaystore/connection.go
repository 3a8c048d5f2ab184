package relaystore

import (
	"encoding/json"
	"math"
	"slices"
	"sort"
	"strings"
)

// Field names used on connection and edge records.
const (
	EdgesField      = "edges"
	NodeField       = "node"
	CursorField     = "cursor"
	TotalCountField = "totalCount"
	PageInfoField   = "pageInfo"
	HasNextField    = "hasNextPage"
	EndCursorField  = "endCursor"
	pageInfoType    = "PageInfo"
)

// Filters are the argument values that select one connection among those
// sharing a key. A nil value means "argument not set".
type Filters map[string]any

// StorageKey formats a field name with its non-nil arguments in a stable
// order: name(arg1:json,arg2:json). Without non-nil arguments the bare name
// is returned, so an explicit nil filter and a missing filter address the
// same storage slot.
func StorageKey(name string, args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k, v := range args {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return name
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		encoded, err := json.Marshal(args[k])
		if err != nil {
			encoded = []byte(`"` + k + `"`)
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.Write(encoded)
	}
	b.WriteByte(')')
	return b.String()
}

// ConnectionStorageKey is the field under which the connection with the
// given key and filters hangs off its parent record.
func ConnectionStorageKey(key string, filters Filters) string {
	return StorageKey("__"+key+"_connection", filters)
}

// GetConnection returns the connection record for key and filters, if it
// has been fetched into the store.
func GetConnection(parent RecordProxy, key string, filters Filters) (RecordProxy, bool) {
	return parent.LinkedRecord(ConnectionStorageKey(key, filters))
}

// GetOrCreateConnection returns the connection record, creating and linking
// an empty one when absent. Only the fetch path creates connections.
func GetOrCreateConnection(tx *Tx, parent RecordProxy, key string, filters Filters, typename string) RecordProxy {
	storageKey := ConnectionStorageKey(key, filters)
	if conn, ok := parent.LinkedRecord(storageKey); ok {
		return conn
	}
	conn := tx.GetOrCreate(ClientID(parent.DataID(), storageKey), typename)
	conn.setLinkedIDs(EdgesField, []DataID{})
	parent.SetLinkedRecord(storageKey, conn)
	return conn
}

// CreateEdge builds an edge record wrapping node for insertion into conn.
// The edge id is derived from the connection and node ids, so a connection
// holds at most one edge record per node.
func CreateEdge(tx *Tx, conn, node RecordProxy, edgeType string) RecordProxy {
	edge := tx.GetOrCreate(ClientID(conn.DataID(), string(node.DataID())), edgeType)
	edge.SetLinkedRecord(NodeField, node)
	return edge
}

// InsertEdgeBefore puts edge at the front of the connection.
func InsertEdgeBefore(conn, edge RecordProxy) {
	ids := conn.LinkedIDs(EdgesField)
	conn.setLinkedIDs(EdgesField, append([]DataID{edge.DataID()}, ids...))
}

// InsertEdgeAfter appends edge to the end of the connection.
func InsertEdgeAfter(conn, edge RecordProxy) {
	conn.setLinkedIDs(EdgesField, append(conn.LinkedIDs(EdgesField), edge.DataID()))
}

// DeleteNode removes every edge of conn whose node is nodeID and drops the
// removed edge records. It reports whether anything was removed.
func DeleteNode(tx *Tx, conn RecordProxy, nodeID DataID) bool {
	ids := conn.LinkedIDs(EdgesField)
	kept := make([]DataID, 0, len(ids))
	var removed []DataID
	for _, id := range ids {
		edge, ok := tx.Get(id)
		if ok && edgeNode(edge) == nodeID {
			removed = append(removed, id)
			continue
		}
		kept = append(kept, id)
	}
	if len(removed) == 0 {
		return false
	}
	conn.setLinkedIDs(EdgesField, kept)
	for _, id := range removed {
		tx.Delete(id)
	}
	return true
}

// HasNode reports whether conn holds an edge for nodeID.
func HasNode(conn RecordProxy, nodeID DataID) bool {
	return slices.ContainsFunc(conn.LinkedRecords(EdgesField), func(edge RecordProxy) bool {
		return edgeNode(edge) == nodeID
	})
}

// EdgeNodes returns the node records of conn in edge order. Edges whose node
// no longer exists are skipped.
func EdgeNodes(conn RecordProxy) []RecordProxy {
	edges := conn.LinkedRecords(EdgesField)
	out := make([]RecordProxy, 0, len(edges))
	for _, edge := range edges {
		if node, ok := edge.LinkedRecord(NodeField); ok {
			out = append(out, node)
		}
	}
	return out
}

// TotalCount reads the connection's totalCount. It reports false when the
// value is missing or not numeric.
func TotalCount(conn RecordProxy) (int, bool) {
	switch v := conn.Value(TotalCountField).(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// SetTotalCount stores n as the connection's totalCount.
func SetTotalCount(conn RecordProxy, n int) {
	conn.SetValue(TotalCountField, n)
}

func edgeNode(edge RecordProxy) DataID {
	rec := edge.rec()
	if rec == nil {
		return ""
	}
	return rec.links[NodeField]
}
