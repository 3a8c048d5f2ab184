package relaystore

import "strconv"

const (
	idField       = "id"
	typenameField = "__typename"
)

// Normalize writes a response object into the store and returns its record.
// The object must carry a string "id". Nested objects with an id become
// their own records; nested objects without one are stored as client
// records owned by the parent field. Fields absent from payload are left
// untouched, so partial payloads merge into existing records.
func Normalize(tx *Tx, typename string, payload map[string]any) (RecordProxy, bool) {
	id, ok := payload[idField].(string)
	if !ok || id == "" {
		return RecordProxy{}, false
	}
	return normalizeObject(tx, DataID(id), typename, payload), true
}

func normalizeObject(tx *Tx, id DataID, typename string, payload map[string]any) RecordProxy {
	if t, ok := payload[typenameField].(string); ok && t != "" {
		typename = t
	}
	rec := tx.GetOrCreate(id, typename)

	for field, value := range payload {
		if field == typenameField {
			continue
		}
		switch v := value.(type) {
		case map[string]any:
			rec.SetLinkedRecord(field, normalizeObject(tx, childID(id, field, v, -1), "", v))
		case []any:
			if !allObjects(v) {
				rec.SetValue(field, v)
				continue
			}
			linked := make([]RecordProxy, len(v))
			for i, item := range v {
				obj := item.(map[string]any)
				linked[i] = normalizeObject(tx, childID(id, field, obj, i), "", obj)
			}
			rec.SetLinkedRecords(field, linked)
		default:
			rec.SetValue(field, v)
		}
	}
	return rec
}

func childID(parent DataID, field string, obj map[string]any, index int) DataID {
	if id, ok := obj[idField].(string); ok && id != "" {
		return DataID(id)
	}
	if index < 0 {
		return ClientID(parent, field)
	}
	return ClientID(parent, field, strconv.Itoa(index))
}

func allObjects(items []any) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Connection pages
// ---------------------------------------------------------------------------

// PageEdge is one fetched edge.
type PageEdge struct {
	Cursor string
	Node   map[string]any
}

// PageInfo is the pagination state returned with a page.
type PageInfo struct {
	HasNextPage bool
	EndCursor   string
}

// ConnectionPage is one fetched page of a connection.
type ConnectionPage struct {
	Typename     string
	EdgeTypename string
	NodeTypename string
	TotalCount   *int
	Edges        []PageEdge
	PageInfo     PageInfo
}

// WriteMode selects how a fetched page merges with the resident edges.
type WriteMode int

const (
	// Replace makes the page the only resident edges (first page).
	Replace WriteMode = iota
	// Append adds the page after the resident edges (load more).
	Append
)

// WriteConnectionPage stores a fetched page under parent, creating the
// connection if needed. Nodes already present are not duplicated. The
// server's totalCount and pageInfo overwrite the resident values.
func WriteConnectionPage(tx *Tx, parent RecordProxy, key string, filters Filters, page ConnectionPage, mode WriteMode) RecordProxy {
	conn := GetOrCreateConnection(tx, parent, key, filters, page.Typename)

	previous := conn.LinkedIDs(EdgesField)
	seen := make(map[DataID]bool)
	var ids []DataID
	if mode == Append {
		for _, id := range previous {
			edge, ok := tx.Get(id)
			if !ok {
				continue
			}
			seen[edgeNode(edge)] = true
			ids = append(ids, id)
		}
	}

	for _, e := range page.Edges {
		node, ok := Normalize(tx, page.NodeTypename, e.Node)
		if !ok || seen[node.DataID()] {
			continue
		}
		seen[node.DataID()] = true

		edge := CreateEdge(tx, conn, node, page.EdgeTypename)
		if e.Cursor != "" {
			edge.SetValue(CursorField, e.Cursor)
		} else {
			edge.SetValue(CursorField, nil)
		}
		ids = append(ids, edge.DataID())
	}

	if mode == Replace {
		keep := make(map[DataID]bool, len(ids))
		for _, id := range ids {
			keep[id] = true
		}
		for _, id := range previous {
			if !keep[id] {
				tx.Delete(id)
			}
		}
	}
	if ids == nil {
		ids = []DataID{}
	}
	conn.setLinkedIDs(EdgesField, ids)

	if page.TotalCount != nil {
		SetTotalCount(conn, *page.TotalCount)
	}

	info := tx.GetOrCreate(ClientID(conn.DataID(), PageInfoField), pageInfoType)
	info.SetValue(HasNextField, page.PageInfo.HasNextPage)
	if page.PageInfo.EndCursor != "" {
		info.SetValue(EndCursorField, page.PageInfo.EndCursor)
	} else {
		info.SetValue(EndCursorField, nil)
	}
	conn.SetLinkedRecord(PageInfoField, info)

	return conn
}

// ReadPageInfo returns the resident pagination state of conn.
func ReadPageInfo(conn RecordProxy) PageInfo {
	info, ok := conn.LinkedRecord(PageInfoField)
	if !ok {
		return PageInfo{}
	}
	hasNext, _ := info.Value(HasNextField).(bool)
	cursor, _ := info.String(EndCursorField)
	return PageInfo{HasNextPage: hasNext, EndCursor: cursor}
}
