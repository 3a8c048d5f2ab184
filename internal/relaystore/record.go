package relaystore

import (
	"maps"
	"slices"
	"strings"
)

// DataID identifies a record in the store. Server records use the object's
// opaque GraphQL id; client-generated records use the "client:" prefix.
type DataID string

const (
	// RootID is the id of the root record that anchors top-level fields.
	RootID DataID = "client:root"
	// RootType is the typename of the root record.
	RootType = "__Root"

	clientPrefix = "client:"
)

// ClientID derives a stable client-side id from a parent id and path parts.
func ClientID(parent DataID, parts ...string) DataID {
	id := string(parent)
	if !strings.HasPrefix(id, clientPrefix) {
		id = clientPrefix + id
	}
	for _, p := range parts {
		id += ":" + p
	}
	return DataID(id)
}

// IsClientID reports whether id was generated client-side.
func IsClientID(id DataID) bool {
	return strings.HasPrefix(string(id), clientPrefix)
}

type record struct {
	id       DataID
	typename string
	values   map[string]any
	links    map[string]DataID
	lists    map[string][]DataID
}

func newRecord(id DataID, typename string) *record {
	return &record{
		id:       id,
		typename: typename,
		values:   make(map[string]any),
		links:    make(map[string]DataID),
		lists:    make(map[string][]DataID),
	}
}

func (r *record) clone() *record {
	lists := make(map[string][]DataID, len(r.lists))
	for k, v := range r.lists {
		lists[k] = slices.Clone(v)
	}
	return &record{
		id:       r.id,
		typename: r.typename,
		values:   maps.Clone(r.values),
		links:    maps.Clone(r.links),
		lists:    lists,
	}
}

// clearField drops every representation of name so a field is only ever
// stored as one of scalar, single link or plural link.
func (r *record) clearField(name string) {
	delete(r.values, name)
	delete(r.links, name)
	delete(r.lists, name)
}
