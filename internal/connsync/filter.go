package connsync

import "github.com/deicod/ermblog-console/internal/relaystore"

// Status is a closed status enumeration. The zero value means "no status".
type Status interface {
	~string
	IsValid() bool
}

// Filter selects one view of a connection: either every record or the
// records holding one status.
type Filter[S Status] struct {
	status S
	any    bool
}

// AnyStatus is the unfiltered view.
func AnyStatus[S Status]() Filter[S] {
	return Filter[S]{any: true}
}

// ByStatus is the view of records holding status s.
func ByStatus[S Status](s S) Filter[S] {
	return Filter[S]{status: s}
}

// FilterFor maps an optional status to its view: the zero status selects
// the unfiltered view.
func FilterFor[S Status](s S) Filter[S] {
	var zero S
	if s == zero {
		return AnyStatus[S]()
	}
	return ByStatus(s)
}

// IsAny reports whether f is the unfiltered view.
func (f Filter[S]) IsAny() bool { return f.any }

// Status returns the status f selects, or false for the unfiltered view.
func (f Filter[S]) Status() (S, bool) {
	return f.status, !f.any
}

func (f Filter[S]) String() string {
	if f.any {
		return "all"
	}
	return string(f.status)
}

// args is the connection filter argument set for f. The unfiltered view
// passes an explicit null, which addresses the same connection as no
// argument at all.
func (f Filter[S]) args(name string) relaystore.Filters {
	if f.any {
		return relaystore.Filters{name: nil}
	}
	return relaystore.Filters{name: string(f.status)}
}

// Matches reports whether a record holding status belongs in view f. The
// unfiltered view matches everything; a status view matches only a
// recognized status equal to its own. Unrecognized statuses therefore
// appear only in the unfiltered view.
func Matches[S Status](f Filter[S], status S) bool {
	if f.any {
		return true
	}
	var zero S
	return status != zero && status.IsValid() && f.status == status
}
