package domain

// Entity identifies the kind of content an event refers to.
type Entity string

const (
	EntityPost    Entity = "post"
	EntityComment Entity = "comment"
)

func (e Entity) String() string { return string(e) }

// EventKind is the lifecycle transition carried by a subscription push.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

func (k EventKind) String() string { return string(k) }

func (k EventKind) IsValid() bool {
	switch k {
	case EventCreated, EventUpdated, EventDeleted:
		return true
	}
	return false
}

// Event is a decoded subscription push. Node carries the record payload for
// created/updated events; ID is set for deletions (and mirrors Node["id"]
// otherwise).
type Event struct {
	Entity Entity
	Kind   EventKind
	ID     string
	Node   map[string]any
}
