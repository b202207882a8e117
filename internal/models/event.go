package models

import "time"

// Event is an immutable, append-only record of an item creation or mutation
// within a list. The "current state" of an item is a client-side reduction
// over the ordered event log; the server never edits or deletes events.
type Event struct {
	// ID is the event's own identifier (autoincrement).
	ID int64

	// ListID is the list this event belongs to.
	ListID int64

	// UserID is the author of the event.
	UserID int64

	// ItemID identifies the logical checklist item. Allocated from the
	// system-wide monotonic counter when the event created the item.
	ItemID int64

	// DisplayName is nil when the author did not supply one.
	DisplayName *string

	// Checked is tri-state: nil when the author did not supply it.
	Checked *bool

	// OccurredAt is the server-assigned capture time.
	OccurredAt time.Time
}

// EventDraft is the caller-supplied portion of an event before it is
// appended. All three fields are presence-carrying: nil means the field was
// absent on the wire.
//
// A nil ItemID marks an item-creation event; the service then requires a
// non-empty DisplayName, forces Checked to false, and allocates a fresh
// item id at append time.
type EventDraft struct {
	ItemID      *int64
	DisplayName *string
	Checked     *bool
}
