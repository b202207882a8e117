package models

// List represents a shared checklist with metadata and a membership set.
type List struct {
	// ID is the unique identifier for the list (autoincrement).
	ID int64

	// DisplayName is the list's human-readable name.
	DisplayName string

	// Description is free-form text, defaults to the empty string.
	Description string
}

// ListSummary is a list annotated with its event count, as returned by the
// caller's list view. Events themselves are not loaded in this view.
type ListSummary struct {
	List

	// EventCount is the number of events appended to the list so far.
	EventCount int64
}

// ListDetail is a fully materialized list: metadata, the complete ordered
// event log, and the member roster. Produced by an explicit fetch plan
// rather than lazy loading.
type ListDetail struct {
	List

	// Events in storage order (occured_at, then id).
	Events []Event

	// Members holds id and display name for every member of the list.
	Members []User
}

// ListPatch is a partial update for list metadata. Each field is tri-state:
// a nil pointer means "leave untouched", a non-nil pointer overwrites, even
// with an empty string.
type ListPatch struct {
	DisplayName *string
	Description *string
}
