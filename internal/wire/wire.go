// Package wire implements the binary request/response messages exchanged
// with clients. The message layouts (field numbers, scalar types, and which
// fields carry explicit presence) are a fixed protobuf contract; this
// package marshals them directly with protowire instead of running the
// code-generation step.
//
// Optional fields are pointer-typed: a nil pointer means the field was
// absent on the wire, which is distinct from a present-but-zero value.
// Handlers rely on that distinction for partial updates and for telling
// item creation apart from item mutation.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every wire message in this package.
type Message interface {
	Marshal() []byte
	Unmarshal(data []byte) error
}

// CreateListRequest is the body of POST /v1/lists.
type CreateListRequest struct {
	DisplayName string // field 1
	Description string // field 2
}

// UpdateListRequest is the body of PUT /v1/lists/{id}. Both fields carry
// presence; absent fields leave the stored value untouched.
type UpdateListRequest struct {
	DisplayName *string // field 1
	Description *string // field 2
}

// CreateEventRequest is the body of POST /v1/lists/{id}/events. All fields
// carry presence. A missing ItemID marks an item-creation event.
type CreateEventRequest struct {
	ItemID      *int64  // field 1
	DisplayName *string // field 2
	Checked     *bool   // field 3
}

// UserMeta identifies a list member in the roster.
type UserMeta struct {
	ID          int64  // field 1
	DisplayName string // field 2
}

// Event is a stored list event as returned to clients. DisplayName and
// Checked reproduce exactly the presence the author supplied.
type Event struct {
	ItemID      int64   // field 1
	DisplayName *string // field 2
	Checked     *bool   // field 3
	OccurredAt  int64   // field 4, unix seconds
	UserID      int64   // field 5
}

// ListMeta is the summary form of a list, annotated with its event count.
type ListMeta struct {
	ID          int64  // field 1
	DisplayName string // field 2
	Description string // field 3
	EventCount  int64  // field 4
}

// List is the full detail form: metadata plus the ordered event log and the
// member roster. The creation response carries metadata only (empty slices).
type List struct {
	ID          int64      // field 1
	DisplayName string     // field 2
	Description string     // field 3
	Events      []Event    // field 4, repeated
	Users       []UserMeta // field 5, repeated
}

// ListsResponse is the body of GET /v1/lists.
type ListsResponse struct {
	Lists []ListMeta // field 1, repeated
}

// Marshal implements Message.
func (m *CreateListRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.DisplayName)
	b = appendString(b, 2, m.Description)
	return b
}

// Unmarshal implements Message.
func (m *CreateListRequest) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.DisplayName = s
		case 2:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.Description = s
		}
		return nil
	})
}

// Marshal implements Message.
func (m *UpdateListRequest) Marshal() []byte {
	var b []byte
	if m.DisplayName != nil {
		b = appendString(b, 1, *m.DisplayName)
	}
	if m.Description != nil {
		b = appendString(b, 2, *m.Description)
	}
	return b
}

// Unmarshal implements Message.
func (m *UpdateListRequest) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.DisplayName = &s
		case 2:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.Description = &s
		}
		return nil
	})
}

// Marshal implements Message.
func (m *CreateEventRequest) Marshal() []byte {
	var b []byte
	if m.ItemID != nil {
		b = appendInt64(b, 1, *m.ItemID)
	}
	if m.DisplayName != nil {
		b = appendString(b, 2, *m.DisplayName)
	}
	if m.Checked != nil {
		b = appendBool(b, 3, *m.Checked)
	}
	return b
}

// Unmarshal implements Message.
func (m *CreateEventRequest) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			n, err := v.int64(typ)
			if err != nil {
				return err
			}
			m.ItemID = &n
		case 2:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.DisplayName = &s
		case 3:
			bv, err := v.bool(typ)
			if err != nil {
				return err
			}
			m.Checked = &bv
		}
		return nil
	})
}

// Marshal implements Message.
func (m *UserMeta) Marshal() []byte {
	var b []byte
	if m.ID != 0 {
		b = appendInt64(b, 1, m.ID)
	}
	b = appendString(b, 2, m.DisplayName)
	return b
}

// Unmarshal implements Message.
func (m *UserMeta) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			n, err := v.int64(typ)
			if err != nil {
				return err
			}
			m.ID = n
		case 2:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.DisplayName = s
		}
		return nil
	})
}

// Marshal implements Message.
func (m *Event) Marshal() []byte {
	var b []byte
	if m.ItemID != 0 {
		b = appendInt64(b, 1, m.ItemID)
	}
	if m.DisplayName != nil {
		b = appendString(b, 2, *m.DisplayName)
	}
	if m.Checked != nil {
		b = appendBool(b, 3, *m.Checked)
	}
	if m.OccurredAt != 0 {
		b = appendInt64(b, 4, m.OccurredAt)
	}
	if m.UserID != 0 {
		b = appendInt64(b, 5, m.UserID)
	}
	return b
}

// Unmarshal implements Message.
func (m *Event) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			n, err := v.int64(typ)
			if err != nil {
				return err
			}
			m.ItemID = n
		case 2:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.DisplayName = &s
		case 3:
			bv, err := v.bool(typ)
			if err != nil {
				return err
			}
			m.Checked = &bv
		case 4:
			n, err := v.int64(typ)
			if err != nil {
				return err
			}
			m.OccurredAt = n
		case 5:
			n, err := v.int64(typ)
			if err != nil {
				return err
			}
			m.UserID = n
		}
		return nil
	})
}

// Marshal implements Message.
func (m *ListMeta) Marshal() []byte {
	var b []byte
	if m.ID != 0 {
		b = appendInt64(b, 1, m.ID)
	}
	b = appendString(b, 2, m.DisplayName)
	b = appendString(b, 3, m.Description)
	if m.EventCount != 0 {
		b = appendInt64(b, 4, m.EventCount)
	}
	return b
}

// Unmarshal implements Message.
func (m *ListMeta) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			n, err := v.int64(typ)
			if err != nil {
				return err
			}
			m.ID = n
		case 2:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.DisplayName = s
		case 3:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.Description = s
		case 4:
			n, err := v.int64(typ)
			if err != nil {
				return err
			}
			m.EventCount = n
		}
		return nil
	})
}

// Marshal implements Message.
func (m *List) Marshal() []byte {
	var b []byte
	if m.ID != 0 {
		b = appendInt64(b, 1, m.ID)
	}
	b = appendString(b, 2, m.DisplayName)
	b = appendString(b, 3, m.Description)
	for i := range m.Events {
		b = appendMessage(b, 4, m.Events[i].Marshal())
	}
	for i := range m.Users {
		b = appendMessage(b, 5, m.Users[i].Marshal())
	}
	return b
}

// Unmarshal implements Message.
func (m *List) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			n, err := v.int64(typ)
			if err != nil {
				return err
			}
			m.ID = n
		case 2:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.DisplayName = s
		case 3:
			s, err := v.str(typ)
			if err != nil {
				return err
			}
			m.Description = s
		case 4:
			raw, err := v.bytes(typ)
			if err != nil {
				return err
			}
			var ev Event
			if err := ev.Unmarshal(raw); err != nil {
				return err
			}
			m.Events = append(m.Events, ev)
		case 5:
			raw, err := v.bytes(typ)
			if err != nil {
				return err
			}
			var u UserMeta
			if err := u.Unmarshal(raw); err != nil {
				return err
			}
			m.Users = append(m.Users, u)
		}
		return nil
	})
}

// Marshal implements Message.
func (m *ListsResponse) Marshal() []byte {
	var b []byte
	for i := range m.Lists {
		b = appendMessage(b, 1, m.Lists[i].Marshal())
	}
	return b
}

// Unmarshal implements Message.
func (m *ListsResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		if num != 1 {
			return nil
		}
		raw, err := v.bytes(typ)
		if err != nil {
			return err
		}
		var meta ListMeta
		if err := meta.Unmarshal(raw); err != nil {
			return err
		}
		m.Lists = append(m.Lists, meta)
		return nil
	})
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendInt64(b []byte, num protowire.Number, n int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(n))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	if v {
		return protowire.AppendVarint(b, 1)
	}
	return protowire.AppendVarint(b, 0)
}

func appendMessage(b []byte, num protowire.Number, raw []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, raw)
}

// value holds one undecoded field payload during a walk.
type value struct {
	varint uint64
	raw    []byte
}

func (v value) int64(typ protowire.Type) (int64, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("wire: expected varint, got type %d", typ)
	}
	return int64(v.varint), nil
}

func (v value) bool(typ protowire.Type) (bool, error) {
	if typ != protowire.VarintType {
		return false, fmt.Errorf("wire: expected varint, got type %d", typ)
	}
	return v.varint != 0, nil
}

func (v value) str(typ protowire.Type) (string, error) {
	if typ != protowire.BytesType {
		return "", fmt.Errorf("wire: expected length-delimited, got type %d", typ)
	}
	return string(v.raw), nil
}

func (v value) bytes(typ protowire.Type) ([]byte, error) {
	if typ != protowire.BytesType {
		return nil, fmt.Errorf("wire: expected length-delimited, got type %d", typ)
	}
	return v.raw, nil
}

// walkFields iterates the top-level fields of data, decoding each payload
// and passing it to fn. Unknown field numbers are skipped, which keeps
// decoding forward-compatible with contract additions.
func walkFields(data []byte, fn func(num protowire.Number, typ protowire.Type, v value) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("wire: invalid tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		var v value
		switch typ {
		case protowire.VarintType:
			val, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("wire: field %d: %w", num, protowire.ParseError(n))
			}
			v.varint = val
			data = data[n:]
		case protowire.BytesType:
			raw, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("wire: field %d: %w", num, protowire.ParseError(n))
			}
			v.raw = raw
			data = data[n:]
		default:
			// Skip fixed32/fixed64 and any other type we never emit.
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("wire: field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
			continue
		}

		if err := fn(num, typ, v); err != nil {
			return err
		}
	}
	return nil
}
