package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func strptr(s string) *string { return &s }
func i64ptr(n int64) *int64   { return &n }
func boolptr(b bool) *bool    { return &b }

func TestCreateEventRequest_PresenceRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  CreateEventRequest
	}{
		{"all absent", CreateEventRequest{}},
		{"creation: name only", CreateEventRequest{DisplayName: strptr("Milk")}},
		{"mutation: check item", CreateEventRequest{ItemID: i64ptr(42), Checked: boolptr(true)}},
		{"mutation: uncheck", CreateEventRequest{ItemID: i64ptr(42), Checked: boolptr(false)}},
		{"rename to empty", CreateEventRequest{ItemID: i64ptr(7), DisplayName: strptr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CreateEventRequest
			require.NoError(t, got.Unmarshal(tt.msg.Marshal()))
			assert.Equal(t, tt.msg, got)
		})
	}
}

func TestCreateEventRequest_AbsentVsZeroDistinct(t *testing.T) {
	// checked=false must survive the wire as "present with value false",
	// not collapse into absence.
	present := CreateEventRequest{ItemID: i64ptr(1), Checked: boolptr(false)}
	absent := CreateEventRequest{ItemID: i64ptr(1)}

	var decodedPresent, decodedAbsent CreateEventRequest
	require.NoError(t, decodedPresent.Unmarshal(present.Marshal()))
	require.NoError(t, decodedAbsent.Unmarshal(absent.Marshal()))

	require.NotNil(t, decodedPresent.Checked)
	assert.False(t, *decodedPresent.Checked)
	assert.Nil(t, decodedAbsent.Checked)
}

func TestUpdateListRequest_EmptyStringIsPresent(t *testing.T) {
	msg := UpdateListRequest{Description: strptr("")}

	var got UpdateListRequest
	require.NoError(t, got.Unmarshal(msg.Marshal()))

	assert.Nil(t, got.DisplayName, "display_name was not sent")
	require.NotNil(t, got.Description, "empty description was sent and must stay present")
	assert.Equal(t, "", *got.Description)
}

func TestList_RoundTripWithNestedMessages(t *testing.T) {
	msg := List{
		ID:          3,
		DisplayName: "Groceries",
		Description: "weekly run",
		Events: []Event{
			{ItemID: 1, DisplayName: strptr("Milk"), Checked: boolptr(false), OccurredAt: 1700000000, UserID: 5},
			{ItemID: 1, Checked: boolptr(true), OccurredAt: 1700000100, UserID: 6},
		},
		Users: []UserMeta{
			{ID: 5, DisplayName: "Alice"},
			{ID: 6, DisplayName: "Bob"},
		},
	}

	var got List
	require.NoError(t, got.Unmarshal(msg.Marshal()))
	assert.Equal(t, msg, got)

	// The second event reproduces the author's field presence exactly:
	// no display_name, checked present.
	assert.Nil(t, got.Events[1].DisplayName)
	require.NotNil(t, got.Events[1].Checked)
	assert.True(t, *got.Events[1].Checked)
}

func TestListsResponse_RoundTrip(t *testing.T) {
	msg := ListsResponse{Lists: []ListMeta{
		{ID: 1, DisplayName: "Groceries", Description: "", EventCount: 4},
		{ID: 2, DisplayName: "Chores", Description: "household", EventCount: 0},
	}}

	var got ListsResponse
	require.NoError(t, got.Unmarshal(msg.Marshal()))
	assert.Equal(t, msg, got)
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	b := (&CreateListRequest{DisplayName: "Groceries"}).Marshal()

	// Append a field number this message never defined; decoding must
	// ignore it rather than fail, keeping old servers compatible with
	// newer clients.
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "future data")
	b = protowire.AppendTag(b, 98, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 12345)

	var got CreateListRequest
	require.NoError(t, got.Unmarshal(b))
	assert.Equal(t, "Groceries", got.DisplayName)
}

func TestUnmarshal_TruncatedInputFails(t *testing.T) {
	b := (&CreateListRequest{DisplayName: "Groceries", Description: "d"}).Marshal()

	var got CreateListRequest
	err := got.Unmarshal(b[:len(b)-2])
	assert.Error(t, err)
}

func TestUnmarshal_WrongWireTypeFails(t *testing.T) {
	// display_name declared as length-delimited, sent as varint.
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	var got CreateListRequest
	assert.Error(t, got.Unmarshal(b))
}
