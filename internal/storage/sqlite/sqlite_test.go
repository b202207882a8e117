package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"funclist/internal/models"
	"funclist/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, name, email string) *models.User {
	t.Helper()
	user := &models.User{DisplayName: name, Email: email}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func mustCreateList(t *testing.T, store *SQLiteStore, owner *models.User, name string) *models.List {
	t.Helper()
	list := &models.List{DisplayName: name}
	if err := store.CreateList(context.Background(), list, owner.ID); err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}
	return list
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser assigns id", func(t *testing.T) {
		user := mustCreateUser(t, store, "Alice", "alice@example.com")
		if user.ID == 0 {
			t.Error("Expected user ID to be assigned")
		}
	})

	t.Run("GetUserByEmail finds existing user", func(t *testing.T) {
		created := mustCreateUser(t, store, "Bob", "bob@example.com")

		found, err := store.GetUserByEmail(ctx, "bob@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if found == nil {
			t.Fatal("Expected user, got nil")
		}
		if found.ID != created.ID || found.DisplayName != "Bob" {
			t.Errorf("Got %+v, want id=%d name=Bob", found, created.ID)
		}
	})

	t.Run("GetUserByEmail returns nil for unknown email", func(t *testing.T) {
		found, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if found != nil {
			t.Errorf("Expected nil, got %+v", found)
		}
	})

	t.Run("duplicate emails resolve to lowest id", func(t *testing.T) {
		first := mustCreateUser(t, store, "First", "dup@example.com")
		mustCreateUser(t, store, "Second", "dup@example.com")

		found, err := store.GetUserByEmail(ctx, "dup@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if found.ID != first.ID {
			t.Errorf("Expected lowest id %d, got %d", first.ID, found.ID)
		}
	})
}

func TestLists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "Alice", "alice@example.com")
	bob := mustCreateUser(t, store, "Bob", "bob@example.com")

	t.Run("CreateList makes creator the sole member", func(t *testing.T) {
		list := mustCreateList(t, store, alice, "Groceries")
		if list.ID == 0 {
			t.Error("Expected list ID to be assigned")
		}

		detail, err := store.GetListForUser(ctx, list.ID, alice.ID, storage.ListFetchPlan{IncludeMembers: true})
		if err != nil {
			t.Fatalf("GetListForUser failed: %v", err)
		}
		if len(detail.Members) != 1 || detail.Members[0].ID != alice.ID {
			t.Errorf("Expected sole member %d, got %+v", alice.ID, detail.Members)
		}
	})

	t.Run("non-member and nonexistent are the same not-found", func(t *testing.T) {
		list := mustCreateList(t, store, alice, "Private")

		_, errNonMember := store.GetListForUser(ctx, list.ID, bob.ID, storage.ListFetchPlan{})
		_, errMissing := store.GetListForUser(ctx, 99999, bob.ID, storage.ListFetchPlan{})

		if !errors.Is(errNonMember, storage.ErrNotFound) {
			t.Errorf("Non-member fetch: got %v, want ErrNotFound", errNonMember)
		}
		if !errors.Is(errMissing, storage.ErrNotFound) {
			t.Errorf("Missing list fetch: got %v, want ErrNotFound", errMissing)
		}
	})

	t.Run("ListsForUser returns only memberships with event counts", func(t *testing.T) {
		carol := mustCreateUser(t, store, "Carol", "carol@example.com")
		mine := mustCreateList(t, store, carol, "Mine")
		mustCreateList(t, store, alice, "Not mine")

		if err := store.AppendEventForUser(ctx, mine.ID, carol.ID, models.EventDraft{
			DisplayName: strptr("Milk"), Checked: boolptr(false),
		}); err != nil {
			t.Fatalf("AppendEventForUser failed: %v", err)
		}

		summaries, err := store.ListsForUser(ctx, carol.ID)
		if err != nil {
			t.Fatalf("ListsForUser failed: %v", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("Expected 1 list, got %d", len(summaries))
		}
		if summaries[0].ID != mine.ID {
			t.Errorf("Expected list %d, got %d", mine.ID, summaries[0].ID)
		}
		if summaries[0].EventCount != 1 {
			t.Errorf("Expected event count 1, got %d", summaries[0].EventCount)
		}
	})

	t.Run("UpdateListForUser applies only present fields", func(t *testing.T) {
		list := mustCreateList(t, store, alice, "Before")

		err := store.UpdateListForUser(ctx, list.ID, alice.ID, models.ListPatch{
			Description: strptr("new description"),
		})
		if err != nil {
			t.Fatalf("UpdateListForUser failed: %v", err)
		}

		detail, err := store.GetListForUser(ctx, list.ID, alice.ID, storage.ListFetchPlan{})
		if err != nil {
			t.Fatalf("GetListForUser failed: %v", err)
		}
		if detail.DisplayName != "Before" {
			t.Errorf("display_name changed unexpectedly: %q", detail.DisplayName)
		}
		if detail.Description != "new description" {
			t.Errorf("description not updated: %q", detail.Description)
		}

		// Present-but-empty overwrites, distinct from omission.
		err = store.UpdateListForUser(ctx, list.ID, alice.ID, models.ListPatch{
			DisplayName: strptr(""),
		})
		if err != nil {
			t.Fatalf("UpdateListForUser failed: %v", err)
		}

		detail, err = store.GetListForUser(ctx, list.ID, alice.ID, storage.ListFetchPlan{})
		if err != nil {
			t.Fatalf("GetListForUser failed: %v", err)
		}
		if detail.DisplayName != "" {
			t.Errorf("Expected empty display_name, got %q", detail.DisplayName)
		}
		if detail.Description != "new description" {
			t.Errorf("description changed unexpectedly: %q", detail.Description)
		}
	})

	t.Run("UpdateListForUser for non-member is not-found", func(t *testing.T) {
		list := mustCreateList(t, store, alice, "Guarded")

		err := store.UpdateListForUser(ctx, list.ID, bob.ID, models.ListPatch{
			DisplayName: strptr("hijacked"),
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Got %v, want ErrNotFound", err)
		}

		detail, err := store.GetListForUser(ctx, list.ID, alice.ID, storage.ListFetchPlan{})
		if err != nil {
			t.Fatalf("GetListForUser failed: %v", err)
		}
		if detail.DisplayName != "Guarded" {
			t.Errorf("List mutated despite failed guard: %q", detail.DisplayName)
		}
	})
}

func TestEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "Alice", "alice@example.com")
	bob := mustCreateUser(t, store, "Bob", "bob@example.com")

	t.Run("item ids increase across different lists", func(t *testing.T) {
		listA := mustCreateList(t, store, alice, "A")
		listB := mustCreateList(t, store, alice, "B")

		for i, listID := range []int64{listA.ID, listB.ID, listA.ID, listB.ID} {
			if err := store.AppendEventForUser(ctx, listID, alice.ID, models.EventDraft{
				DisplayName: strptr("item"), Checked: boolptr(false),
			}); err != nil {
				t.Fatalf("AppendEventForUser %d failed: %v", i, err)
			}
		}

		var itemIDs []int64
		for _, listID := range []int64{listA.ID, listB.ID} {
			detail, err := store.GetListForUser(ctx, listID, alice.ID, storage.ListFetchPlan{IncludeEvents: true})
			if err != nil {
				t.Fatalf("GetListForUser failed: %v", err)
			}
			for _, ev := range detail.Events {
				itemIDs = append(itemIDs, ev.ItemID)
			}
		}

		seen := make(map[int64]bool)
		for _, id := range itemIDs {
			if seen[id] {
				t.Errorf("Duplicate item id %d across lists", id)
			}
			seen[id] = true
		}
	})

	t.Run("explicit item id is stored untouched", func(t *testing.T) {
		list := mustCreateList(t, store, alice, "Explicit")
		itemID := int64(424242)

		if err := store.AppendEventForUser(ctx, list.ID, alice.ID, models.EventDraft{
			ItemID:  &itemID,
			Checked: boolptr(true),
		}); err != nil {
			t.Fatalf("AppendEventForUser failed: %v", err)
		}

		detail, err := store.GetListForUser(ctx, list.ID, alice.ID, storage.ListFetchPlan{IncludeEvents: true})
		if err != nil {
			t.Fatalf("GetListForUser failed: %v", err)
		}
		if len(detail.Events) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(detail.Events))
		}
		ev := detail.Events[0]
		if ev.ItemID != itemID {
			t.Errorf("Expected item id %d, got %d", itemID, ev.ItemID)
		}
		if ev.DisplayName != nil {
			t.Errorf("Expected nil display_name, got %q", *ev.DisplayName)
		}
		if ev.Checked == nil || !*ev.Checked {
			t.Error("Expected checked=true")
		}
		if ev.UserID != alice.ID {
			t.Errorf("Expected author %d, got %d", alice.ID, ev.UserID)
		}
		if ev.OccurredAt.IsZero() {
			t.Error("Expected server-assigned timestamp")
		}
	})

	t.Run("append for non-member leaves log untouched", func(t *testing.T) {
		list := mustCreateList(t, store, alice, "Guarded")

		err := store.AppendEventForUser(ctx, list.ID, bob.ID, models.EventDraft{
			DisplayName: strptr("sneaky"), Checked: boolptr(false),
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Got %v, want ErrNotFound", err)
		}

		detail, err := store.GetListForUser(ctx, list.ID, alice.ID, storage.ListFetchPlan{IncludeEvents: true})
		if err != nil {
			t.Fatalf("GetListForUser failed: %v", err)
		}
		if len(detail.Events) != 0 {
			t.Errorf("Expected empty log, got %d events", len(detail.Events))
		}
	})

	t.Run("concurrent allocation yields unique increasing ids", func(t *testing.T) {
		list := mustCreateList(t, store, alice, "Concurrent")

		const workers = 16
		var wg sync.WaitGroup
		errs := make(chan error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- store.AppendEventForUser(ctx, list.ID, alice.ID, models.EventDraft{
					DisplayName: strptr("item"), Checked: boolptr(false),
				})
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				t.Fatalf("Concurrent append failed: %v", err)
			}
		}

		detail, err := store.GetListForUser(ctx, list.ID, alice.ID, storage.ListFetchPlan{IncludeEvents: true})
		if err != nil {
			t.Fatalf("GetListForUser failed: %v", err)
		}
		if len(detail.Events) != workers {
			t.Fatalf("Expected %d events, got %d", workers, len(detail.Events))
		}

		seen := make(map[int64]bool)
		for _, ev := range detail.Events {
			if seen[ev.ItemID] {
				t.Errorf("Duplicate item id %d under concurrency", ev.ItemID)
			}
			seen[ev.ItemID] = true
		}
	})
}
