package database

import (
	"context"
	"fmt"
	"testing"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, nil)
}

func TestUpsertUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.UpsertUser(ctx, 42, "it", "Marco"); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	user, err := store.GetUser(ctx, 42)
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if user == nil {
		t.Fatal("expected user row after upsert, got nil")
	}
	if user.Language != "it" {
		t.Errorf("language = %q, want %q", user.Language, "it")
	}
	if user.DisplayName != "Marco" {
		t.Errorf("display name = %q, want %q", user.DisplayName, "Marco")
	}

	// Second upsert with a different language must update language only and
	// must not create a second row or touch the display name.
	if err := store.UpsertUser(ctx, 42, "de", "Someone Else"); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	user, err = store.GetUser(ctx, 42)
	if err != nil {
		t.Fatalf("get user after second upsert failed: %v", err)
	}
	if user.Language != "de" {
		t.Errorf("language after update = %q, want %q", user.Language, "de")
	}
	if user.DisplayName != "Marco" {
		t.Errorf("display name after update = %q, want %q (must not change)", user.DisplayName, "Marco")
	}
}

func TestUpsertUserIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for range 3 {
		if err := store.UpsertUser(ctx, 7, "en", "Sam"); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	user, err := store.GetUser(ctx, 7)
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if user == nil || user.Language != "en" || user.DisplayName != "Sam" {
		t.Errorf("unexpected user state after repeated upserts: %+v", user)
	}
}

func TestGetUserNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	user, err := store.GetUser(ctx, 999)
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for unknown user, got %+v", user)
	}
}

func TestSaveMessageValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	tests := []struct {
		name    string
		message *Message
	}{
		{"nil message", nil},
		{"zero user id", &Message{Role: RoleUser, Content: "hi"}},
		{"invalid role", &Message{UserID: 1, Role: "system", Content: "hi"}},
		{"empty content", &Message{UserID: 1, Role: RoleUser}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.SaveMessage(ctx, tc.message); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestGetRecentMessagesWindow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	const userID = int64(42)
	const total = 12
	const limit = 8

	for i := 1; i <= total; i++ {
		msg := &Message{UserID: userID, Role: RoleUser, Content: fmt.Sprintf("m%d", i)}
		if err := store.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("save message %d failed: %v", i, err)
		}
	}

	history, err := store.GetRecentMessages(ctx, userID, limit, 0)
	if err != nil {
		t.Fatalf("get recent messages failed: %v", err)
	}
	if len(history) != limit {
		t.Fatalf("history length = %d, want %d", len(history), limit)
	}

	// The window must contain the last 'limit' inserts, oldest first.
	for i, m := range history {
		want := fmt.Sprintf("m%d", total-limit+i+1)
		if m.Content != want {
			t.Errorf("history[%d].Content = %q, want %q", i, m.Content, want)
		}
	}
}

func TestGetRecentMessagesZeroBoundReturnsNewest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	msg := &Message{UserID: 9, Role: RoleUser, Content: "only one"}
	if err := store.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// A zero beforeID means no upper bound: the newest rows must come back.
	history, err := store.GetRecentMessages(ctx, 9, 10, 0)
	if err != nil {
		t.Fatalf("get recent messages failed: %v", err)
	}
	if len(history) != 1 || history[0].Content != "only one" {
		t.Errorf("history = %+v, want the single saved row", history)
	}
}

func TestGetRecentMessagesBeforeID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	const userID = int64(5)

	first := &Message{UserID: userID, Role: RoleUser, Content: "earlier"}
	if err := store.SaveMessage(ctx, first); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second := &Message{UserID: userID, Role: RoleUser, Content: "latest"}
	if err := store.SaveMessage(ctx, second); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	history, err := store.GetRecentMessages(ctx, userID, 10, second.ID)
	if err != nil {
		t.Fatalf("get recent messages failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].Content != "earlier" {
		t.Errorf("history[0].Content = %q, want %q", history[0].Content, "earlier")
	}
}

func TestGetRecentMessagesIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.SaveMessage(ctx, &Message{UserID: 1, Role: RoleUser, Content: "mine"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.SaveMessage(ctx, &Message{UserID: 2, Role: RoleUser, Content: "theirs"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	history, err := store.GetRecentMessages(ctx, 1, 10, 0)
	if err != nil {
		t.Fatalf("get recent messages failed: %v", err)
	}
	if len(history) != 1 || history[0].Content != "mine" {
		t.Errorf("unexpected history for user 1: %+v", history)
	}
}
