package identity_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-proposal/pkg/identity"
)

func openStore(t *testing.T, path string) *identity.Store {
	t.Helper()
	store, err := identity.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SetGetDeleteClear(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "identity.db"))

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Set(ctx, "b", "3"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "2" {
		t.Fatalf("expected overwritten value 2, got %q", got)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete missing key: %v", err)
	}
	if v, err := store.Lookup(ctx, "a"); err != nil || v != "" {
		t.Fatalf("expected deleted key to be empty, got %q %v", v, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Get(ctx, "b"); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected cleared store, got %v", err)
	}
}

func TestStore_SessionIDStableAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "identity.db")

	first, err := identity.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	id, err := first.SessionID(ctx)
	if err != nil {
		t.Fatalf("session id: %v", err)
	}
	again, err := first.SessionID(ctx)
	if err != nil {
		t.Fatalf("session id: %v", err)
	}
	if id == "" || id != again {
		t.Fatalf("expected stable non-empty id, got %q then %q", id, again)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := openStore(t, path)
	got, err := reopened.SessionID(ctx)
	if err != nil {
		t.Fatalf("session id after reopen: %v", err)
	}
	if got != id {
		t.Fatalf("expected %q after reopen, got %q", id, got)
	}
}

func TestStore_Remember(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, ":memory:")

	if err := store.Remember(ctx, " Ana ", "ana@example.com "); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if err := store.Remember(ctx, "", ""); err != nil {
		t.Fatalf("remember empty: %v", err)
	}
	if err := store.Remember(ctx, "Bea", "not-an-email"); !errors.Is(err, identity.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	got, err := store.Visitor(ctx)
	if err != nil {
		t.Fatalf("visitor: %v", err)
	}
	want := identity.Visitor{Name: "Ana", Email: "ana@example.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("visitor mismatch (-want +got):\n%s", diff)
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"first.last@example.org", true},
		{"", false},
		{"a@b", false},
		{"a b@c.d", false},
		{"@example.com", false},
	}
	for _, tc := range cases {
		if got := identity.ValidEmail(tc.in); got != tc.want {
			t.Fatalf("ValidEmail(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
