package stores_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	ww "github.com/panyam/whisperwall"
	"github.com/panyam/whisperwall/stores"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := stores.NewMemoryUserStore()
	ctx := context.Background()

	user := &ww.User{Id: "u1", Username: "alice", PasswordHash: "hash1"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set on create")
	}

	byId, err := store.GetUserById(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUserById failed: %v", err)
	}
	if byId.Username != "alice" || byId.PasswordHash != "hash1" {
		t.Errorf("Got wrong user back: %+v", byId)
	}

	byName, err := store.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if byName.Id != "u1" {
		t.Errorf("Expected u1, got %s", byName.Id)
	}

	// Mutating the returned user must not touch the stored copy.
	byId.Username = "mallory"
	again, _ := store.GetUserById(ctx, "u1")
	if again.Username != "alice" {
		t.Error("Store returned aliased internal state")
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := stores.NewMemoryUserStore()
	ctx := context.Background()

	if _, err := store.GetUserById(ctx, "missing"); !errors.Is(err, ww.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if _, err := store.GetUserByUsername(ctx, "missing"); !errors.Is(err, ww.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if _, err := store.GetUserByExternalId(ctx, "missing"); !errors.Is(err, ww.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if err := store.SaveSecret(ctx, "missing", "s"); !errors.Is(err, ww.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestMemoryStoreDuplicates(t *testing.T) {
	store := stores.NewMemoryUserStore()
	ctx := context.Background()

	if err := store.CreateUser(ctx, &ww.User{Id: "u1", Username: "alice", ExternalId: "g1"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	err := store.CreateUser(ctx, &ww.User{Id: "u2", Username: "alice"})
	if !errors.Is(err, ww.ErrDuplicateUsername) {
		t.Errorf("Expected ErrDuplicateUsername, got %v", err)
	}
	if err := store.CreateUser(ctx, &ww.User{Id: "u1", Username: "other"}); err == nil {
		t.Error("Expected error for duplicate id")
	}
	if err := store.CreateUser(ctx, &ww.User{Id: "u3", ExternalId: "g1"}); err == nil {
		t.Error("Expected error for duplicate external id")
	}

	// Failed creates must not clobber the original.
	user, err := store.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if user.Id != "u1" {
		t.Errorf("Expected original u1, got %s", user.Id)
	}
}

func TestMemoryStoreSecrets(t *testing.T) {
	store := stores.NewMemoryUserStore()
	ctx := context.Background()

	for _, u := range []*ww.User{
		{Id: "u1", Username: "alice"},
		{Id: "u2", Username: "bob"},
		{Id: "u3", ExternalId: "g1"},
	} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser %s failed: %v", u.Id, err)
		}
	}

	secrets, err := store.ListSecrets(ctx)
	if err != nil {
		t.Fatalf("ListSecrets failed: %v", err)
	}
	if len(secrets) != 0 {
		t.Errorf("Expected no secrets, got %v", secrets)
	}

	if err := store.SaveSecret(ctx, "u1", "first"); err != nil {
		t.Fatalf("SaveSecret failed: %v", err)
	}
	if err := store.SaveSecret(ctx, "u3", "third"); err != nil {
		t.Fatalf("SaveSecret failed: %v", err)
	}
	// Overwrite, not append.
	if err := store.SaveSecret(ctx, "u1", "revised"); err != nil {
		t.Fatalf("SaveSecret failed: %v", err)
	}

	secrets, err = store.ListSecrets(ctx)
	if err != nil {
		t.Fatalf("ListSecrets failed: %v", err)
	}
	sort.Strings(secrets)
	want := []string{"revised", "third"}
	if len(secrets) != len(want) {
		t.Fatalf("Expected %v, got %v", want, secrets)
	}
	for i := range want {
		if secrets[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, secrets)
			break
		}
	}
}
