package whisperwall_test

import (
	"context"
	"errors"
	"testing"

	ww "github.com/panyam/whisperwall"
	"github.com/panyam/whisperwall/stores"
)

func setupLocalAuth(t *testing.T) (*ww.LocalAuth, *stores.MemoryUserStore) {
	t.Helper()
	users := stores.NewMemoryUserStore()
	return ww.NewLocalAuth(users), users
}

// TestRegister tests local account creation
func TestRegister(t *testing.T) {
	auth, _ := setupLocalAuth(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
		wantAuth bool // expect an *AuthError
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "pw123",
		},
		{
			name:     "duplicate username",
			username: "alice",
			password: "different",
			wantErr:  ww.ErrDuplicateUsername,
		},
		{
			name:     "missing username",
			username: "",
			password: "pw123",
			wantAuth: true,
		},
		{
			name:     "missing password",
			username: "bob",
			password: "",
			wantAuth: true,
		},
		{
			name:     "password over bcrypt limit",
			username: "carol",
			password: string(make([]byte, 80)),
			wantAuth: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := auth.Register(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if tt.wantAuth {
				var authErr *ww.AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("Expected *AuthError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected success, got %v", err)
			}
			if user.Id == "" {
				t.Error("Expected user to have an id")
			}
			if user.PasswordHash == "" || user.PasswordHash == tt.password {
				t.Error("Expected password to be stored as a hash")
			}
		})
	}
}

// TestDuplicateRegistrationLeavesFirstUserUnchanged verifies the original
// record survives a rejected duplicate registration.
func TestDuplicateRegistrationLeavesFirstUserUnchanged(t *testing.T) {
	auth, users := setupLocalAuth(t)
	ctx := context.Background()

	first, err := auth.Register(ctx, "alice", "pw123")
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	if _, err := auth.Register(ctx, "alice", "other-password"); !errors.Is(err, ww.ErrDuplicateUsername) {
		t.Fatalf("Expected ErrDuplicateUsername, got %v", err)
	}

	stored, err := users.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to fetch user: %v", err)
	}
	if stored.Id != first.Id {
		t.Errorf("User id changed: %s != %s", stored.Id, first.Id)
	}
	if stored.PasswordHash != first.PasswordHash {
		t.Error("Password hash changed by failed duplicate registration")
	}
}

// TestAuthenticate tests the login path
func TestAuthenticate(t *testing.T) {
	auth, users := setupLocalAuth(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "alice", "pw123")
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	// An account with no credential hash can never log in locally.
	if err := users.CreateUser(ctx, &ww.User{Id: "ext-1", Username: "oauthonly", ExternalId: "google-123"}); err != nil {
		t.Fatalf("Failed to seed oauth-only user: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "correct credentials",
			username: "alice",
			password: "pw123",
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong",
			wantErr:  ww.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "nobody",
			password: "pw123",
			wantErr:  ww.ErrInvalidCredentials,
		},
		{
			name:     "oauth-only user",
			username: "oauthonly",
			password: "anything",
			wantErr:  ww.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := auth.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected success, got %v", err)
			}
			if user.Id != registered.Id {
				t.Errorf("Expected user %s, got %s", registered.Id, user.Id)
			}
		})
	}
}
