package auth

import (
	"context"
	"errors"
	"testing"
)

func TestGuard_Authenticate(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	guard := NewGuard(repo, testSecret)
	ctx := context.Background()

	user := createTestUser(t, repo, "alice", "a@x.com", "pw123")

	token, err := IssueToken("alice", testSecret, 30)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	got, err := guard.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %d, want %d", got.ID, user.ID)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}
}

func TestGuard_Authenticate_InvalidToken(t *testing.T) {
	db := testDB(t)
	guard := NewGuard(NewUserRepository(db), testSecret)

	_, err := guard.Authenticate(context.Background(), "not-a-token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestGuard_Authenticate_UnknownSubject(t *testing.T) {
	db := testDB(t)
	guard := NewGuard(NewUserRepository(db), testSecret)

	// Token is validly signed but the subject was never registered.
	token, err := IssueToken("ghost", testSecret, 30)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	_, err = guard.Authenticate(context.Background(), token)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestGuard_Authenticate_InactiveUser(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	guard := NewGuard(repo, testSecret)
	ctx := context.Background()

	user := createTestUser(t, repo, "alice", "a@x.com", "pw123")

	// Deactivate the account after the token is issued.
	token, err := IssueToken("alice", testSecret, 30)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if _, err := db.Exec("UPDATE users SET is_active = 0 WHERE id = ?", user.ID); err != nil {
		t.Fatalf("deactivating user: %v", err)
	}

	_, err = guard.Authenticate(ctx, token)
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("error = %v, want ErrUserInactive", err)
	}
}

func TestGuard_Login(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	guard := NewGuard(repo, testSecret)
	ctx := context.Background()

	createTestUser(t, repo, "alice", "a@x.com", "pw123")

	token, err := guard.Login(ctx, "alice", "pw123", 30)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// The issued token must immediately authenticate back to the same subject.
	user, err := guard.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
}

func TestGuard_Login_Failures(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	guard := NewGuard(repo, testSecret)
	ctx := context.Background()

	user := createTestUser(t, repo, "alice", "a@x.com", "pw123")

	// Unknown user and wrong password must be indistinguishable.
	if _, err := guard.Login(ctx, "nobody", "pw123", 30); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := guard.Login(ctx, "alice", "wrong", 30); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}

	// Deactivated accounts cannot log in either.
	if _, err := db.Exec("UPDATE users SET is_active = 0 WHERE id = ?", user.ID); err != nil {
		t.Fatalf("deactivating user: %v", err)
	}
	if _, err := guard.Login(ctx, "alice", "pw123", 30); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("inactive user: error = %v, want ErrInvalidCredentials", err)
	}
}
