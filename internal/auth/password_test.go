package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash should be in PHC format, got %q", hash)
	}

	if hash == "correct horse battery staple" {
		t.Error("hash must never equal the plaintext")
	}

	if strings.Contains(hash, "correct horse") {
		t.Error("hash must not contain the plaintext")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	ok, err := VerifyPassword("pw123", hash)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if ok {
		t.Error("wrong password should not verify")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "not PHC", hash: "plain-text-hash"},
		{name: "wrong algorithm", hash: "$bcrypt$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA"},
		{name: "unsupported version", hash: "$argon2id$v=18$m=65536,t=3,p=1$c2FsdA$aGFzaA"},
		{name: "missing fields", hash: "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA"},
		{name: "bad salt encoding", hash: "$argon2id$v=19$m=65536,t=3,p=1$!!!$aGFzaA"},
		{name: "bad key encoding", hash: "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyPassword("pw", tt.hash); err == nil {
				t.Error("expected error for malformed hash")
			}
		})
	}
}
