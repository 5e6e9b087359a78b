package utils

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("korzinka123", 4) // below default, gets bumped
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "korzinka123" {
		t.Fatalf("hash must not equal the plain password")
	}
	if !VerifyPassword(hash, "korzinka123") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "korzinka124") {
		t.Fatalf("wrong password accepted")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "anything") {
		t.Fatalf("garbage hash accepted")
	}
}
