package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "staff", RoleStaff, 5)
	if err != nil {
		t.Fatal(err)
	}
	cl, err := ParseAccessToken("s3cret", tok.Token)
	if err != nil {
		t.Fatal(err)
	}
	if cl.Subject != "staff" || cl.Role != RoleStaff {
		t.Fatalf("unexpected claims %+v", cl)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "staff", RoleStaff, 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken("other", tok.Token); err != ErrInvalidToken {
		t.Fatalf("wrong secret: expected ErrInvalidToken, got %v", err)
	}
	if _, err := ParseAccessToken("s3cret", "not.a.token"); err != ErrInvalidToken {
		t.Fatalf("garbage: expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	h, err := HashPassword("counter-7", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword(h, "counter-7") {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(h, "counter-8") {
		t.Fatal("expected wrong password to fail")
	}
}
