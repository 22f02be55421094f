package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"valid", "correct-horse", nil},
		{"exactly min", "abcdefgh", nil},
		{"too short", "short", ErrPasswordTooShort},
		{"one below min", "abcdefg", ErrPasswordTooShort},
		{"too long", strings.Repeat("a", MaxPasswordLength+1), ErrPasswordTooLong},
		{"exactly max", strings.Repeat("a", MaxPasswordLength), nil},
		{"common", "password", ErrPasswordCommon},
		{"common any case", "PassWord1", ErrPasswordCommon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePassword(tt.password); got != tt.want {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct-horse" || !strings.HasPrefix(hash, "$2") {
		t.Errorf("HashPassword() did not return a bcrypt hash: %q", hash)
	}
	if !CheckPassword("correct-horse", hash) {
		t.Error("CheckPassword() should accept the original password")
	}
	if CheckPassword("wrong-horse", hash) {
		t.Error("CheckPassword() should reject a different password")
	}
	if CheckPassword("", hash) || CheckPassword("correct-horse", "") {
		t.Error("CheckPassword() should reject empty inputs")
	}

	again, _ := HashPassword("correct-horse")
	if again == hash {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestBurnCompare(t *testing.T) {
	// Only needs to run without panicking; it has no observable result.
	BurnCompare("anything")
	BurnCompare("")
}
