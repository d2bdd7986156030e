package auth

import (
	"testing"
	"time"
)

func testService(expiry time.Duration) *Service {
	return NewService(&Config{
		JWTSecret:   []byte("test-secret-key-that-is-long-enough!"),
		TokenExpiry: expiry,
	}, nil)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testService(time.Hour)

	token, err := svc.GenerateToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() = %v, want nil", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() = %v, want nil", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %s, want user-123", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %s, want alice@example.com", claims.Email)
	}
}

func TestGenerateTokenRequiresUserID(t *testing.T) {
	svc := testService(time.Hour)

	if _, err := svc.GenerateToken("", "alice@example.com"); err != ErrMissingClaims {
		t.Fatalf("GenerateToken(empty id) = %v, want ErrMissingClaims", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := testService(-time.Hour)

	token, err := svc.GenerateToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() = %v", err)
	}

	if _, err := svc.ValidateToken(token); err != ErrExpiredToken {
		t.Fatalf("ValidateToken(expired) = %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := testService(time.Hour)
	other := NewService(&Config{
		JWTSecret:   []byte("another-secret-key-that-is-long-enough"),
		TokenExpiry: time.Hour,
	}, nil)

	token, err := svc.GenerateToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() = %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("ValidateToken(wrong secret) = nil error, want error")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Basic abc123", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractBearerToken(tt.header); got != tt.want {
			t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
