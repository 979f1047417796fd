package token

import (
	"strings"
	"testing"
	"time"
)

func testService() *Service {
	return NewService(Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		AccessTTL:     15 * time.Minute,
		RefreshSecret: []byte("refresh-secret-for-tests"),
		RefreshTTL:    240 * time.Hour,
	})
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := testService()

	signed, err := svc.IssueAccessToken("user-1", "jane@example.com", "Jane Doe", "patient")
	if err != nil {
		t.Fatalf("IssueAccessToken() error: %v", err)
	}
	if signed == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := svc.VerifyAccessToken(signed)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected user ID user-1, got %q", claims.UserID)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("unexpected email: %q", claims.Email)
	}
	if claims.FullName != "Jane Doe" {
		t.Errorf("unexpected full name: %q", claims.FullName)
	}
	if claims.Role != "patient" {
		t.Errorf("unexpected role: %q", claims.Role)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %q", claims.Subject)
	}
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	svc := testService()

	signed, err := svc.IssueRefreshToken("user-2")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error: %v", err)
	}

	claims, err := svc.VerifyRefreshToken(signed)
	if err != nil {
		t.Fatalf("VerifyRefreshToken() error: %v", err)
	}
	if claims.UserID != "user-2" {
		t.Errorf("expected user ID user-2, got %q", claims.UserID)
	}
}

func TestIssueRefreshToken_UniquePerIssuance(t *testing.T) {
	svc := testService()

	// Two issuances for the same user inside the same wall-clock second
	// must still produce distinct tokens, or rotation degenerates into a
	// no-op and a superseded token keeps matching the stored slot.
	first, err := svc.IssueRefreshToken("user-1")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error: %v", err)
	}
	second, err := svc.IssueRefreshToken("user-1")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error: %v", err)
	}
	if first == second {
		t.Fatal("expected each issuance to mint a distinct token")
	}

	claims, err := svc.VerifyRefreshToken(first)
	if err != nil {
		t.Fatalf("VerifyRefreshToken() error: %v", err)
	}
	if claims.ID == "" {
		t.Error("expected a unique token ID claim")
	}
}

func TestIssueAccessToken_UniquePerIssuance(t *testing.T) {
	svc := testService()

	first, err := svc.IssueAccessToken("user-1", "jane@example.com", "Jane Doe", "patient")
	if err != nil {
		t.Fatalf("IssueAccessToken() error: %v", err)
	}
	second, err := svc.IssueAccessToken("user-1", "jane@example.com", "Jane Doe", "patient")
	if err != nil {
		t.Fatalf("IssueAccessToken() error: %v", err)
	}
	if first == second {
		t.Fatal("expected each issuance to mint a distinct token")
	}
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	svc := testService()
	other := NewService(Config{
		AccessSecret:  []byte("a-completely-different-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshSecret: []byte("another-different-secret"),
		RefreshTTL:    240 * time.Hour,
	})

	signed, err := svc.IssueAccessToken("user-1", "jane@example.com", "Jane Doe", "patient")
	if err != nil {
		t.Fatalf("IssueAccessToken() error: %v", err)
	}

	if _, err := other.VerifyAccessToken(signed); err == nil {
		t.Fatal("expected verification to fail with wrong secret")
	}
}

func TestVerifyAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := testService()

	refresh, err := svc.IssueRefreshToken("user-1")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error: %v", err)
	}

	// Signed with the refresh secret, must not verify as an access token.
	if _, err := svc.VerifyAccessToken(refresh); err == nil {
		t.Fatal("expected refresh token to be rejected as access token")
	}
}

func TestVerifyRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := testService()

	access, err := svc.IssueAccessToken("user-1", "jane@example.com", "Jane Doe", "patient")
	if err != nil {
		t.Fatalf("IssueAccessToken() error: %v", err)
	}

	if _, err := svc.VerifyRefreshToken(access); err == nil {
		t.Fatal("expected access token to be rejected as refresh token")
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	svc := NewService(Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		AccessTTL:     -1 * time.Minute,
		RefreshSecret: []byte("refresh-secret-for-tests"),
		RefreshTTL:    240 * time.Hour,
	})

	signed, err := svc.IssueAccessToken("user-1", "jane@example.com", "Jane Doe", "patient")
	if err != nil {
		t.Fatalf("IssueAccessToken() error: %v", err)
	}

	_, err = svc.VerifyAccessToken(signed)
	if err == nil {
		t.Fatal("expected expired token to fail verification")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected expiry error, got: %v", err)
	}
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	svc := testService()
	if _, err := svc.VerifyAccessToken("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
