package account

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var profileIDPattern = regexp.MustCompile(`^(PAT|DOC)-\d{6}-[A-Z0-9]{5}$`)

func TestGenerateProfileID_Format(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		role   string
		prefix string
	}{
		{RolePatient, "PAT"},
		{RoleDoctor, "DOC"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			id, err := GenerateProfileID(tt.role, now)
			if err != nil {
				t.Fatalf("GenerateProfileID() error: %v", err)
			}
			if !profileIDPattern.MatchString(id) {
				t.Fatalf("id %q does not match expected format", id)
			}
			if !strings.HasPrefix(id, tt.prefix+"-260831-") {
				t.Errorf("expected prefix %s-260831-, got %q", tt.prefix, id)
			}
		})
	}
}

func TestGenerateProfileID_SuffixLength(t *testing.T) {
	now := time.Now()
	for i := 0; i < 100; i++ {
		id, err := GenerateProfileID(RolePatient, now)
		if err != nil {
			t.Fatalf("GenerateProfileID() error: %v", err)
		}
		parts := strings.Split(id, "-")
		if len(parts) != 3 {
			t.Fatalf("expected 3 segments, got %q", id)
		}
		if len(parts[2]) != 5 {
			t.Fatalf("expected 5-char suffix, got %q", parts[2])
		}
	}
}

func TestGenerateProfileID_SuffixCoversAlphabet(t *testing.T) {
	now := time.Now()
	seen := make(map[byte]bool)
	for i := 0; i < 2000; i++ {
		id, err := GenerateProfileID(RolePatient, now)
		if err != nil {
			t.Fatalf("GenerateProfileID() error: %v", err)
		}
		for _, ch := range []byte(id[len(id)-5:]) {
			if !strings.ContainsRune(idAlphabet, rune(ch)) {
				t.Fatalf("suffix char %q outside alphabet in %q", ch, id)
			}
			seen[ch] = true
		}
	}
	// 10000 uniform draws over 36 symbols; a missing symbol means the
	// sampling is broken, not unlucky.
	if len(seen) != len(idAlphabet) {
		t.Errorf("expected all %d alphabet chars to appear, saw %d", len(idAlphabet), len(seen))
	}
}

func TestGenerateProfileID_NoAdminID(t *testing.T) {
	if _, err := GenerateProfileID(RoleAdmin, time.Now()); err == nil {
		t.Fatal("expected error for admin role")
	}
}

func TestGenerateProfileID_UnknownRole(t *testing.T) {
	if _, err := GenerateProfileID("nurse", time.Now()); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
