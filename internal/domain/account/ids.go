package account

import (
	"crypto/rand"
	"fmt"
	"time"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateProfileID produces a role-scoped public identifier of the form
// PAT-YYMMDD-XXXXX or DOC-YYMMDD-XXXXX. The date segment is the issue date
// and the suffix is 5 random characters from [A-Z0-9]. Only patient and
// doctor roles carry profile IDs.
func GenerateProfileID(role string, now time.Time) (string, error) {
	var prefix string
	switch role {
	case RolePatient:
		prefix = "PAT"
	case RoleDoctor:
		prefix = "DOC"
	default:
		return "", fmt.Errorf("no profile id for role %q", role)
	}

	// Rejection sampling: 252 is the largest multiple of 36 below 256, so
	// draws at or above it are discarded to keep the suffix uniform.
	const idMaxDraw = 252
	suffix := make([]byte, 0, 5)
	buf := make([]byte, 8)
	for len(suffix) < cap(suffix) {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if len(suffix) == cap(suffix) {
				break
			}
			if b >= idMaxDraw {
				continue
			}
			suffix = append(suffix, idAlphabet[int(b)%len(idAlphabet)])
		}
	}

	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("060102"), suffix), nil
}
