package account

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUser_JSONOmitsSecrets(t *testing.T) {
	refresh := "some-refresh-token"
	u := User{
		ID:           uuid.New(),
		Role:         RolePatient,
		FullName:     "Jane Doe",
		DOB:          time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		Gender:       "female",
		Email:        "jane@example.com",
		Phone:        "+15550001111",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		RefreshToken: &refresh,
		PatientProfile: &PatientProfile{
			PatientID: "PAT-260831-A1B2C",
		},
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	body := string(raw)

	if strings.Contains(body, "passwordHash") || strings.Contains(body, "$2a$10$") {
		t.Error("password hash leaked into JSON")
	}
	if strings.Contains(body, "refreshToken") || strings.Contains(body, refresh) {
		t.Error("refresh token leaked into JSON")
	}
	if !strings.Contains(body, `"patientId":"PAT-260831-A1B2C"`) {
		t.Errorf("patient profile missing from JSON: %s", body)
	}
}

func TestUser_JSONOmitsAbsentProfiles(t *testing.T) {
	u := User{ID: uuid.New(), Role: RoleAdmin, FullName: "Root"}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	body := string(raw)

	if strings.Contains(body, "patientProfile") {
		t.Error("expected patientProfile to be omitted")
	}
	if strings.Contains(body, "doctorProfile") {
		t.Error("expected doctorProfile to be omitted")
	}
}

func TestUser_ProfileID(t *testing.T) {
	patient := User{PatientProfile: &PatientProfile{PatientID: "PAT-260831-AAAAA"}}
	if got := patient.ProfileID(); got != "PAT-260831-AAAAA" {
		t.Errorf("unexpected patient profile ID: %q", got)
	}

	doctor := User{DoctorProfile: &DoctorProfile{DoctorID: "DOC-260831-BBBBB"}}
	if got := doctor.ProfileID(); got != "DOC-260831-BBBBB" {
		t.Errorf("unexpected doctor profile ID: %q", got)
	}

	admin := User{}
	if got := admin.ProfileID(); got != "" {
		t.Errorf("expected empty profile ID for admin, got %q", got)
	}
}
