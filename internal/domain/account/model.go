package account

import (
	"time"

	"github.com/google/uuid"
)

// Roles assignable to a user account.
const (
	RoleAdmin   = "admin"
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

var validRoles = map[string]bool{
	RoleAdmin: true, RolePatient: true, RoleDoctor: true,
}

// User is an account holder. The password hash and refresh token never
// appear in API responses.
type User struct {
	ID           uuid.UUID `json:"id"`
	Role         string    `json:"role"`
	FullName     string    `json:"fullName"`
	DOB          time.Time `json:"dob"`
	Gender       string    `json:"gender"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	PatientProfile *PatientProfile `json:"patientProfile,omitempty"`
	DoctorProfile  *DoctorProfile  `json:"doctorProfile,omitempty"`
}

// PatientProfile holds the patient-only fields attached to a user.
type PatientProfile struct {
	PatientID        string   `json:"patientId"`
	Address          string   `json:"address"`
	BloodGroup       string   `json:"bloodGroup"`
	Allergies        []string `json:"allergies"`
	ChronicDiseases  []string `json:"chronicDiseases"`
	EmergencyContact string   `json:"emergencyContact"`
}

// DoctorProfile holds the doctor-only fields attached to a user.
type DoctorProfile struct {
	DoctorID          string   `json:"doctorId"`
	Specialization    string   `json:"specialization"`
	LicenseNumber     string   `json:"licenseNumber"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	Availability      []string `json:"availability"`
}

// ProfileID returns the role-scoped public identifier, if the user has one.
func (u *User) ProfileID() string {
	switch {
	case u.PatientProfile != nil:
		return u.PatientProfile.PatientID
	case u.DoctorProfile != nil:
		return u.DoctorProfile.DoctorID
	}
	return ""
}
