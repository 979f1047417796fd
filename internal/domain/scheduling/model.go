package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment types.
const (
	TypeInPerson = "in-person"
	TypeVirtual  = "virtual"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Appointment links a patient, a doctor and the triage session that led to
// the booking.
type Appointment struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patientId"`
	DoctorID        uuid.UUID `json:"doctorId"`
	TriageSessionID uuid.UUID `json:"triageSessionId"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
