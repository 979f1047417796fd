package triage

import (
	"time"

	"github.com/google/uuid"
)

// Session statuses.
const (
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// QA is one question/answer exchange recorded during a triage session.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Diagnosis is the assessment produced when a session completes.
type Diagnosis struct {
	Condition  string  `json:"condition"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

// Session is a symptom triage conversation for a patient.
type Session struct {
	ID                uuid.UUID  `json:"id"`
	PatientID         uuid.UUID  `json:"patientId"`
	Symptoms          string     `json:"symptoms"`
	Responses         []QA       `json:"responses"`
	Diagnosis         *Diagnosis `json:"diagnosis,omitempty"`
	RecommendedAction string     `json:"recommendedAction"`
	Notes             string     `json:"notes"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
