package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document types accepted for upload.
const (
	TypeXRay         = "xray"
	TypeCT           = "ct"
	TypeMRI          = "mri"
	TypePrescription = "prescription"
	TypeLabReport    = "lab-report"
	TypeOther        = "other"
)

// Document is a medical file uploaded for a patient, optionally annotated
// with an automated analysis result.
type Document struct {
	ID               uuid.UUID `json:"id"`
	PatientID        uuid.UUID `json:"patientId"`
	DocumentType     string    `json:"documentType"`
	FileURL          string    `json:"fileUrl"`
	AnalyzedByAI     bool      `json:"analyzedByAi"`
	AIAnalysisResult string    `json:"aiAnalysisResult,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
