package documents

import (
	"context"
	"errors"
	"net/url"

	"github.com/google/uuid"

	"github.com/medirec/medirec/pkg/response"
)

var validTypes = map[string]bool{
	TypeXRay: true, TypeCT: true, TypeMRI: true,
	TypePrescription: true, TypeLabReport: true, TypeOther: true,
}

type Service struct {
	documents DocumentRepository
}

func NewService(documents DocumentRepository) *Service {
	return &Service{documents: documents}
}

// Upload records a document for a patient. The file itself lives in external
// storage; only its URL is kept here.
func (s *Service) Upload(ctx context.Context, d *Document) error {
	if d.PatientID == uuid.Nil {
		return response.InvalidInput("patientId is required")
	}
	if d.DocumentType == "" {
		d.DocumentType = TypeOther
	}
	if !validTypes[d.DocumentType] {
		return response.InvalidInput("invalid documentType: " + d.DocumentType)
	}
	if d.FileURL == "" {
		return response.InvalidInput("fileUrl is required")
	}
	if u, err := url.Parse(d.FileURL); err != nil || u.Scheme == "" || u.Host == "" {
		return response.InvalidInput("fileUrl must be an absolute URL")
	}

	if err := s.documents.Create(ctx, d); err != nil {
		return response.Internal("failed to store document").WithCause(err)
	}
	return nil
}

func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	d, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, response.NotFound("document not found")
		}
		return nil, response.Internal("failed to load document").WithCause(err)
	}
	return d, nil
}

// AttachAnalysis stores an automated analysis result on the document and
// flags it as analyzed.
func (s *Service) AttachAnalysis(ctx context.Context, id uuid.UUID, result string) (*Document, error) {
	if result == "" {
		return nil, response.InvalidInput("analysis result is required")
	}

	d, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	d.AnalyzedByAI = true
	d.AIAnalysisResult = result

	if err := s.documents.Update(ctx, d); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, response.NotFound("document not found")
		}
		return nil, response.Internal("failed to update document").WithCause(err)
	}
	return d, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	if err := s.documents.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.NotFound("document not found")
		}
		return response.Internal("failed to delete document").WithCause(err)
	}
	return nil
}

func (s *Service) ListDocuments(ctx context.Context, limit, offset int) ([]*Document, int, error) {
	items, total, err := s.documents.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, response.Internal("failed to list documents").WithCause(err)
	}
	return items, total, nil
}

func (s *Service) ListDocumentsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Document, int, error) {
	items, total, err := s.documents.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, response.Internal("failed to list documents").WithCause(err)
	}
	return items, total, nil
}
