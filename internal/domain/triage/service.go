package triage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medirec/medirec/pkg/response"
)

var validStatuses = map[string]bool{
	StatusInProgress: true, StatusCompleted: true,
}

type Service struct {
	sessions SessionRepository
}

func NewService(sessions SessionRepository) *Service {
	return &Service{sessions: sessions}
}

// StartSession opens a triage session for the patient's reported symptoms.
func (s *Service) StartSession(ctx context.Context, sess *Session) error {
	if sess.PatientID == uuid.Nil {
		return response.InvalidInput("patientId is required")
	}
	if sess.Symptoms == "" {
		return response.InvalidInput("symptoms is required")
	}
	if sess.Status == "" {
		sess.Status = StatusInProgress
	}
	if !validStatuses[sess.Status] {
		return response.InvalidInput("invalid status: " + sess.Status)
	}
	if sess.Responses == nil {
		sess.Responses = []QA{}
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return response.Internal("failed to start triage session").WithCause(err)
	}
	return nil
}

func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, response.NotFound("triage session not found")
		}
		return nil, response.Internal("failed to load triage session").WithCause(err)
	}
	return sess, nil
}

// UpdateSessionInput carries the mutable triage session fields. Nil pointers
// leave the stored value untouched.
type UpdateSessionInput struct {
	Responses         *[]QA      `json:"responses"`
	Diagnosis         *Diagnosis `json:"diagnosis"`
	RecommendedAction *string    `json:"recommendedAction"`
	Notes             *string    `json:"notes"`
	Status            *string    `json:"status"`
}

// UpdateSession applies a partial update. A completed session cannot be
// reopened.
func (s *Service) UpdateSession(ctx context.Context, id uuid.UUID, in UpdateSessionInput) (*Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		if !validStatuses[*in.Status] {
			return nil, response.InvalidInput("invalid status: " + *in.Status)
		}
		if sess.Status == StatusCompleted && *in.Status == StatusInProgress {
			return nil, response.InvalidInput("completed session cannot be reopened")
		}
		sess.Status = *in.Status
	}
	if in.Responses != nil {
		sess.Responses = *in.Responses
	}
	if in.Diagnosis != nil {
		sess.Diagnosis = in.Diagnosis
	}
	if in.RecommendedAction != nil {
		sess.RecommendedAction = *in.RecommendedAction
	}
	if in.Notes != nil {
		sess.Notes = *in.Notes
	}

	if err := s.sessions.Update(ctx, sess); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, response.NotFound("triage session not found")
		}
		return nil, response.Internal("failed to update triage session").WithCause(err)
	}
	return sess, nil
}

func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.NotFound("triage session not found")
		}
		return response.Internal("failed to delete triage session").WithCause(err)
	}
	return nil
}

func (s *Service) ListSessions(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	items, total, err := s.sessions.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, response.Internal("failed to list triage sessions").WithCause(err)
	}
	return items, total, nil
}

func (s *Service) ListSessionsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Session, int, error) {
	items, total, err := s.sessions.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, response.Internal("failed to list triage sessions").WithCause(err)
	}
	return items, total, nil
}
