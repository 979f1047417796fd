package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medirec/medirec/pkg/response"
)

var validTypes = map[string]bool{
	TypeInPerson: true, TypeVirtual: true,
}

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusCompleted: true, StatusCancelled: true,
}

type Service struct {
	appointments AppointmentRepository
}

func NewService(appointments AppointmentRepository) *Service {
	return &Service{appointments: appointments}
}

// Book creates an appointment in the scheduled state.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return response.InvalidInput("patientId is required")
	}
	if a.DoctorID == uuid.Nil {
		return response.InvalidInput("doctorId is required")
	}
	if a.TriageSessionID == uuid.Nil {
		return response.InvalidInput("triageSessionId is required")
	}
	if !validTypes[a.Type] {
		return response.InvalidInput("invalid type: " + a.Type)
	}
	if a.ScheduledAt.IsZero() {
		return response.InvalidInput("scheduledAt is required")
	}
	a.Status = StatusScheduled

	if err := s.appointments.Create(ctx, a); err != nil {
		return response.Internal("failed to book appointment").WithCause(err)
	}
	return nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, response.NotFound("appointment not found")
		}
		return nil, response.Internal("failed to load appointment").WithCause(err)
	}
	return a, nil
}

// UpdateAppointmentInput carries the mutable appointment fields.
type UpdateAppointmentInput struct {
	Type        *string    `json:"type"`
	Status      *string    `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

// UpdateAppointment applies a partial update. Completed and cancelled
// appointments are terminal.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, in UpdateAppointmentInput) (*Appointment, error) {
	a, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status != StatusScheduled && (in.Status != nil || in.Type != nil || in.ScheduledAt != nil) {
		return nil, response.InvalidInput("appointment is " + a.Status + " and cannot be changed")
	}

	if in.Type != nil {
		if !validTypes[*in.Type] {
			return nil, response.InvalidInput("invalid type: " + *in.Type)
		}
		a.Type = *in.Type
	}
	if in.Status != nil {
		if !validStatuses[*in.Status] {
			return nil, response.InvalidInput("invalid status: " + *in.Status)
		}
		a.Status = *in.Status
	}
	if in.ScheduledAt != nil {
		a.ScheduledAt = *in.ScheduledAt
	}

	if err := s.appointments.Update(ctx, a); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, response.NotFound("appointment not found")
		}
		return nil, response.Internal("failed to update appointment").WithCause(err)
	}
	return a, nil
}

// Cancel marks a scheduled appointment as cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	status := StatusCancelled
	return s.UpdateAppointment(ctx, id, UpdateAppointmentInput{Status: &status})
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	if err := s.appointments.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.NotFound("appointment not found")
		}
		return response.Internal("failed to delete appointment").WithCause(err)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	items, total, err := s.appointments.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, response.Internal("failed to list appointments").WithCause(err)
	}
	return items, total, nil
}

func (s *Service) ListAppointmentsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	items, total, err := s.appointments.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, response.Internal("failed to list appointments").WithCause(err)
	}
	return items, total, nil
}

func (s *Service) ListAppointmentsByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	items, total, err := s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		return nil, 0, response.Internal("failed to list appointments").WithCause(err)
	}
	return items, total, nil
}
