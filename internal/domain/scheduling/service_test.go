package scheduling

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medirec/medirec/pkg/response"
)

type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockAppointmentRepo) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAppointmentRepo) Update(ctx context.Context, a *Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.appointments[id]; !ok {
		return ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

func (m *mockAppointmentRepo) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		cp := *a
		items = append(items, &cp)
	}
	return items, len(items), nil
}

func (m *mockAppointmentRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			cp := *a
			items = append(items, &cp)
		}
	}
	return items, len(items), nil
}

func (m *mockAppointmentRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID {
			cp := *a
			items = append(items, &cp)
		}
	}
	return items, len(items), nil
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *response.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *response.Error, got %T: %v", err, err)
	}
	return apiErr.Status
}

func validAppointment() *Appointment {
	return &Appointment{
		PatientID:       uuid.New(),
		DoctorID:        uuid.New(),
		TriageSessionID: uuid.New(),
		Type:            TypeVirtual,
		ScheduledAt:     time.Now().Add(48 * time.Hour),
	}
}

func TestBook(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())

	a := validAppointment()
	if err := svc.Book(context.Background(), a); err != nil {
		t.Fatalf("Book() error: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Error("expected assigned appointment ID")
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected scheduled status, got %q", a.Status)
	}
}

func TestBook_ForcesScheduledStatus(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())

	a := validAppointment()
	a.Status = StatusCompleted
	if err := svc.Book(context.Background(), a); err != nil {
		t.Fatalf("Book() error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("client-supplied status not overridden, got %q", a.Status)
	}
}

func TestBook_MissingRefs(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())

	tests := []struct {
		name   string
		mutate func(*Appointment)
	}{
		{"missing patient", func(a *Appointment) { a.PatientID = uuid.Nil }},
		{"missing doctor", func(a *Appointment) { a.DoctorID = uuid.Nil }},
		{"missing triage session", func(a *Appointment) { a.TriageSessionID = uuid.Nil }},
		{"missing scheduled time", func(a *Appointment) { a.ScheduledAt = time.Time{} }},
		{"bad type", func(a *Appointment) { a.Type = "phone" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAppointment()
			tt.mutate(a)
			err := svc.Book(context.Background(), a)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if status := apiStatus(t, err); status != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", status)
			}
		})
	}
}

func TestUpdateAppointment_Reschedule(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())
	a := validAppointment()
	if err := svc.Book(context.Background(), a); err != nil {
		t.Fatalf("Book() error: %v", err)
	}

	newTime := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	updated, err := svc.UpdateAppointment(context.Background(), a.ID, UpdateAppointmentInput{
		ScheduledAt: &newTime,
	})
	if err != nil {
		t.Fatalf("UpdateAppointment() error: %v", err)
	}
	if !updated.ScheduledAt.Equal(newTime) {
		t.Errorf("expected rescheduled time %v, got %v", newTime, updated.ScheduledAt)
	}
}

func TestUpdateAppointment_TerminalStateImmutable(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())
	a := validAppointment()
	if err := svc.Book(context.Background(), a); err != nil {
		t.Fatalf("Book() error: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), a.ID); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}

	scheduled := StatusScheduled
	_, err := svc.UpdateAppointment(context.Background(), a.ID, UpdateAppointmentInput{Status: &scheduled})
	if err == nil {
		t.Fatal("expected cancelled appointment to be immutable")
	}
	if status := apiStatus(t, err); status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
}

func TestCancel(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())
	a := validAppointment()
	if err := svc.Book(context.Background(), a); err != nil {
		t.Fatalf("Book() error: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %q", cancelled.Status)
	}
}

func TestGetAppointment_NotFound(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())

	_, err := svc.GetAppointment(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error for unknown appointment")
	}
	if status := apiStatus(t, err); status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestListAppointmentsByDoctor(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())

	doctor := uuid.New()
	a1 := validAppointment()
	a1.DoctorID = doctor
	a2 := validAppointment()
	a2.DoctorID = doctor
	a3 := validAppointment()
	for _, a := range []*Appointment{a1, a2, a3} {
		if err := svc.Book(context.Background(), a); err != nil {
			t.Fatalf("Book() error: %v", err)
		}
	}

	items, total, err := svc.ListAppointmentsByDoctor(context.Background(), doctor, 20, 0)
	if err != nil {
		t.Fatalf("ListAppointmentsByDoctor() error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 appointments, got total=%d len=%d", total, len(items))
	}
}
