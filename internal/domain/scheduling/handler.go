package scheduling

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medirec/medirec/internal/platform/auth"
	"github.com/medirec/medirec/pkg/pagination"
	"github.com/medirec/medirec/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	group := api.Group("", auth.RequireRole("patient", "doctor"))
	group.GET("/appointments", h.ListAppointments)
	group.GET("/appointments/:id", h.GetAppointment)
	group.POST("/appointments", h.Book)
	group.PATCH("/appointments/:id", h.UpdateAppointment)
	group.POST("/appointments/:id/cancel", h.Cancel)

	api.DELETE("/appointments/:id", h.DeleteAppointment, auth.RequireRole("doctor"))
}

func (h *Handler) Book(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return response.InvalidInput("invalid request body")
	}

	// Patients can only book for themselves.
	identity, _ := auth.IdentityFromContext(c.Request().Context())
	if identity.Role == "patient" {
		uid, err := uuid.Parse(identity.UserID)
		if err != nil {
			return response.Unauthorized("unauthorized request")
		}
		a.PatientID = uid
	}

	if err := h.svc.Book(c.Request().Context(), &a); err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, a, "appointment booked")
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.InvalidInput("invalid id")
	}
	a, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, a, "appointment fetched")
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pid, err := uuid.Parse(patientID)
		if err != nil {
			return response.InvalidInput("invalid patient_id")
		}
		items, total, err := h.svc.ListAppointmentsByPatient(ctx, pid, pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return response.JSON(c, http.StatusOK,
			pagination.NewResponse(items, total, pg.Limit, pg.Offset), "appointments fetched")
	}

	if doctorID := c.QueryParam("doctor_id"); doctorID != "" {
		did, err := uuid.Parse(doctorID)
		if err != nil {
			return response.InvalidInput("invalid doctor_id")
		}
		items, total, err := h.svc.ListAppointmentsByDoctor(ctx, did, pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return response.JSON(c, http.StatusOK,
			pagination.NewResponse(items, total, pg.Limit, pg.Offset), "appointments fetched")
	}

	items, total, err := h.svc.ListAppointments(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK,
		pagination.NewResponse(items, total, pg.Limit, pg.Offset), "appointments fetched")
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.InvalidInput("invalid id")
	}

	var in UpdateAppointmentInput
	if err := c.Bind(&in); err != nil {
		return response.InvalidInput("invalid request body")
	}

	a, err := h.svc.UpdateAppointment(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, a, "appointment updated")
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.InvalidInput("invalid id")
	}
	a, err := h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, a, "appointment cancelled")
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.InvalidInput("invalid id")
	}
	if err := h.svc.DeleteAppointment(c.Request().Context(), id); err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, echo.Map{}, "appointment deleted")
}
