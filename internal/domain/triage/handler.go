package triage

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
	group.GET("/triage-sessions", h.ListSessions)
	group.GET("/triage-sessions/:id", h.GetSession)
	group.POST("/triage-sessions", h.StartSession)
	group.PATCH("/triage-sessions/:id", h.UpdateSession)

	// Only doctors remove sessions.
	api.DELETE("/triage-sessions/:id", h.DeleteSession, auth.RequireRole("doctor"))
}

func (h *Handler) StartSession(c echo.Context) error {
	var sess Session
	if err := c.Bind(&sess); err != nil {
		return response.InvalidInput("invalid request body")
	}

	// Patients can only open sessions for themselves.
	identity, _ := auth.IdentityFromContext(c.Request().Context())
	if identity.Role == "patient" {
		uid, err := uuid.Parse(identity.UserID)
		if err != nil {
			return response.Unauthorized("unauthorized request")
		}
		sess.PatientID = uid
	}

	if err := h.svc.StartSession(c.Request().Context(), &sess); err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, sess, "triage session started")
}

func (h *Handler) GetSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.InvalidInput("invalid id")
	}
	sess, err := h.svc.GetSession(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, sess, "triage session fetched")
}

func (h *Handler) ListSessions(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pid, err := uuid.Parse(patientID)
		if err != nil {
			return response.InvalidInput("invalid patient_id")
		}
		items, total, err := h.svc.ListSessionsByPatient(ctx, pid, pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return response.JSON(c, http.StatusOK,
			pagination.NewResponse(items, total, pg.Limit, pg.Offset), "triage sessions fetched")
	}

	items, total, err := h.svc.ListSessions(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK,
		pagination.NewResponse(items, total, pg.Limit, pg.Offset), "triage sessions fetched")
}

func (h *Handler) UpdateSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.InvalidInput("invalid id")
	}

	var in UpdateSessionInput
	if err := c.Bind(&in); err != nil {
		return response.InvalidInput("invalid request body")
	}

	sess, err := h.svc.UpdateSession(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, sess, "triage session updated")
}

func (h *Handler) DeleteSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.InvalidInput("invalid id")
	}
	if err := h.svc.DeleteSession(c.Request().Context(), id); err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, echo.Map{}, "triage session deleted")
}
