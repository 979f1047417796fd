package documents

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
	group.GET("/documents", h.ListDocuments)
	group.GET("/documents/:id", h.GetDocument)
	group.POST("/documents", h.Upload)

	// Only doctors attach analysis results or remove documents.
	api.POST("/documents/:id/analysis", h.AttachAnalysis, auth.RequireRole("doctor"))
	api.DELETE("/documents/:id", h.DeleteDocument, auth.RequireRole("doctor"))
}

func (h *Handler) Upload(c echo.Context) error {
	var d Document
	if err := c.Bind(&d); err != nil {
		return response.InvalidInput("invalid request body")
	}

	// Patients can only upload documents to their own record.
	identity, _ := auth.IdentityFromContext(c.Request().Context())
	if identity.Role == "patient" {
		uid, err := uuid.Parse(identity.UserID)
		if err != nil {
			return response.Unauthorized("unauthorized request")
		}
		d.PatientID = uid
	}

	if err := h.svc.Upload(c.Request().Context(), &d); err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, d, "document uploaded")
}

func (h *Handler) GetDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.InvalidInput("invalid id")
	}
	d, err := h.svc.GetDocument(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, d, "document fetched")
}

func (h *Handler) ListDocuments(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pid, err := uuid.Parse(patientID)
		if err != nil {
			return response.InvalidInput("invalid patient_id")
		}
		items, total, err := h.svc.ListDocumentsByPatient(ctx, pid, pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return response.JSON(c, http.StatusOK,
			pagination.NewResponse(items, total, pg.Limit, pg.Offset), "documents fetched")
	}

	items, total, err := h.svc.ListDocuments(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK,
		pagination.NewResponse(items, total, pg.Limit, pg.Offset), "documents fetched")
}

type attachAnalysisRequest struct {
	Result string `json:"result"`
}

func (h *Handler) AttachAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.InvalidInput("invalid id")
	}

	var in attachAnalysisRequest
	if err := c.Bind(&in); err != nil {
		return response.InvalidInput("invalid request body")
	}

	d, err := h.svc.AttachAnalysis(c.Request().Context(), id, in.Result)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, d, "analysis attached")
}

func (h *Handler) DeleteDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.InvalidInput("invalid id")
	}
	if err := h.svc.DeleteDocument(c.Request().Context(), id); err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, echo.Map{}, "document deleted")
}
