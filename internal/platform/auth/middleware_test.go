package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medirec/medirec/internal/platform/token"
	"github.com/medirec/medirec/pkg/response"
)

func testTokenService() *token.Service {
	return token.NewService(token.Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		AccessTTL:     15 * time.Minute,
		RefreshSecret: []byte("refresh-secret-for-tests"),
		RefreshTTL:    240 * time.Hour,
	})
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestMiddleware_BearerToken(t *testing.T) {
	svc := testTokenService()
	signed, err := svc.IssueAccessToken("user-1", "jane@example.com", "Jane Doe", "patient")
	if err != nil {
		t.Fatalf("IssueAccessToken() error: %v", err)
	}

	e := echo.New()
	var gotID, gotRole string
	handler := Middleware(svc)(func(c echo.Context) error {
		gotID = UserIDFromContext(c.Request().Context())
		gotRole = RoleFromContext(c.Request().Context())
		return okHandler(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotID != "user-1" {
		t.Errorf("expected user-1, got %q", gotID)
	}
	if gotRole != "patient" {
		t.Errorf("expected role patient, got %q", gotRole)
	}
}

func TestMiddleware_CookieToken(t *testing.T) {
	svc := testTokenService()
	signed, err := svc.IssueAccessToken("user-2", "joe@example.com", "Joe Bloggs", "doctor")
	if err != nil {
		t.Fatalf("IssueAccessToken() error: %v", err)
	}

	e := echo.New()
	var identity Identity
	handler := Middleware(svc)(func(c echo.Context) error {
		identity, _ = IdentityFromContext(c.Request().Context())
		return okHandler(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: signed})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if identity.UserID != "user-2" {
		t.Errorf("expected user-2, got %q", identity.UserID)
	}
	if identity.Role != "doctor" {
		t.Errorf("expected role doctor, got %q", identity.Role)
	}
}

func TestMiddleware_MissingToken(t *testing.T) {
	svc := testTokenService()
	e := echo.New()
	handler := Middleware(svc)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler(c)
	if err == nil {
		t.Fatal("expected error for missing token")
	}
	apiErr, ok := err.(*response.Error)
	if !ok {
		t.Fatalf("expected *response.Error, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.Status)
	}
	if apiErr.Message != "unauthorized request" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	svc := testTokenService()
	e := echo.New()
	handler := Middleware(svc)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage.token.here")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler(c)
	if err == nil {
		t.Fatal("expected error for invalid token")
	}
	apiErr, ok := err.(*response.Error)
	if !ok {
		t.Fatalf("expected *response.Error, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.Status)
	}
}

func TestMiddleware_MalformedAuthHeader(t *testing.T) {
	svc := testTokenService()
	e := echo.New()
	handler := Middleware(svc)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err == nil {
		t.Fatal("expected error for non-bearer authorization")
	}
}

func requestWithRole(t *testing.T, e *echo.Echo, svc *token.Service, role string) echo.Context {
	t.Helper()
	signed, err := svc.IssueAccessToken("user-1", "jane@example.com", "Jane Doe", role)
	if err != nil {
		t.Fatalf("IssueAccessToken() error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestRequireRole_Allowed(t *testing.T) {
	svc := testTokenService()
	e := echo.New()
	handler := Middleware(svc)(RequireRole("doctor")(okHandler))

	c := requestWithRole(t, e, svc, "doctor")
	if err := handler(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	svc := testTokenService()
	e := echo.New()
	handler := Middleware(svc)(RequireRole("doctor")(okHandler))

	c := requestWithRole(t, e, svc, "patient")
	err := handler(c)
	if err == nil {
		t.Fatal("expected error for wrong role")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", httpErr.Code)
	}
}

func TestRequireRole_AdminOverride(t *testing.T) {
	svc := testTokenService()
	e := echo.New()
	handler := Middleware(svc)(RequireRole("doctor")(okHandler))

	c := requestWithRole(t, e, svc, "admin")
	if err := handler(c); err != nil {
		t.Fatalf("expected admin to pass role check, got %v", err)
	}
}
