package account

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medirec/medirec/internal/platform/auth"
	"github.com/medirec/medirec/pkg/response"
)

type Handler struct {
	svc        *Service
	refreshTTL time.Duration
	accessTTL  time.Duration
}

func NewHandler(svc *Service, accessTTL, refreshTTL time.Duration) *Handler {
	return &Handler{svc: svc, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// RegisterRoutes mounts the session endpoints. authGroup endpoints are
// reachable without a token except logout and change-password, which the
// caller wraps with the auth middleware via protected.
func (h *Handler) RegisterRoutes(authGroup, protected *echo.Group) {
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)

	protected.POST("/auth/logout", h.Logout)
	protected.POST("/auth/change-password", h.ChangePassword)
	protected.GET("/users/me", h.GetCurrentUser)
	protected.PATCH("/users/me", h.UpdateProfile)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return response.InvalidInput("invalid request body")
	}

	u, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, u, "user registered successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return response.InvalidInput("invalid request body")
	}

	u, pair, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, pair)
	return response.JSON(c, http.StatusOK, echo.Map{
		"user":         u,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

func (h *Handler) Logout(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Logout(c.Request().Context(), uid); err != nil {
		return err
	}

	h.clearSessionCookies(c)
	return response.JSON(c, http.StatusOK, echo.Map{}, "user logged out")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) Refresh(c echo.Context) error {
	tokenStr := ""
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		tokenStr = cookie.Value
	}
	if tokenStr == "" {
		var in refreshRequest
		if err := c.Bind(&in); err == nil {
			tokenStr = in.RefreshToken
		}
	}

	_, pair, err := h.svc.Refresh(c.Request().Context(), tokenStr)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, pair)
	return response.JSON(c, http.StatusOK, echo.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) ChangePassword(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}

	var in changePasswordRequest
	if err := c.Bind(&in); err != nil {
		return response.InvalidInput("invalid request body")
	}

	if err := h.svc.ChangePassword(c.Request().Context(), uid, in.OldPassword, in.NewPassword); err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, echo.Map{}, "password changed successfully")
}

func (h *Handler) GetCurrentUser(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}

	u, err := h.svc.GetCurrentUser(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, u, "current user fetched successfully")
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}

	var in UpdateProfileInput
	if err := c.Bind(&in); err != nil {
		return response.InvalidInput("invalid request body")
	}

	u, err := h.svc.UpdateProfile(c.Request().Context(), uid, in)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, u, "profile updated successfully")
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, response.Unauthorized("unauthorized request")
	}
	return uid, nil
}

func (h *Handler) setSessionCookies(c echo.Context, pair *TokenPair) {
	c.SetCookie(&http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearSessionCookies(c echo.Context) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
