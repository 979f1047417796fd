package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medirec/medirec/internal/platform/token"
	"github.com/medirec/medirec/pkg/response"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	IdentityKey contextKey = "user_identity"
)

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID   string
	Email    string
	FullName string
	Role     string
}

// Verifier validates an access token and returns its claims.
type Verifier interface {
	VerifyAccessToken(tokenStr string) (*token.AccessClaims, error)
}

// Middleware authenticates requests using a bearer Authorization header or,
// failing that, the accessToken cookie set at login.
func Middleware(verifier Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := bearerToken(c)
			if tokenStr == "" {
				if cookie, err := c.Cookie("accessToken"); err == nil {
					tokenStr = cookie.Value
				}
			}
			if tokenStr == "" {
				return response.Unauthorized("unauthorized request")
			}

			claims, err := verifier.VerifyAccessToken(tokenStr)
			if err != nil {
				return response.Unauthorized("invalid access token")
			}

			identity := Identity{
				UserID:   claims.UserID,
				Email:    claims.Email,
				FullName: claims.FullName,
				Role:     claims.Role,
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, UserIDKey, identity.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, identity.Role)
			ctx = context.WithValue(ctx, IdentityKey, identity)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok
}
