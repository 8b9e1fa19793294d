package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"loanserve/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Claims is the token payload this service verifies. Issuance (login,
// refresh, session storage) lives in an external collaborator.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

const sessionKey = "loanserve.session"

// Auth validates the bearer token and stores an explicit auth.Session in the
// request scope. Handlers pull it with SessionFrom and pass it down by value;
// nothing reads ambient global session state.
func Auth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return unauthorized(c, "missing bearer token")
			}

			claims := &Claims{}
			tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !tok.Valid || claims.Subject == "" {
				return unauthorized(c, "invalid or expired token")
			}

			role := auth.RoleUser
			if claims.Role == string(auth.RoleAdmin) {
				role = auth.RoleAdmin
			}
			SetSession(c, auth.Session{UserID: claims.Subject, Role: role})
			return next(c)
		}
	}
}

// RequireAdmin rejects non-administrators before any handler work. The
// usecases check again; this just fails fast at the route boundary.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !SessionFrom(c).IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]any{
					"type": "forbidden", "message": "admin access required", "status": http.StatusForbidden,
				})
			}
			return next(c)
		}
	}
}

// SetSession stores a session in the request scope. Handler tests that skip
// Auth use it directly.
func SetSession(c echo.Context, s auth.Session) { c.Set(sessionKey, s) }

func SessionFrom(c echo.Context) auth.Session {
	s, _ := c.Get(sessionKey).(auth.Session)
	return s
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{
		"type": "unauthorized", "message": msg, "status": http.StatusUnauthorized,
	})
}
