package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loanserve/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, sub, role string, secret []byte) string {
	t.Helper()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, auth.Session) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got auth.Session
	h := Auth(testSecret)(func(c echo.Context) error {
		got = SessionFrom(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	return rec, got
}

func TestAuth_ValidToken(t *testing.T) {
	tok := signToken(t, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "admin", testSecret)
	rec, sess := runAuth(t, "Bearer "+tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if sess.UserID != "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb" || !sess.IsAdmin() {
		t.Fatalf("session = %+v", sess)
	}
}

func TestAuth_UnknownRoleDowngradesToUser(t *testing.T) {
	tok := signToken(t, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "superuser", testSecret)
	rec, sess := runAuth(t, "Bearer "+tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if sess.Role != auth.RoleUser {
		t.Fatalf("role = %s, want user", sess.Role)
	}
}

func TestAuth_Rejections(t *testing.T) {
	expired := func() string {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		return s
	}()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, "u", "user", []byte("other"))},
		{"expired", "Bearer " + expired},
	}
	for _, tc := range cases {
		rec, _ := runAuth(t, tc.header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: code = %d, want 401", tc.name, rec.Code)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	call := func(sess auth.Session) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(sessionKey, sess)
		h := RequireAdmin()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		if err := h(c); err != nil {
			t.Fatalf("handler err: %v", err)
		}
		return rec.Code
	}

	if code := call(auth.Session{UserID: "a", Role: auth.RoleAdmin}); code != http.StatusOK {
		t.Fatalf("admin code = %d", code)
	}
	if code := call(auth.Session{UserID: "u", Role: auth.RoleUser}); code != http.StatusForbidden {
		t.Fatalf("user code = %d", code)
	}
}
