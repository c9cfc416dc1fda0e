package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// invoke runs a request through JWTAuth into a handler that echoes the
// injected email.
func invoke(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotEmail string
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		gotEmail = CurrentEmail(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, gotEmail
}

func TestJWTAuth(t *testing.T) {
	t.Parallel()

	t.Run("valid token injects email", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, testSecret, jwt.MapClaims{
			"email": "ivan@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		rec, email := invoke(t, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if email != "ivan@example.com" {
			t.Errorf("CurrentEmail = %q, want ivan@example.com", email)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		rec, _ := invoke(t, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, "other-secret", jwt.MapClaims{
			"email": "ivan@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		rec, _ := invoke(t, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, testSecret, jwt.MapClaims{
			"email": "ivan@example.com",
			"exp":   time.Now().Add(-time.Hour).Unix(),
		})
		rec, _ := invoke(t, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("token without email claim", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "42",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		rec, _ := invoke(t, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestCurrentEmailUnauthenticated(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if got := CurrentEmail(c); got != "" {
		t.Errorf("CurrentEmail on bare context = %q, want empty", got)
	}
}
