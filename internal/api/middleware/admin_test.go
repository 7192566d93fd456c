package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAdminToken_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer supersecret")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := AdminToken("supersecret")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminToken_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := AdminToken("supersecret")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAdminToken_WrongToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := AdminToken("supersecret")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

// A wrong token and a missing token must produce the same message so
// callers cannot probe which case they hit.
func TestAdminToken_SameMessageForMissingAndWrong(t *testing.T) {
	e := echo.New()

	message := func(authorization string) interface{} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		c := e.NewContext(req, httptest.NewRecorder())
		err := AdminToken("supersecret")(func(echo.Context) error { return nil })(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatalf("expected HTTPError, got %v", err)
		}
		return httpErr.Message
	}

	if message("") != message("Bearer wrong") {
		t.Fatalf("missing and wrong token must be indistinguishable")
	}
}

func TestAdminToken_UnconfiguredTokenRefuses(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := AdminToken("")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unconfigured token, got %v", err)
	}
}
