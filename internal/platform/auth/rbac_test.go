package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func doRequest(t *testing.T, id *Identity, roles ...string) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id != nil {
		req = req.WithContext(WithIdentity(req.Context(), id))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireRole(roles...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		he, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatalf("unexpected error type: %v", err)
		}
		return he.Code
	}
	return rec.Code
}

func TestRequireRole(t *testing.T) {
	staff := &Identity{Subject: "u1", Roles: []string{"staff"}}
	admin := &Identity{Subject: "u2", Roles: []string{"admin"}}

	if code := doRequest(t, staff, "staff", "doctor"); code != http.StatusOK {
		t.Errorf("staff should pass, got %d", code)
	}
	if code := doRequest(t, staff, "doctor"); code != http.StatusForbidden {
		t.Errorf("staff against doctor-only should be 403, got %d", code)
	}
	if code := doRequest(t, admin, "doctor"); code != http.StatusOK {
		t.Errorf("admin should pass any check, got %d", code)
	}
	if code := doRequest(t, nil, "staff"); code != http.StatusForbidden {
		t.Errorf("anonymous should be 403, got %d", code)
	}
}
