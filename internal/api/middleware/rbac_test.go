package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRBAC(t *testing.T, role string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/clients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	if err := RBAC(allowed...)(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return rec
}

func TestRBAC(t *testing.T) {
	if rec := runRBAC(t, "admin", "admin"); rec.Code != http.StatusOK {
		t.Errorf("admin allowed: status = %d", rec.Code)
	}
	if rec := runRBAC(t, "client", "admin"); rec.Code != http.StatusForbidden {
		t.Errorf("client forbidden: status = %d", rec.Code)
	}
	if rec := runRBAC(t, "", "admin"); rec.Code != http.StatusForbidden {
		t.Errorf("missing role forbidden: status = %d", rec.Code)
	}
}
