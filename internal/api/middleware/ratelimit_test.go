package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimit_BurstThenReject(t *testing.T) {
	e := echo.New()
	mw := RateLimit(1, 2)
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/verify", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		rec := httptest.NewRecorder()
		if err := mw(next)(e.NewContext(req, rec)); err != nil {
			t.Fatal(err)
		}
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	e := echo.New()
	mw := RateLimit(1, 1)
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/verify", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		if err := mw(next)(e.NewContext(req, rec)); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("first request from %s = %d", ip, rec.Code)
		}
	}
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	e := echo.New()
	mw := RateLimit(0, 0)
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/verify", nil)
		rec := httptest.NewRecorder()
		if err := mw(next)(e.NewContext(req, rec)); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d with limiter disabled", i, rec.Code)
		}
	}
}
