package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_NoKeyConfigured(t *testing.T) {
	s := &Server{apiKey: ""}
	handler := s.authMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/metals/latest", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 when no API key configured, got %d", rr.Code)
	}
}

func TestAuthMiddleware_HealthBypass(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	handler := s.authMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for /health without auth, got %d", rr.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	handler := s.authMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/metals/latest", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_WrongKey(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	handler := s.authMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/metals/latest", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_CorrectKey(t *testing.T) {
	s := &Server{apiKey: "secret123"}
	handler := s.authMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/metals/latest", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid key, got %d", rr.Code)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	handler := corsMiddleware(okHandler(), "https://example.com")

	req := httptest.NewRequest(http.MethodOptions, "/v1/metals/latest", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Fatalf("allow-origin: got %q", got)
	}
}

func TestValidateDate(t *testing.T) {
	valid := []string{"2026-08-25", "1999-12-31"}
	invalid := []string{"2026-8-25", "20260825", "2026-13-01", "not-a-date", ""}

	for _, d := range valid {
		if !validateDate(d) {
			t.Fatalf("%q should validate", d)
		}
	}
	for _, d := range invalid {
		if validateDate(d) {
			t.Fatalf("%q should not validate", d)
		}
	}
}
