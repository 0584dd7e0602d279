package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopstack/catalog-api/internal/core/domain"
)

func callErrorHandler(t *testing.T, err error) (*httptest.ResponseRecorder, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not the error envelope: %v", err)
	}
	return rec, body.Error
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "not authorized"},
		{"product not found", domain.ErrProductNotFound, http.StatusNotFound, "product not found"},
		{"invalid id masquerades as not found", domain.ErrInvalidID, http.StatusNotFound, "product not found"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"duplicate user", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"store down", fmt.Errorf("count products: %w: conn refused", domain.ErrStoreUnavailable),
			http.StatusServiceUnavailable, "store temporarily unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, msg := callErrorHandler(t, tc.err)
			if rec.Code != tc.wantCode {
				t.Errorf("code: expected %d, got %d", tc.wantCode, rec.Code)
			}
			if msg != tc.wantMsg {
				t.Errorf("message: expected %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationKeepsMessage(t *testing.T) {
	err := fmt.Errorf("%w: price must be a number", domain.ErrValidation)

	rec, msg := callErrorHandler(t, err)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg != err.Error() {
		t.Errorf("validation details must reach the client, got %q", msg)
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	rec, msg := callErrorHandler(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg != "missing authentication claims" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestHTTPErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	rec, msg := callErrorHandler(t, errors.New("pq: relation does not exist"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg != "internal server error" {
		t.Errorf("internal details must not leak, got %q", msg)
	}
}
