package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rimba/nft-store/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not json: %v", err)
	}
	return rec.Code, body["error"]
}

func TestErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid registration", domain.ErrInvalidRegistration, http.StatusBadRequest},
		{"duplicate user", domain.ErrUserExists, http.StatusBadRequest},
		{"missing image", domain.ErrMissingImage, http.StatusBadRequest},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"asset not found", domain.ErrAssetNotFound, http.StatusNotFound},
		{"duplicate mint", domain.ErrDuplicateMint, http.StatusConflict},
		{"invalid address", domain.ErrInvalidAddress, http.StatusInternalServerError},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := renderError(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
		})
	}
}

// Provider failures surface their underlying message verbatim; everything
// else unexpected collapses to a generic 500.
func TestErrorHandler_ChainErrorPassthrough(t *testing.T) {
	code, msg := renderError(t, &domain.ChainError{Step: "broadcast", Err: errors.New("replacement transaction underpriced")})
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if !strings.Contains(msg, "replacement transaction underpriced") {
		t.Fatalf("provider message must pass through, got %q", msg)
	}
}

func TestErrorHandler_UnexpectedError(t *testing.T) {
	code, msg := renderError(t, errors.New("mongo: socket was unexpectedly closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal details must not leak, got %q", msg)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if code != http.StatusUnauthorized || msg != "missing authorization header" {
		t.Fatalf("unexpected mapping: %d %q", code, msg)
	}
}
