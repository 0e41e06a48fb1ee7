package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rimba/nft-store/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// Chain submission failures are the one deliberate exception to the no-leak
// rule: the provider's message is surfaced verbatim so callers can see why a
// mint was rejected.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidRegistration),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrInvalidAsset),
		errors.Is(err, domain.ErrMissingImage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrAssetNotFound):
		return http.StatusNotFound, "nft not found"
	case errors.Is(err, domain.ErrDuplicateMint):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusInternalServerError, err.Error()
	}

	// Chain provider failures carry the underlying message through.
	var ce *domain.ChainError
	if errors.As(err, &ce) {
		log.Error().Err(ce.Err).Str("step", ce.Step).Msg("chain submission failed")
		return http.StatusInternalServerError, ce.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
