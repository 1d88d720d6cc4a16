package handler

import (
	"github.com/labstack/echo/v4"

	"accessgate/internal/errors"
)

// httpError translates a domain error into an echo HTTP error carrying
// the standardized response body.
func httpError(err error) *echo.HTTPError {
	he := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
