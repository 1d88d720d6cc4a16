package middleware

import (
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"accessgate/internal/auth"
)

// Authentication returns the bearer-token middleware for protected
// route groups. Token parsing is delegated to the JWT service so every
// request gets the same signature, issuer, audience and expiry checks
// as explicit validation, and every failure is reported uniformly.
func Authentication(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.Validate(token)
		},
	})
}

// CurrentUserID extracts the numeric subject of the authenticated
// principal. The second return is false when the request carries no
// validated claims or the subject does not parse.
func CurrentUserID(c echo.Context) (uint, bool) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
