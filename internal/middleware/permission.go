package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
)

// policyPrefix namespaces permission-backed policies. Routes declare a
// required permission system-name; the full policy name is
// "permission:<system-name>".
const policyPrefix = "permission:"

// Requirement is the parsed form of a permission policy.
type Requirement struct {
	Permission string
}

// requirements interns parsed policy names so each one is resolved once
// regardless of how many routes or requests reference it.
var requirements sync.Map

func resolvePolicy(name string) (Requirement, bool) {
	if !strings.HasPrefix(name, policyPrefix) {
		return Requirement{}, false
	}
	if v, ok := requirements.Load(name); ok {
		return v.(Requirement), true
	}
	req := Requirement{Permission: strings.TrimPrefix(name, policyPrefix)}
	requirements.Store(name, req)
	return req, true
}

// Authorizer answers permission checks for a user. An empty permission
// name always grants.
type Authorizer interface {
	Authorize(ctx context.Context, userID uint, systemName string) (bool, error)
}

// RequirePermission gates a route on a permission system-name. One
// generic handler evaluates every requirement: missing or invalid
// principal denies with 401, a held check failure denies with 403, and
// resolution errors deny rather than propagate.
func RequirePermission(authorizer Authorizer, permission string) echo.MiddlewareFunc {
	return requirePolicy(authorizer, policyPrefix+permission)
}

func requirePolicy(authorizer Authorizer, name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requirement, ok := resolvePolicy(name)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}

			userID, ok := CurrentUserID(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			granted, err := authorizer.Authorize(c.Request().Context(), userID, requirement.Permission)
			if err != nil || !granted {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
