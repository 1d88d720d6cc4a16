package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"accessgate/internal/auth"
)

// fakeAuthorizer answers permission checks from a fixed set.
type fakeAuthorizer struct {
	granted map[string]bool
	err     error
}

func (f *fakeAuthorizer) Authorize(_ context.Context, _ uint, systemName string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if systemName == "" {
		return true, nil
	}
	return f.granted[systemName], nil
}

func newTestContext(subject string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if subject != "" {
		c.Set("user", &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		})
	}
	return c, rec
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name         string
		subject      string
		permission   string
		authorizer   *fakeAuthorizer
		expectedCode int
		expectNext   bool
	}{
		{
			name:         "unauthenticated request denied",
			subject:      "",
			permission:   "users.view",
			authorizer:   &fakeAuthorizer{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "unparsable subject denied",
			subject:      "not-a-number",
			permission:   "users.view",
			authorizer:   &fakeAuthorizer{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "missing permission denied",
			subject:      "42",
			permission:   "users.view",
			authorizer:   &fakeAuthorizer{granted: map[string]bool{}},
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "resolution error denies rather than propagating",
			subject:      "42",
			permission:   "users.view",
			authorizer:   &fakeAuthorizer{err: assert.AnError},
			expectedCode: http.StatusForbidden,
		},
		{
			name:       "held permission grants",
			subject:    "42",
			permission: "users.view",
			authorizer: &fakeAuthorizer{granted: map[string]bool{"users.view": true}},
			expectNext: true,
		},
		{
			name:       "empty requirement grants",
			subject:    "42",
			permission: "",
			authorizer: &fakeAuthorizer{},
			expectNext: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(tt.subject)

			nextCalled := false
			next := func(c echo.Context) error {
				nextCalled = true
				return c.NoContent(http.StatusOK)
			}

			err := RequirePermission(tt.authorizer, tt.permission)(next)(c)

			if tt.expectNext {
				assert.NoError(t, err)
				assert.True(t, nextCalled)
				return
			}

			assert.False(t, nextCalled)
			var httpErr *echo.HTTPError
			assert.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.expectedCode, httpErr.Code)
		})
	}
}

func TestCurrentUserID(t *testing.T) {
	c, _ := newTestContext("42")
	id, ok := CurrentUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	c, _ = newTestContext("")
	_, ok = CurrentUserID(c)
	assert.False(t, ok)

	c, _ = newTestContext("abc")
	_, ok = CurrentUserID(c)
	assert.False(t, ok)
}
