package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"accessgate/internal/errors"
	"accessgate/internal/model"
)

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", "accessgate", "accessgate-clients")

	user := &model.User{ID: 42, Username: "alice", Email: "alice@example.com"}
	roles := []model.Role{
		{ID: 1, SystemName: "Administrator"},
		{ID: 2, SystemName: "Student"},
	}

	pair, err := svc.Issue(user, roles)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpiry), pair.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, []string{"Administrator", "Student"}, claims.Roles)
}

func TestJWTService_Validate_Rejections(t *testing.T) {
	svc := NewJWTService("test-secret", "accessgate", "accessgate-clients")
	user := &model.User{ID: 1, Username: "alice"}

	signedWith := func(s *JWTService) string {
		pair, err := s.Issue(user, nil)
		assert.NoError(t, err)
		return pair.AccessToken
	}

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage token",
			token: "not-a-jwt",
		},
		{
			name:  "wrong signing secret",
			token: signedWith(NewJWTService("other-secret", "accessgate", "accessgate-clients")),
		},
		{
			name:  "tampered signature",
			token: flipSignatureByte(signedWith(svc)),
		},
		{
			name:  "wrong issuer",
			token: signedWith(NewJWTService("test-secret", "someone-else", "accessgate-clients")),
		},
		{
			name:  "wrong audience",
			token: signedWith(NewJWTService("test-secret", "accessgate", "other-clients")),
		},
		{
			name:  "expired token",
			token: expiredToken(t, "test-secret"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Validate(tt.token)
			// Every rejection reason collapses to the same error.
			assert.ErrorIs(t, err, errors.ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

// flipSignatureByte corrupts the last character of the signature
// segment without touching header or payload.
func flipSignatureByte(token string) string {
	last := token[len(token)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	return token[:len(token)-1] + string(replacement)
}

func expiredToken(t *testing.T, secret string) string {
	t.Helper()
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "accessgate",
			Audience:  jwt.ClaimStrings{"accessgate-clients"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestNewOpaqueToken(t *testing.T) {
	first, err := NewOpaqueToken()
	assert.NoError(t, err)
	second, err := NewOpaqueToken()
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)

	raw, err := base64.StdEncoding.DecodeString(first)
	assert.NoError(t, err)
	assert.Len(t, raw, 64)
}
