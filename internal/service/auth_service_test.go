package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"accessgate/internal/auth"
	"accessgate/internal/errors"
	"accessgate/internal/model"
)

func newAuthServiceForTest() (AuthService, *MockUserRepository, *MockRoleRepository, *MockSender) {
	mockUsers := new(MockUserRepository)
	mockRoles := new(MockRoleRepository)
	mockMail := new(MockSender)
	jwtService := auth.NewJWTService("test-secret", "accessgate", "accessgate-clients")
	svc := NewAuthService(mockUsers, mockRoles, jwtService, mockMail)
	return svc, mockUsers, mockRoles, mockMail
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		setupMock     func(*MockUserRepository, *MockRoleRepository, *MockSender)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "newuser",
			email:    "new@example.com",
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository, mMail *MockSender) {
				mUsers.On("FindByUsername", mock.Anything, "newuser").Return(nil, gorm.ErrRecordNotFound)
				mUsers.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				mUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				mRoles.On("FindBySystemName", mock.Anything, "Student").Return(&model.Role{ID: 2, SystemName: "Student"}, nil)
				mRoles.On("AddUser", mock.Anything, mock.Anything, uint(2)).Return(nil)
				mMail.On("SendVerificationEmail", "new@example.com", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:     "username taken",
			username: "taken",
			email:    "new@example.com",
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository, mMail *MockSender) {
				mUsers.On("FindByUsername", mock.Anything, "taken").Return(&model.User{ID: 1, Username: "taken"}, nil)
			},
			expectedError: errors.ErrUsernameTaken,
		},
		{
			name:     "email taken",
			username: "newuser",
			email:    "taken@example.com",
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository, mMail *MockSender) {
				mUsers.On("FindByUsername", mock.Anything, "newuser").Return(nil, gorm.ErrRecordNotFound)
				mUsers.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{ID: 1}, nil)
			},
			expectedError: errors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockUsers, mockRoles, mockMail := newAuthServiceForTest()
			tt.setupMock(mockUsers, mockRoles, mockMail)

			user, err := svc.Register(context.Background(), tt.username, tt.email, "Password1!")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.False(t, user.EmailConfirmed)
				assert.NotEmpty(t, user.EmailVerificationToken)
				assert.NotNil(t, user.EmailVerificationTokenExpiry)
				assert.NotEqual(t, "Password1!", user.PasswordHash)
			}
			mockUsers.AssertExpectations(t)
			mockRoles.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_MailFailureDoesNotRollBack(t *testing.T) {
	svc, mockUsers, mockRoles, mockMail := newAuthServiceForTest()

	mockUsers.On("FindByUsername", mock.Anything, "newuser").Return(nil, gorm.ErrRecordNotFound)
	mockUsers.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	mockRoles.On("FindBySystemName", mock.Anything, "Student").Return(&model.Role{ID: 2}, nil)
	mockRoles.On("AddUser", mock.Anything, mock.Anything, uint(2)).Return(nil)
	mockMail.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	user, err := svc.Register(context.Background(), "newuser", "new@example.com", "Password1!")
	assert.NoError(t, err)
	assert.NotNil(t, user)
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		setupMock     func(t *testing.T, m *MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			password: "password123",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID:             1,
					Username:       "alice",
					PasswordHash:   hashPassword(t, "password123"),
					IsActive:       true,
					EmailConfirmed: true,
				}, nil)
				m.On("GetRoles", mock.Anything, uint(1)).Return([]model.Role{{ID: 2, SystemName: "Student"}}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "unknown user",
			password: "password123",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			password: "wrong",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID:             1,
					PasswordHash:   hashPassword(t, "password123"),
					IsActive:       true,
					EmailConfirmed: true,
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "deactivated account",
			password: "password123",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID:             1,
					PasswordHash:   hashPassword(t, "password123"),
					IsActive:       false,
					EmailConfirmed: true,
				}, nil)
			},
			expectedError: errors.ErrAccountDeactivated,
		},
		{
			name:     "unconfirmed email",
			password: "password123",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID:           1,
					PasswordHash: hashPassword(t, "password123"),
					IsActive:     true,
				}, nil)
			},
			expectedError: errors.ErrEmailNotConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockUsers, _, _ := newAuthServiceForTest()
			tt.setupMock(t, mockUsers)

			pair, user, err := svc.Login(context.Background(), "alice", tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, pair)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, pair.AccessToken)
				assert.NotEmpty(t, pair.RefreshToken)
				// The rotated refresh token is persisted on the user row.
				assert.Equal(t, pair.RefreshToken, user.RefreshToken)
				assert.NotNil(t, user.RefreshTokenExpiry)
			}
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	svc, mockUsers, _, _ := newAuthServiceForTest()

	expiry := time.Now().Add(time.Hour)
	user := &model.User{
		ID:                 1,
		Username:           "alice",
		EmailConfirmed:     true,
		RefreshToken:       "stored-token",
		RefreshTokenExpiry: &expiry,
	}
	mockUsers.On("FindByRefreshToken", mock.Anything, "stored-token").Return(user, nil)
	mockUsers.On("GetRoles", mock.Anything, uint(1)).Return([]model.Role{}, nil)
	mockUsers.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	pair, err := svc.Refresh(context.Background(), "stored-token")
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
	// Rotation replaces the stored token, so the presented one is spent.
	assert.NotEqual(t, "stored-token", user.RefreshToken)
	assert.Equal(t, pair.RefreshToken, user.RefreshToken)
}

func TestAuthService_Refresh_Invalid(t *testing.T) {
	expired := time.Now().Add(-time.Minute)

	tests := []struct {
		name      string
		token     string
		setupMock func(*MockUserRepository)
	}{
		{
			name:      "empty token",
			token:     "",
			setupMock: func(m *MockUserRepository) {},
		},
		{
			name:  "unknown token",
			token: "nope",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByRefreshToken", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)
			},
		},
		{
			name:  "expired token",
			token: "old",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByRefreshToken", mock.Anything, "old").Return(&model.User{
					ID:                 1,
					EmailConfirmed:     true,
					RefreshToken:       "old",
					RefreshTokenExpiry: &expired,
				}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockUsers, _, _ := newAuthServiceForTest()
			tt.setupMock(mockUsers)

			pair, err := svc.Refresh(context.Background(), tt.token)
			assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
			assert.Nil(t, pair)
		})
	}
}

func TestAuthService_VerifyEmail(t *testing.T) {
	valid := time.Now().Add(time.Hour)
	expired := time.Now().Add(-time.Hour)

	tests := []struct {
		name          string
		token         string
		user          model.User
		expectUpdate  bool
		expectedError error
	}{
		{
			name:  "valid token confirms",
			token: "tok",
			user: model.User{
				ID:                           1,
				EmailVerificationToken:       "tok",
				EmailVerificationTokenExpiry: &valid,
			},
			expectUpdate: true,
		},
		{
			name:  "already confirmed is a no-op",
			token: "whatever",
			user:  model.User{ID: 1, EmailConfirmed: true},
		},
		{
			name:  "wrong token",
			token: "other",
			user: model.User{
				ID:                           1,
				EmailVerificationToken:       "tok",
				EmailVerificationTokenExpiry: &valid,
			},
			expectedError: errors.ErrInvalidVerificationToken,
		},
		{
			name:  "expired token",
			token: "tok",
			user: model.User{
				ID:                           1,
				EmailVerificationToken:       "tok",
				EmailVerificationTokenExpiry: &expired,
			},
			expectedError: errors.ErrVerificationTokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockUsers, _, _ := newAuthServiceForTest()
			user := tt.user
			mockUsers.On("FindByID", mock.Anything, uint(1)).Return(&user, nil)
			if tt.expectUpdate {
				mockUsers.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			}

			err := svc.VerifyEmail(context.Background(), 1, tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectUpdate {
				assert.True(t, user.EmailConfirmed)
				assert.Empty(t, user.EmailVerificationToken)
				assert.Nil(t, user.EmailVerificationTokenExpiry)
			}
		})
	}
}

func TestAuthService_ForgotPassword_UnknownEmailSilent(t *testing.T) {
	svc, mockUsers, _, mockMail := newAuthServiceForTest()
	mockUsers.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	mockMail.AssertNotCalled(t, "SendPasswordResetEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ResetPassword(t *testing.T) {
	valid := time.Now().Add(time.Hour)
	expired := time.Now().Add(-time.Minute)

	tests := []struct {
		name          string
		token         string
		newPassword   string
		confirm       string
		user          *model.User
		expectUpdate  bool
		expectedError error
	}{
		{
			name:        "valid reset",
			token:       "tok",
			newPassword: "NewPass1!",
			confirm:     "NewPass1!",
			user: &model.User{
				ID:                       1,
				PasswordResetToken:       "tok",
				PasswordResetTokenExpiry: &valid,
			},
			expectUpdate: true,
		},
		{
			name:          "password mismatch checked first",
			token:         "tok",
			newPassword:   "NewPass1!",
			confirm:       "different",
			expectedError: errors.ErrPasswordMismatch,
		},
		{
			name:        "wrong token",
			token:       "other",
			newPassword: "NewPass1!",
			confirm:     "NewPass1!",
			user: &model.User{
				ID:                       1,
				PasswordResetToken:       "tok",
				PasswordResetTokenExpiry: &valid,
			},
			expectedError: errors.ErrInvalidResetToken,
		},
		{
			name:        "expired token",
			token:       "tok",
			newPassword: "NewPass1!",
			confirm:     "NewPass1!",
			user: &model.User{
				ID:                       1,
				PasswordResetToken:       "tok",
				PasswordResetTokenExpiry: &expired,
			},
			expectedError: errors.ErrResetTokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockUsers, _, _ := newAuthServiceForTest()
			if tt.user != nil {
				mockUsers.On("FindByID", mock.Anything, uint(1)).Return(tt.user, nil)
			}
			if tt.expectUpdate {
				mockUsers.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			}

			err := svc.ResetPassword(context.Background(), 1, tt.token, tt.newPassword, tt.confirm)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Empty(t, tt.user.PasswordResetToken)
				assert.Nil(t, tt.user.PasswordResetTokenExpiry)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(tt.user.PasswordHash), []byte(tt.newPassword)))
			}
		})
	}
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	svc, mockUsers, _, _ := newAuthServiceForTest()
	mockUsers.On("FindByID", mock.Anything, uint(1)).Return(&model.User{
		ID:           1,
		PasswordHash: hashPassword(t, "current"),
	}, nil)

	err := svc.ChangePassword(context.Background(), 1, "not-current", "NewPass1!", "NewPass1!")
	assert.ErrorIs(t, err, errors.ErrWrongPassword)
	mockUsers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuthService_Revoke_ClearsStoredToken(t *testing.T) {
	svc, mockUsers, _, _ := newAuthServiceForTest()
	expiry := time.Now().Add(time.Hour)
	user := &model.User{ID: 1, RefreshToken: "stored", RefreshTokenExpiry: &expiry}
	mockUsers.On("FindByID", mock.Anything, uint(1)).Return(user, nil)
	mockUsers.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	err := svc.Revoke(context.Background(), 1)
	assert.NoError(t, err)
	assert.Empty(t, user.RefreshToken)
	assert.Nil(t, user.RefreshTokenExpiry)
}
