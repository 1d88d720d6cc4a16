package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"accessgate/internal/auth"
	"accessgate/internal/errors"
	"accessgate/internal/mail"
	"accessgate/internal/model"
	"accessgate/internal/repository"
)

const (
	bcryptCost = 10

	// verificationTokenTTL applies to both email-verification and
	// password-reset tokens.
	verificationTokenTTL = 24 * time.Hour

	// defaultRoleSystemName is assigned to every new registration.
	defaultRoleSystemName = "Student"
)

// AuthService handles registration, credential checks and the token
// lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	VerifyEmail(ctx context.Context, userID uint, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, username, password string) (*auth.TokenPair, *model.User, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, userID uint, token, newPassword, confirmPassword string) error
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword, confirmPassword string) error
	Revoke(ctx context.Context, userID uint) error
}

type authService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	jwtService *auth.JWTService
	mailer     mail.Sender
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, jwtService *auth.JWTService, mailer mail.Sender) AuthService {
	return &authService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		mailer:     mailer,
	}
}

// Register creates an unconfirmed user, links the default role and
// sends the verification email. Duplicate checks run before any write.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if existing, err := s.userRepo.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, errors.ErrUsernameTaken
	} else if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.ErrEmailTaken
	} else if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(verificationTokenTTL)

	user := &model.User{
		Username:                     username,
		Email:                        email,
		PasswordHash:                 string(hashed),
		IsActive:                     true,
		EmailConfirmed:               false,
		EmailVerificationToken:       token,
		EmailVerificationTokenExpiry: &expiry,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if role, err := s.roleRepo.FindBySystemName(ctx, defaultRoleSystemName); err == nil {
		if err := s.roleRepo.AddUser(ctx, user.ID, role.ID); err != nil {
			return nil, fmt.Errorf("assign default role: %w", err)
		}
	}

	// Delivery failure does not undo the registration.
	if err := s.mailer.SendVerificationEmail(user.Email, strconv.FormatUint(uint64(user.ID), 10), token); err != nil {
		log.Printf("verification email for user %d: %v", user.ID, err)
	}

	return user, nil
}

// VerifyEmail confirms the address when the token matches and has not
// expired. An already confirmed address verifies trivially.
func (s *authService) VerifyEmail(ctx context.Context, userID uint, token string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailConfirmed {
		return nil
	}
	if user.EmailVerificationToken == "" || user.EmailVerificationToken != token {
		return errors.ErrInvalidVerificationToken
	}
	if user.EmailVerificationTokenExpiry == nil || user.EmailVerificationTokenExpiry.Before(time.Now()) {
		return errors.ErrVerificationTokenExpired
	}

	user.EmailConfirmed = true
	user.EmailVerificationToken = ""
	user.EmailVerificationTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	return nil
}

// ResendVerification issues a fresh verification token. Unknown emails
// succeed silently so callers cannot probe for registered addresses.
func (s *authService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.EmailConfirmed {
		return errors.ErrAlreadyVerified
	}

	token, err := auth.NewOpaqueToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(verificationTokenTTL)
	user.EmailVerificationToken = token
	user.EmailVerificationTokenExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	if err := s.mailer.SendVerificationEmail(user.Email, strconv.FormatUint(uint64(user.ID), 10), token); err != nil {
		log.Printf("verification email for user %d: %v", user.ID, err)
	}
	return nil
}

// Login authenticates the user and issues a token pair, persisting the
// rotated refresh token. Missing user and wrong password are
// indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (*auth.TokenPair, *model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, errors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, errors.ErrAccountDeactivated
	}
	if !user.EmailConfirmed {
		return nil, nil, errors.ErrEmailNotConfirmed
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, errors.ErrInvalidCredentials
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh exchanges a stored refresh token for a fresh pair. The
// presented token is looked up by equality and invalidated by the
// rotation, so each refresh token works exactly once.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if refreshToken == "" {
		return nil, errors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.ErrInvalidRefreshToken
	}
	if user.RefreshTokenExpiry == nil || !user.RefreshTokenExpiry.After(time.Now()) {
		return nil, errors.ErrInvalidRefreshToken
	}
	if !user.EmailConfirmed {
		return nil, errors.ErrEmailNotConfirmed
	}

	return s.issueAndStore(ctx, user)
}

// ForgotPassword issues a reset token; unknown emails succeed silently.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	token, err := auth.NewOpaqueToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(verificationTokenTTL)
	user.PasswordResetToken = token
	user.PasswordResetTokenExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(user.Email, strconv.FormatUint(uint64(user.ID), 10), token); err != nil {
		log.Printf("password reset email for user %d: %v", user.ID, err)
	}
	return nil
}

// ResetPassword replaces the password when the reset token is valid.
// All checks run before any mutation.
func (s *authService) ResetPassword(ctx context.Context, userID uint, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return errors.ErrPasswordMismatch
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordResetToken == "" || user.PasswordResetToken != token {
		return errors.ErrInvalidResetToken
	}
	if user.PasswordResetTokenExpiry == nil || user.PasswordResetTokenExpiry.Before(time.Now()) {
		return errors.ErrResetTokenExpired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	user.PasswordResetToken = ""
	user.PasswordResetTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *authService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword, confirmPassword string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return errors.ErrWrongPassword
	}
	if newPassword != confirmPassword {
		return errors.ErrPasswordMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// Revoke clears the stored refresh token so it can no longer be
// exchanged.
func (s *authService) Revoke(ctx context.Context, userID uint) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshToken = ""
	user.RefreshTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *authService) findUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// issueAndStore mints a token pair and overwrites the stored refresh
// token, rotating out whatever was there before.
func (s *authService) issueAndStore(ctx context.Context, user *model.User) (*auth.TokenPair, error) {
	roles, err := s.userRepo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup roles: %w", err)
	}

	pair, err := s.jwtService.Issue(user, roles)
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(auth.RefreshTokenExpiry)
	user.RefreshToken = pair.RefreshToken
	user.RefreshTokenExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}
