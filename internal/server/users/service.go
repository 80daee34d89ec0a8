// Package users implements account management: registration, password and
// OTP login, and password reset. Successful logins mint an access token
// carrying the user's identity.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dropwatch/internal/common"
	"dropwatch/internal/logging"
	"dropwatch/internal/server/auth"
	"dropwatch/internal/server/config"
	"dropwatch/internal/server/email"
	"dropwatch/internal/server/otp"
)

type Service struct {
	repo                  Repository
	codes                 *otp.Store
	mail                  email.Sender
	log                   logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	allowedEmailDomain    string
}

func NewService(repo Repository, codes *otp.Store, mail email.Sender, log logging.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:                  repo,
		codes:                 codes,
		mail:                  mail,
		log:                   log,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		allowedEmailDomain:    cfg.AllowedEmailDomain,
	}
}

func validRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

func (s *Service) Register(ctx context.Context, username, emailAddr, password, role string) (*User, error) {
	role = strings.ToLower(role)
	if !validRole(role) {
		return nil, common.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	user, err := s.repo.Create(ctx, &User{
		Username:     username,
		Email:        strings.ToLower(emailAddr),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *Service) issueToken(user *User) (string, error) {
	return auth.GenerateToken(auth.Identity{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}, s.jwtSecret, s.tokenValidityDuration)
}

// LoginPassword authenticates with email and password and returns an access
// token on success.
func (s *Service) LoginPassword(ctx context.Context, emailAddr, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", common.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// StartOTPLogin issues a one-time code for a registered account and mails it.
// The email must belong to the allowed domain.
func (s *Service) StartOTPLogin(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(emailAddr)
	if !strings.HasSuffix(emailAddr, s.allowedEmailDomain) {
		return common.ErrValidation
	}

	user, err := s.repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.ErrInternal
	}

	code, err := common.MakeRandDigits(6)
	if err != nil {
		return common.ErrInternal
	}
	s.codes.Issue(otp.PurposeLogin, user.Email, code)

	if err := s.mail.Send(ctx, user.Email, "Your DropWatch login code",
		fmt.Sprintf("Your one-time login code is %s.", code)); err != nil {
		s.log.Error(ctx, "sending OTP email", "error", err)
		return common.ErrInternal
	}

	return nil
}

// VerifyOTP redeems a login code for an access token.
func (s *Service) VerifyOTP(ctx context.Context, emailAddr, code string) (string, error) {
	emailAddr = strings.ToLower(emailAddr)

	if err := s.codes.Verify(otp.PurposeLogin, emailAddr, code); err != nil {
		return "", err
	}

	user, err := s.repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return "", common.ErrInternal
	}

	return s.issueToken(user)
}

// ForgotPassword issues a reset code for a registered account and mails it.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(emailAddr)

	user, err := s.repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.ErrInternal
	}

	code, err := common.MakeRandDigits(6)
	if err != nil {
		return common.ErrInternal
	}
	s.codes.Issue(otp.PurposeReset, user.Email, code)

	if err := s.mail.Send(ctx, user.Email, "Your DropWatch password reset code",
		fmt.Sprintf("Your password reset code is %s.", code)); err != nil {
		s.log.Error(ctx, "sending reset email", "error", err)
		return common.ErrInternal
	}

	return nil
}

// ResetPassword redeems a reset code and replaces the account password.
func (s *Service) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	emailAddr = strings.ToLower(emailAddr)

	if err := s.codes.Verify(otp.PurposeReset, emailAddr, code); err != nil {
		return err
	}

	user, err := s.repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return common.ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrInternal
	}

	return s.repo.UpdatePassword(ctx, user.ID, hash)
}

// List returns every account, for the admin dashboard.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}
